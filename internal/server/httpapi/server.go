// Package httpapi exposes the REST surface consumed by the SPA front-end.
// It marshals HTTP in and out and delegates everything else to the services.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/datingapp/internal/logging"
	"github.com/dmitrijs2005/datingapp/internal/server/services"
)

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     *services.UserService
	members   *services.MemberService
	photos    *services.PhotoService
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ms *services.MemberService, ps *services.PhotoService, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		members:   ms,
		photos:    ps,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *HTTPServer) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	account := api.Group("/account")
	account.POST("/register", s.handleRegister)
	account.POST("/login", s.handleLogin)

	users := api.Group("/users")
	users.Use(s.authRequired())
	users.GET("", s.handleListMembers)
	users.GET("/:username", s.handleGetMember)
	users.PUT("", s.handleUpdateProfile)
	users.POST("/photo", s.handleAddPhoto)
	users.PUT("/photo/:photoId", s.handleSetMainPhoto)
	users.DELETE("/photo/:photoId", s.handleDeletePhoto)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
