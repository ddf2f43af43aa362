// Package server initializes and runs the application server.
// It opens the database, applies migrations, wires the services together
// and starts the HTTP server with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/datingapp/internal/logging"
	"github.com/dmitrijs2005/datingapp/internal/server/config"
	"github.com/dmitrijs2005/datingapp/internal/server/httpapi"
	"github.com/dmitrijs2005/datingapp/internal/server/imagehost"
	"github.com/dmitrijs2005/datingapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/datingapp/internal/server/services"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	memberService *services.MemberService
	photoService  *services.PhotoService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	host := imagehost.NewS3Host(c)

	us := services.NewUserService(db, rm, c)
	ms := services.NewMemberService(db, rm)
	ps := services.NewPhotoService(db, rm, host)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   us,
		memberService: ms,
		photoService:  ps,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger,
		app.userService, app.memberService, app.photoService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
