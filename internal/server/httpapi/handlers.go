package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/server/services"
)

// --- DTOs ---

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type photoDto struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"isMain"`
}

type memberDto struct {
	ID           string     `json:"id"`
	UserName     string     `json:"userName"`
	KnownAs      string     `json:"knownAs"`
	Age          int        `json:"age"`
	Gender       string     `json:"gender"`
	Introduction string     `json:"introduction"`
	LookingFor   string     `json:"lookingFor"`
	Interests    string     `json:"interests"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	Created      time.Time  `json:"created"`
	LastActive   time.Time  `json:"lastActive"`
	PhotoURL     string     `json:"photoUrl"`
	Photos       []photoDto `json:"photos"`
}

type profileUpdateRequest struct {
	KnownAs      string `json:"knownAs"`
	Introduction string `json:"introduction"`
	LookingFor   string `json:"lookingFor"`
	Interests    string `json:"interests"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

type paginationHeader struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
}

func toMemberDto(m *services.Member) memberDto {
	dto := memberDto{
		ID:           m.User.ID,
		UserName:     m.User.UserName,
		KnownAs:      m.User.KnownAs,
		Age:          m.User.Age(),
		Gender:       m.User.Gender,
		Introduction: m.User.Introduction,
		LookingFor:   m.User.LookingFor,
		Interests:    m.User.Interests,
		City:         m.User.City,
		Country:      m.User.Country,
		Created:      m.User.CreatedAt,
		LastActive:   m.User.LastActiveAt,
		Photos:       make([]photoDto, 0, len(m.Photos)),
	}
	for _, p := range m.Photos {
		dto.Photos = append(dto.Photos, photoDto{ID: p.ID, URL: p.URL, IsMain: p.IsMain})
	}
	if main := m.Photos.Main(); main != nil {
		dto.PhotoURL = main.URL
	}
	return dto
}

// writeError maps the service error taxonomy onto HTTP statuses.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrPhotoNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateUsername),
		errors.Is(err, common.ErrAlreadyMain),
		errors.Is(err, common.ErrCannotDeleteMainPhoto):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrRemoteDeletionFailed):
		status = http.StatusBadGateway
	case errors.Is(err, common.ErrorUnavailable):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// --- account ---

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	res, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userResponse{Username: res.UserName, Token: res.Token})
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	res, err := s.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{Username: res.UserName, Token: res.Token})
}

// --- members ---

func (s *HTTPServer) handleListMembers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	result, err := s.members.List(c.Request.Context(), page, pageSize)
	if err != nil {
		s.writeError(c, err)
		return
	}

	totalPages := int((result.Total + int64(result.PageSize) - 1) / int64(result.PageSize))
	header, _ := json.Marshal(paginationHeader{
		CurrentPage:  result.Page,
		ItemsPerPage: result.PageSize,
		TotalItems:   result.Total,
		TotalPages:   totalPages,
	})
	c.Header("Pagination", string(header))
	c.Header("Access-Control-Expose-Headers", "Pagination")

	dtos := make([]memberDto, 0, len(result.Members))
	for _, m := range result.Members {
		dtos = append(dtos, toMemberDto(m))
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *HTTPServer) handleGetMember(c *gin.Context) {
	member, err := s.members.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberDto(member))
}

func (s *HTTPServer) handleUpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := s.members.UpdateProfile(c.Request.Context(), currentUserID(c), services.ProfileUpdate{
		KnownAs:      req.KnownAs,
		Introduction: req.Introduction,
		LookingFor:   req.LookingFor,
		Interests:    req.Interests,
		City:         req.City,
		Country:      req.Country,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- photos ---

func (s *HTTPServer) handleAddPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	photo, err := s.photos.AddPhoto(c.Request.Context(), currentUserID(c), file, contentType)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, photoDto{ID: photo.ID, URL: photo.URL, IsMain: photo.IsMain})
}

func (s *HTTPServer) photoIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("photoId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid photo id"})
		return 0, false
	}
	return id, true
}

func (s *HTTPServer) handleSetMainPhoto(c *gin.Context) {
	id, ok := s.photoIDParam(c)
	if !ok {
		return
	}

	if err := s.photos.SetMainPhoto(c.Request.Context(), currentUserID(c), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleDeletePhoto(c *gin.Context) {
	id, ok := s.photoIDParam(c)
	if !ok {
		return
	}

	if err := s.photos.DeletePhoto(c.Request.Context(), currentUserID(c), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
