package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eduteach/internal/domain"
	"eduteach/internal/metrics"
	"eduteach/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

type tokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// userResponse is the public shape of a user. It has no password field.
type userResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	AvatarURL *string     `json:"avatar_url"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.AvatarURL != "" {
		avatar := u.AvatarURL
		resp.AvatarURL = &avatar
	}
	return resp
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(currentUser(c)))
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	upload, cleanup, ok := formUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	url, err := h.media.UploadAvatar(c.Request.Context(), currentUser(c), upload)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

var predefinedAvatars = []string{
	"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1494790108755-2616b612b786?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=80&h=80&fit=crop&crop=face",
}

func (h *Handler) listAvatars(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"avatars": predefinedAvatars})
}

// formUpload reads the multipart "file" field. The returned cleanup closes it.
func formUpload(c *gin.Context) (service.Upload, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return service.Upload{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return service.Upload{}, nil, false
	}
	return service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, func() { _ = f.Close() }, true
}
