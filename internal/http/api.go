package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"eduteach/internal/auth"
	"eduteach/internal/domain"
	"eduteach/internal/metrics"
	"eduteach/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	catalog  *service.Catalog
	media    service.MediaService
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func NewHandler(
	users service.UserService,
	catalog *service.Catalog,
	media service.MediaService,
	logger logrus.FieldLogger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Handler {
	return &Handler{
		users:    users,
		catalog:  catalog,
		media:    media,
		logger:   logger,
		metrics:  m,
		gatherer: gatherer,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), h.countRequests(), corsMiddleware())

	router.POST("/register", h.register)
	router.POST("/token", h.login)
	router.GET("/avatars", h.listAvatars)
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/", h.authRequired())
	{
		api.GET("/users/me", h.me)
		api.POST("/users/avatar", h.uploadAvatar)

		api.GET("/courses", listHandler(h, h.catalog.Courses))
		api.POST("/courses", createHandler(h, h.catalog.Courses, newCourse))
		api.GET("/courses/:id", getHandler(h, h.catalog.Courses, "Course", false))

		api.GET("/assignments", listHandler(h, h.catalog.Assignments))
		api.POST("/assignments", createHandler(h, h.catalog.Assignments, newAssignment))
		api.GET("/assignments/:id", getHandler(h, h.catalog.Assignments, "Assignment", false))

		api.GET("/exams", listHandler(h, h.catalog.Exams))
		api.POST("/exams", createHandler(h, h.catalog.Exams, newExam))
		api.GET("/exams/:id", getHandler(h, h.catalog.Exams, "Exam", false))

		api.GET("/webinars", listHandler(h, h.catalog.Webinars))
		api.POST("/webinars", createHandler(h, h.catalog.Webinars, newWebinar))
		api.GET("/webinars/:id", getHandler(h, h.catalog.Webinars, "Webinar", false))

		api.GET("/students", listHandler(h, h.catalog.Students))
		api.POST("/students", createHandler(h, h.catalog.Students, newStudent))
		api.GET("/students/:id", getHandler(h, h.catalog.Students, "Student", false))

		api.GET("/library", listHandler(h, h.catalog.Library))
		api.POST("/library", createHandler(h, h.catalog.Library, newLibraryDocument))
		api.POST("/library/upload", h.uploadDocument)
		api.GET("/library/:id", getHandler(h, h.catalog.Library, "Document", true))

		api.GET("/forum", listHandler(h, h.catalog.Forum))
		api.POST("/forum", createHandler(h, h.catalog.Forum, newForumTopic))
		api.GET("/forum/:id", getHandler(h, h.catalog.Forum, "Topic", true))

		api.GET("/statistics", h.statistics)
		api.GET("/notifications", h.notifications)
		api.PUT("/notifications/:id/read", h.markNotificationRead)

		api.GET("/storage/objects", requireRole(domain.RoleAdmin), h.listObjects)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const (
	msgNotAuthenticated   = "Could not validate credentials"
	msgInvalidCredentials = "Incorrect email or password"
	msgEmailRegistered    = "Email already registered"
)

// fail maps service errors onto responses. Authentication failures of every
// kind produce the same body.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateIdentity):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmailRegistered})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
	case auth.IsAuthError(err):
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgNotAuthenticated})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
