package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) statistics(c *gin.Context) {
	stats, err := h.catalog.Statistics(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// notifications serves a fixed feed; there is no delivery backend yet.
func (h *Handler) notifications(c *gin.Context) {
	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{"notifications": []notification{
		{
			ID:        "1",
			Title:     "New assignment submission",
			Message:   "A student submitted the JavaScript basics assignment",
			Type:      "assignment",
			CreatedAt: now.Add(-2 * time.Minute),
		},
		{
			ID:        "2",
			Title:     "New enrollment",
			Message:   "A student enrolled in React Advanced",
			Type:      "enrollment",
			CreatedAt: now.Add(-time.Hour),
		},
		{
			ID:        "3",
			Title:     "Webinar starting soon",
			Message:   "The JavaScript ES6+ webinar starts in 30 minutes",
			Type:      "webinar",
			IsRead:    true,
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	unhealthy := func(err error) {
		h.logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
	}

	if err := h.catalog.Ping(ctx); err != nil {
		unhealthy(err)
		return
	}
	users, err := h.users.Count(ctx)
	if err != nil {
		unhealthy(err)
		return
	}
	courses, err := h.catalog.Courses.Count(ctx)
	if err != nil {
		unhealthy(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
		"users":    users,
		"courses":  courses,
	})
}

func (h *Handler) listObjects(c *gin.Context) {
	objects, err := h.media.ListObjects(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": objects})
}
