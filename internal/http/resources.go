package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"eduteach/internal/domain"
	"eduteach/internal/service"
)

// Create payloads. Server-owned fields are filled in by the constructors below.

type courseRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   *string `json:"description"`
	Category      string  `json:"category" binding:"required"`
	Level         string  `json:"level"`
	DurationHours int     `json:"duration_hours" binding:"gte=0"`
	Price         float64 `json:"price" binding:"gte=0"`
}

type assignmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	MaxScore    *int      `json:"max_score"`
	CourseID    *string   `json:"course_id"`
}

type examRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     *string   `json:"description"`
	ExamDate        time.Time `json:"exam_date" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
	TotalQuestions  int       `json:"total_questions" binding:"gte=0"`
	MaxScore        *int      `json:"max_score"`
	CourseID        *string   `json:"course_id"`
}

type webinarRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     *string   `json:"description"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
	MaxParticipants *int      `json:"max_participants"`
	WebinarType     string    `json:"webinar_type"`
}

type studentRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Notes    *string `json:"notes"`
	CourseID *string `json:"course_id"`
}

type libraryRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Category    string  `json:"category" binding:"required"`
	FileType    string  `json:"file_type" binding:"required"`
	IsPublic    *bool   `json:"is_public"`
	CourseID    *string `json:"course_id"`
}

type forumRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	IsPinned bool     `json:"is_pinned"`
}

const defaultMaxScore = 100

func newCourse(req courseRequest, by *domain.User, now time.Time) *domain.Course {
	return &domain.Course{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Level:          orDefault(req.Level, "beginner"),
		DurationHours:  req.DurationHours,
		Price:          req.Price,
		InstructorID:   by.ID,
		InstructorName: by.FullName,
		Status:         "draft",
		CreatedAt:      now,
	}
}

func newAssignment(req assignmentRequest, by *domain.User, now time.Time) *domain.Assignment {
	return &domain.Assignment{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		MaxScore:     intOrDefault(req.MaxScore, defaultMaxScore),
		InstructorID: by.ID,
		CourseID:     req.CourseID,
		Status:       "pending",
		CreatedAt:    now,
	}
}

func newExam(req examRequest, by *domain.User, now time.Time) *domain.Exam {
	return &domain.Exam{
		Title:           req.Title,
		Description:     req.Description,
		ExamDate:        req.ExamDate,
		DurationMinutes: req.DurationMinutes,
		TotalQuestions:  req.TotalQuestions,
		MaxScore:        intOrDefault(req.MaxScore, defaultMaxScore),
		InstructorID:    by.ID,
		CourseID:        req.CourseID,
		Status:          "upcoming",
		CreatedAt:       now,
	}
}

func newWebinar(req webinarRequest, by *domain.User, now time.Time) *domain.Webinar {
	return &domain.Webinar{
		Title:           req.Title,
		Description:     req.Description,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		MaxParticipants: req.MaxParticipants,
		WebinarType:     orDefault(req.WebinarType, "live"),
		InstructorID:    by.ID,
		Status:          "upcoming",
		CreatedAt:       now,
	}
}

func newStudent(req studentRequest, _ *domain.User, now time.Time) *domain.Student {
	return &domain.Student{
		FullName:  req.FullName,
		Email:     domain.NormalizeEmail(req.Email),
		Phone:     req.Phone,
		Notes:     req.Notes,
		CourseID:  req.CourseID,
		IsActive:  true,
		CreatedAt: now,
	}
}

func newLibraryDocument(req libraryRequest, by *domain.User, now time.Time) *domain.LibraryDocument {
	public := true
	if req.IsPublic != nil {
		public = *req.IsPublic
	}
	return &domain.LibraryDocument{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		FileType:    req.FileType,
		IsPublic:    public,
		AuthorID:    by.ID,
		AuthorName:  by.FullName,
		CourseID:    req.CourseID,
		CreatedAt:   now,
	}
}

func newForumTopic(req forumRequest, by *domain.User, now time.Time) *domain.ForumTopic {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	topic := &domain.ForumTopic{
		Title:      req.Title,
		Content:    req.Content,
		Category:   orDefault(req.Category, "general"),
		Tags:       tags,
		IsPinned:   req.IsPinned,
		AuthorID:   by.ID,
		AuthorName: by.FullName,
		CreatedAt:  now,
	}
	if by.AvatarURL != "" {
		avatar := by.AvatarURL
		topic.AuthorAvatar = &avatar
	}
	return topic
}

func listHandler[T any, PT interface {
	*T
	domain.Document
}](h *Handler, coll *service.Collection[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := coll.List(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func createHandler[Req any, T any, PT interface {
	*T
	domain.Document
}](h *Handler, coll *service.Collection[T, PT], build func(Req, *domain.User, time.Time) PT) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		doc, err := coll.Create(c.Request.Context(), build(req, currentUser(c), time.Now().UTC()))
		if err != nil {
			h.fail(c, err)
			return
		}
		h.logger.WithField("collection", coll.Name()).WithField("id", doc.DocumentID()).Debug("document created")
		c.JSON(http.StatusOK, doc)
	}
}

// getHandler serves one document; with countView set the read is recorded
// in the document's views counter.
func getHandler[T any, PT interface {
	*T
	domain.Document
}](h *Handler, coll *service.Collection[T, PT], label string, countView bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		get := coll.Get
		if countView {
			get = coll.View
		}
		doc, err := get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": label + " not found"})
			return
		}
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func (h *Handler) uploadDocument(c *gin.Context) {
	upload, cleanup, ok := formUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	public := true
	if raw := c.PostForm("is_public"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_public must be a boolean"})
			return
		}
		public = v
	}

	doc, err := h.media.UploadDocument(c.Request.Context(), currentUser(c), upload, service.LibraryUpload{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		CourseID:    c.PostForm("course_id"),
		IsPublic:    public,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
