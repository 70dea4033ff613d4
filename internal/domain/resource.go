package domain

import "time"

// Collection names of the document store.
const (
	CollectionCourses     = "courses"
	CollectionAssignments = "assignments"
	CollectionExams       = "exams"
	CollectionWebinars    = "webinars"
	CollectionStudents    = "students"
	CollectionLibrary     = "library"
	CollectionForum       = "forum"
)

// Document is implemented by every record kept in the document store.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
}

type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description"`
	Category         string    `json:"category"`
	Level            string    `json:"level"`
	DurationHours    int       `json:"duration_hours"`
	Price            float64   `json:"price"`
	InstructorID     string    `json:"instructor_id"`
	InstructorName   string    `json:"instructor_name"`
	Status           string    `json:"status"`
	EnrolledStudents int       `json:"enrolled_students"`
	Progress         int       `json:"progress"`
	ImageURL         *string   `json:"image_url"`
	CreatedAt        time.Time `json:"created_at"`
}

type Assignment struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	DueDate      time.Time `json:"due_date"`
	MaxScore     int       `json:"max_score"`
	InstructorID string    `json:"instructor_id"`
	CourseID     *string   `json:"course_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssignmentStatusCompleted marks assignments counted as completed in statistics.
const AssignmentStatusCompleted = "completed"

type Exam struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	ExamDate        time.Time `json:"exam_date"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalQuestions  int       `json:"total_questions"`
	MaxScore        int       `json:"max_score"`
	InstructorID    string    `json:"instructor_id"`
	CourseID        *string   `json:"course_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type Webinar struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxParticipants *int      `json:"max_participants"`
	WebinarType     string    `json:"webinar_type"`
	InstructorID    string    `json:"instructor_id"`
	Status          string    `json:"status"`
	RegisteredCount int       `json:"registered_count"`
	ThumbnailURL    *string   `json:"thumbnail_url"`
	CreatedAt       time.Time `json:"created_at"`
}

type Student struct {
	ID                   string    `json:"id"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	Phone                *string   `json:"phone"`
	Notes                *string   `json:"notes"`
	CourseID             *string   `json:"course_id"`
	IsActive             bool      `json:"is_active"`
	Progress             int       `json:"progress"`
	CompletedAssignments int       `json:"completed_assignments"`
	AverageScore         float64   `json:"average_score"`
	AvatarURL            *string   `json:"avatar_url"`
	CreatedAt            time.Time `json:"created_at"`
}

type LibraryDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Category    string    `json:"category"`
	FileType    string    `json:"file_type"`
	IsPublic    bool      `json:"is_public"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	CourseID    *string   `json:"course_id"`
	FileURL     string    `json:"file_url"`
	FileSize    int64     `json:"file_size"`
	Views       int       `json:"views"`
	Downloads   int       `json:"downloads"`
	CreatedAt   time.Time `json:"created_at"`
}

type ForumTopic struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	IsPinned     bool      `json:"is_pinned"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar *string   `json:"author_avatar"`
	Views        int       `json:"views"`
	Replies      int       `json:"replies"`
	CreatedAt    time.Time `json:"created_at"`
}

// Statistics aggregates collection counters for the dashboard.
type Statistics struct {
	TotalCourses          int     `json:"total_courses"`
	TotalAssignments      int     `json:"total_assignments"`
	TotalStudents         int     `json:"total_students"`
	TotalExams            int     `json:"total_exams"`
	TotalWebinars         int     `json:"total_webinars"`
	TotalLibraryDocuments int     `json:"total_library_documents"`
	TotalForumTopics      int     `json:"total_forum_topics"`
	CompletedAssignments  int     `json:"completed_assignments"`
	AverageScore          float64 `json:"average_score"`
}

func (c *Course) DocumentID() string               { return c.ID }
func (c *Course) SetDocumentID(id string)          { c.ID = id }
func (a *Assignment) DocumentID() string           { return a.ID }
func (a *Assignment) SetDocumentID(id string)      { a.ID = id }
func (e *Exam) DocumentID() string                 { return e.ID }
func (e *Exam) SetDocumentID(id string)            { e.ID = id }
func (w *Webinar) DocumentID() string              { return w.ID }
func (w *Webinar) SetDocumentID(id string)         { w.ID = id }
func (s *Student) DocumentID() string              { return s.ID }
func (s *Student) SetDocumentID(id string)         { s.ID = id }
func (d *LibraryDocument) DocumentID() string      { return d.ID }
func (d *LibraryDocument) SetDocumentID(id string) { d.ID = id }
func (f *ForumTopic) DocumentID() string           { return f.ID }
func (f *ForumTopic) SetDocumentID(id string)      { f.ID = id }
