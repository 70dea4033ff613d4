package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eduteach/internal/domain"
	"eduteach/internal/repository"
)

// placeholderAverageScore is reported until grading is tracked.
const placeholderAverageScore = 8.5

// Collection is a create/list/get view over one collection of the document store.
type Collection[T any, PT interface {
	*T
	domain.Document
}] struct {
	name string
	docs repository.DocumentRepository
}

func NewCollection[T any, PT interface {
	*T
	domain.Document
}](name string, docs repository.DocumentRepository) *Collection[T, PT] {
	return &Collection[T, PT]{name: name, docs: docs}
}

func (c *Collection[T, PT]) Name() string { return c.name }

func (c *Collection[T, PT]) Create(ctx context.Context, doc PT) (PT, error) {
	if err := c.docs.Insert(ctx, c.name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	raw, err := c.docs.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", c.name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	var v T
	if err := c.docs.Get(ctx, c.name, id, &v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// View fetches a document and bumps its view counter. The returned record
// holds the count as it was before this view.
func (c *Collection[T, PT]) View(ctx context.Context, id string) (PT, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.docs.Increment(ctx, c.name, id, "views"); err != nil {
		return nil, fmt.Errorf("count %s view: %w", c.name, err)
	}
	return doc, nil
}

func (c *Collection[T, PT]) Count(ctx context.Context) (int, error) {
	return c.docs.Count(ctx, c.name)
}

// Catalog groups the resource collections of the platform.
type Catalog struct {
	Courses     *Collection[domain.Course, *domain.Course]
	Assignments *Collection[domain.Assignment, *domain.Assignment]
	Exams       *Collection[domain.Exam, *domain.Exam]
	Webinars    *Collection[domain.Webinar, *domain.Webinar]
	Students    *Collection[domain.Student, *domain.Student]
	Library     *Collection[domain.LibraryDocument, *domain.LibraryDocument]
	Forum       *Collection[domain.ForumTopic, *domain.ForumTopic]

	docs repository.DocumentRepository
}

func NewCatalog(docs repository.DocumentRepository) *Catalog {
	return &Catalog{
		Courses:     NewCollection[domain.Course](domain.CollectionCourses, docs),
		Assignments: NewCollection[domain.Assignment](domain.CollectionAssignments, docs),
		Exams:       NewCollection[domain.Exam](domain.CollectionExams, docs),
		Webinars:    NewCollection[domain.Webinar](domain.CollectionWebinars, docs),
		Students:    NewCollection[domain.Student](domain.CollectionStudents, docs),
		Library:     NewCollection[domain.LibraryDocument](domain.CollectionLibrary, docs),
		Forum:       NewCollection[domain.ForumTopic](domain.CollectionForum, docs),
		docs:        docs,
	}
}

// Statistics counts every collection for the dashboard.
func (c *Catalog) Statistics(ctx context.Context) (*domain.Statistics, error) {
	var stats domain.Statistics
	counters := []struct {
		name string
		dst  *int
	}{
		{domain.CollectionCourses, &stats.TotalCourses},
		{domain.CollectionAssignments, &stats.TotalAssignments},
		{domain.CollectionStudents, &stats.TotalStudents},
		{domain.CollectionExams, &stats.TotalExams},
		{domain.CollectionWebinars, &stats.TotalWebinars},
		{domain.CollectionLibrary, &stats.TotalLibraryDocuments},
		{domain.CollectionForum, &stats.TotalForumTopics},
	}
	for _, ctr := range counters {
		n, err := c.docs.Count(ctx, ctr.name)
		if err != nil {
			return nil, err
		}
		*ctr.dst = n
	}

	completed, err := c.docs.CountWhere(ctx, domain.CollectionAssignments, "status", domain.AssignmentStatusCompleted)
	if err != nil {
		return nil, err
	}
	stats.CompletedAssignments = completed
	stats.AverageScore = placeholderAverageScore
	return &stats, nil
}

// Ping checks that the document store is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.docs.Ping(ctx)
}
