package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduteach/internal/domain"
)

func TestCollection_CreateListGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.catalog.Courses.Create(ctx, &domain.Course{
		Title:     "JavaScript basics",
		Category:  "programming",
		Level:     "beginner",
		Status:    "draft",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	list, err := f.catalog.Courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "JavaScript basics", list[0].Title)

	got, err := f.catalog.Courses.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "draft", got.Status)

	_, err = f.catalog.Courses.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, domain.CollectionCourses, f.catalog.Courses.Name())
}

func TestCollection_ViewCountsViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	topic, err := f.catalog.Forum.Create(ctx, &domain.ForumTopic{Title: "Welcome", Content: "hi", Category: "general"})
	require.NoError(t, err)

	first, err := f.catalog.Forum.View(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Views)

	second, err := f.catalog.Forum.View(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Views)

	_, err = f.catalog.Forum.View(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.Courses.Create(ctx, &domain.Course{Title: "c"})
	require.NoError(t, err)
	for _, st := range []string{"pending", domain.AssignmentStatusCompleted} {
		_, err := f.catalog.Assignments.Create(ctx, &domain.Assignment{Title: "a", Status: st})
		require.NoError(t, err)
	}
	_, err = f.catalog.Students.Create(ctx, &domain.Student{FullName: "s", Email: "s@example.com"})
	require.NoError(t, err)
	_, err = f.catalog.Library.Create(ctx, &domain.LibraryDocument{Title: "d"})
	require.NoError(t, err)

	stats, err := f.catalog.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCourses)
	assert.Equal(t, 2, stats.TotalAssignments)
	assert.Equal(t, 1, stats.CompletedAssignments)
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Equal(t, 1, stats.TotalLibraryDocuments)
	assert.Zero(t, stats.TotalExams)
	assert.Zero(t, stats.TotalWebinars)
	assert.Zero(t, stats.TotalForumTopics)
	assert.Equal(t, 8.5, stats.AverageScore)

	assert.NoError(t, f.catalog.Ping(ctx))
}
