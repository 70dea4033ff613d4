// Package seed loads sample accounts and courses from a YAML fixture.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"eduteach/internal/domain"
	"eduteach/internal/service"
)

type File struct {
	Users   []User   `yaml:"users"`
	Courses []Course `yaml:"courses"`
}

type User struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FullName  string `yaml:"full_name"`
	Role      string `yaml:"role"`
	AvatarURL string `yaml:"avatar_url"`
}

type Course struct {
	Title            string  `yaml:"title"`
	Description      string  `yaml:"description"`
	Category         string  `yaml:"category"`
	Level            string  `yaml:"level"`
	DurationHours    int     `yaml:"duration_hours"`
	Price            float64 `yaml:"price"`
	Status           string  `yaml:"status"`
	EnrolledStudents int     `yaml:"enrolled_students"`
	Progress         int     `yaml:"progress"`
}

// Result summarizes one seeding run.
type Result struct {
	UsersCreated   int
	UsersSkipped   int
	CoursesCreated int
}

// UserFinder looks up stored accounts by normalized email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Seeder struct {
	users   service.UserService
	finder  UserFinder
	catalog *service.Catalog
	logger  logrus.FieldLogger
}

func New(users service.UserService, finder UserFinder, catalog *service.Catalog, logger logrus.FieldLogger) *Seeder {
	return &Seeder{users: users, finder: finder, catalog: catalog, logger: logger}
}

// Parse decodes a fixture document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func (s *Seeder) SeedFromFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	f, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	return s.Seed(ctx, f)
}

// Seed registers missing users and, when the course collection is empty,
// inserts the fixture courses under the first teacher account. Running it
// twice leaves the store unchanged.
func (s *Seeder) Seed(ctx context.Context, f *File) (Result, error) {
	var res Result
	var teacherEmail string

	for _, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			continue
		}
		role, err := domain.ParseRole(u.Role)
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if role == domain.RoleTeacher && teacherEmail == "" {
			teacherEmail = domain.NormalizeEmail(u.Email)
		}

		created, err := s.users.Register(ctx, service.RegisterInput{
			Email:    u.Email,
			Password: u.Password,
			FullName: u.FullName,
			Role:     u.Role,
		})
		if errors.Is(err, service.ErrDuplicateIdentity) {
			res.UsersSkipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		res.UsersCreated++

		if u.AvatarURL != "" {
			if err := s.users.SetAvatar(ctx, created.Email, u.AvatarURL); err != nil {
				return res, err
			}
		}
	}

	if len(f.Courses) == 0 {
		return res, nil
	}
	existing, err := s.catalog.Courses.Count(ctx)
	if err != nil {
		return res, err
	}
	if existing > 0 {
		s.logger.WithField("courses", existing).Info("courses already present, skipping course fixtures")
		return res, nil
	}
	if teacherEmail == "" {
		return res, errors.New("seed courses: fixture has no teacher account")
	}
	owner, err := s.finder.FindByEmail(ctx, teacherEmail)
	if err != nil {
		return res, fmt.Errorf("seed courses: load owner: %w", err)
	}

	now := time.Now().UTC()
	for _, c := range f.Courses {
		course := &domain.Course{
			Title:            c.Title,
			Category:         c.Category,
			Level:            c.Level,
			DurationHours:    c.DurationHours,
			Price:            c.Price,
			InstructorID:     owner.ID,
			InstructorName:   owner.FullName,
			Status:           c.Status,
			EnrolledStudents: c.EnrolledStudents,
			Progress:         c.Progress,
			CreatedAt:        now,
		}
		if c.Description != "" {
			desc := c.Description
			course.Description = &desc
		}
		if course.Level == "" {
			course.Level = "beginner"
		}
		if course.Status == "" {
			course.Status = "draft"
		}
		if _, err := s.catalog.Courses.Create(ctx, course); err != nil {
			return res, fmt.Errorf("seed course %q: %w", c.Title, err)
		}
		res.CoursesCreated++
	}
	return res, nil
}
