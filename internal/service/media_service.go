package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"eduteach/internal/domain"
	"eduteach/internal/storage"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// LibraryUpload carries the form fields sent alongside a library file.
type LibraryUpload struct {
	Title       string
	Description string
	Category    string
	CourseID    string
	IsPublic    bool
}

// MediaService stores user-provided files and links them to records.
type MediaService interface {
	UploadAvatar(ctx context.Context, user *domain.User, file Upload) (string, error)
	UploadDocument(ctx context.Context, user *domain.User, file Upload, meta LibraryUpload) (*domain.LibraryDocument, error)
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
}

type mediaService struct {
	store   storage.Service
	users   UserService
	catalog *Catalog
	logger  logrus.FieldLogger
}

// NewMediaService accepts a nil store; uploads then fail with ErrStorageDisabled.
func NewMediaService(store storage.Service, users UserService, catalog *Catalog, logger logrus.FieldLogger) MediaService {
	return &mediaService{store: store, users: users, catalog: catalog, logger: logger}
}

func (s *mediaService) UploadAvatar(ctx context.Context, user *domain.User, file Upload) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	key := fmt.Sprintf("avatars/%s.%s", uuid.NewString(), fileExtension(file.Filename))
	url, err := s.store.Upload(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return "", err
	}
	if err := s.users.SetAvatar(ctx, user.Email, url); err != nil {
		return "", err
	}
	s.logger.WithFields(logrus.Fields{"email": user.Email, "location": url}).Info("avatar uploaded")
	return url, nil
}

func (s *mediaService) UploadDocument(ctx context.Context, user *domain.User, file Upload, meta LibraryUpload) (*domain.LibraryDocument, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if strings.TrimSpace(meta.Title) == "" || strings.TrimSpace(meta.Category) == "" {
		return nil, fmt.Errorf("%w: title and category are required", ErrInvalidInput)
	}

	ext := fileExtension(file.Filename)
	key := fmt.Sprintf("documents/%s.%s", uuid.NewString(), ext)
	url, err := s.store.Upload(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return nil, err
	}

	doc := &domain.LibraryDocument{
		Title:       meta.Title,
		Description: &meta.Description,
		Category:    meta.Category,
		FileType:    ext,
		IsPublic:    meta.IsPublic,
		AuthorID:    user.ID,
		AuthorName:  user.FullName,
		CourseID:    optional(meta.CourseID),
		FileURL:     url,
		FileSize:    file.Size,
		CreatedAt:   time.Now().UTC(),
	}
	return s.catalog.Library.Create(ctx, doc)
}

func (s *mediaService) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	return s.store.ListObjects(ctx, prefix)
}

func fileExtension(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "bin"
	}
	return ext
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
