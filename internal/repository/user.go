package repository

import (
	"context"

	"eduteach/internal/domain"
)

// UserRepository is the credential store. Emails are expected in normalized form.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Insert fails with ErrDuplicate when the email is already registered.
	Insert(ctx context.Context, user *domain.User) error
	UpdateAvatar(ctx context.Context, email, avatarURL string) error
	SetActive(ctx context.Context, email string, active bool) error
	Count(ctx context.Context) (int, error)
}
