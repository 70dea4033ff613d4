package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eduteach/internal/domain"
	"eduteach/internal/repository"
)

// UserFinder is the read side of the credential store the resolver needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Resolver turns a bearer token into the caller's user record. Every
// protected operation goes through Resolve first.
type Resolver struct {
	verifier *Verifier
	users    UserFinder
}

func NewResolver(verifier *Verifier, users UserFinder) *Resolver {
	return &Resolver{verifier: verifier, users: users}
}

// Resolve is read-only. The returned user never carries the password hash.
func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	claims, err := r.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := r.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSubject, claims.Subject)
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrInactiveSubject, claims.Subject)
	}
	return user.Public(), nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
