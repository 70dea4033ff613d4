package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"eduteach/internal/auth"
	"eduteach/internal/domain"
	"eduteach/internal/metrics"
	"eduteach/internal/repository"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
	// Authenticate resolves a bearer token to the calling user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	SetAvatar(ctx context.Context, email, avatarURL string) error
	Count(ctx context.Context) (int, error)
}

type userService struct {
	users    repository.UserRepository
	hasher   auth.Hasher
	issuer   *auth.Issuer
	resolver *auth.Resolver
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewUserService(
	users repository.UserRepository,
	hasher auth.Hasher,
	issuer *auth.Issuer,
	resolver *auth.Resolver,
	logger logrus.FieldLogger,
	m *metrics.Metrics,
) UserService {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		logger.WithError(err).Warn("compute dummy password hash")
	}
	return &userService{
		users:     users,
		hasher:    hasher,
		issuer:    issuer,
		resolver:  resolver,
		logger:    logger,
		metrics:   m,
		dummyHash: dummy,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user, err := s.newUser(in)
	if err != nil {
		s.metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.Registrations.WithLabelValues(metrics.ResultDuplicate).Inc()
			s.logger.WithField("email", user.Email).Info("registration rejected: email already registered")
			return nil, ErrDuplicateIdentity
		}
		s.metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.WithFields(logrus.Fields{"email": user.Email, "role": user.Role}).Info("user registered")
	return user.Public(), nil
}

func (s *userService) newUser(in RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	case in.Password == "":
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	case len(in.Password) > auth.MaxPasswordBytes:
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
	case fullName == "":
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)
	log := s.logger.WithField("email", email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
			return "", fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		return "", s.rejectLogin(log, "unknown email")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", s.rejectLogin(log, "wrong password")
	}
	if !user.IsActive {
		return "", s.rejectLogin(log, "inactive account")
	}

	token, err := s.issuer.Issue(auth.Claims{Subject: user.Email}, 0)
	if err != nil {
		s.metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("user logged in")
	return token, nil
}

func (s *userService) rejectLogin(log logrus.FieldLogger, cause string) error {
	s.metrics.Logins.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
	log.WithField("cause", cause).Warn("login rejected")
	return ErrInvalidCredentials
}

func (s *userService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		reason := auth.Reason(err)
		s.metrics.AuthFailures.WithLabelValues(reason).Inc()
		s.logger.WithError(err).WithField("reason", reason).Warn("token rejected")
		return nil, err
	}
	return user, nil
}

func (s *userService) SetAvatar(ctx context.Context, email, avatarURL string) error {
	if err := s.users.UpdateAvatar(ctx, domain.NormalizeEmail(email), avatarURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set avatar: %w", err)
	}
	return nil
}

func (s *userService) Count(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}
