package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the access token lifetime used when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// TokenConfig is the process-wide signing configuration, read-only after startup.
type TokenConfig struct {
	Secret     []byte
	Algorithm  string
	DefaultTTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Claims is the signed payload of an access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

func (c TokenConfig) method() (jwt.SigningMethod, error) {
	alg := c.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	m := jwt.GetSigningMethod(alg)
	if _, ok := m.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	return m, nil
}

func (c TokenConfig) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Issuer mints signed access tokens.
type Issuer struct {
	cfg    TokenConfig
	method jwt.SigningMethod
}

func NewIssuer(cfg TokenConfig) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	m, err := cfg.method()
	if err != nil {
		return nil, err
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = DefaultTokenTTL
	}
	return &Issuer{cfg: cfg, method: m}, nil
}

// Issue signs claims with an expiry of now+ttl. A zero ttl selects the
// configured default; a negative ttl yields an already expired token.
func (i *Issuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("token subject is required")
	}
	if ttl == 0 {
		ttl = i.cfg.DefaultTTL
	}
	// NumericDate drops sub-second precision; truncate first so the signed
	// expiry is exactly now+ttl.
	now := i.cfg.now().Truncate(jwt.TimePrecision)
	claims.ExpiresAt = now.Add(ttl)

	tok := jwt.NewWithClaims(i.method, jwt.RegisteredClaims{
		Subject:   claims.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})
	signed, err := tok.SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verifier validates tokens minted by an Issuer with the same configuration.
type Verifier struct {
	cfg    TokenConfig
	parser *jwt.Parser
}

func NewVerifier(cfg TokenConfig) (*Verifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	m, err := cfg.method()
	if err != nil {
		return nil, err
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.now),
	)
	return &Verifier{cfg: cfg, parser: parser}, nil
}

// Verify returns the claims of a valid token or one of ErrInvalidSignature,
// ErrExpired and ErrMalformed.
func (v *Verifier) Verify(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(token, &rc, func(*jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if strings.TrimSpace(rc.Subject) == "" || rc.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: subject is missing", ErrMalformed)
	}
	return Claims{Subject: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
