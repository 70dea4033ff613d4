package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"eduteach/internal/auth"
	"eduteach/internal/metrics"
	"eduteach/internal/repository/sqlite"
)

const testSecret = "test-secret"

type fixture struct {
	users    UserService
	catalog  *Catalog
	userRepo *sqlite.UserRepository
	issuer   *auth.Issuer
	metrics  *metrics.Metrics
	logs     *logtest.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	cfg := auth.TokenConfig{Secret: []byte(testSecret), Algorithm: "HS256", DefaultTTL: 30 * time.Minute}
	issuer, err := auth.NewIssuer(cfg)
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(cfg)
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	userRepo := sqlite.NewUserRepository(db)
	m := metrics.Noop()
	users := NewUserService(
		userRepo,
		auth.NewBcryptHasher(bcrypt.MinCost),
		issuer,
		auth.NewResolver(verifier, userRepo),
		logger,
		m,
	)

	return &fixture{
		users:    users,
		catalog:  NewCatalog(sqlite.NewDocumentRepository(db)),
		userRepo: userRepo,
		issuer:   issuer,
		metrics:  m,
		logs:     hook,
	}
}
