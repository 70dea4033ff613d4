package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"eduteach/internal/auth"
	"eduteach/internal/config"
	apphttp "eduteach/internal/http"
	"eduteach/internal/metrics"
	"eduteach/internal/repository/sqlite"
	"eduteach/internal/seed"
	"eduteach/internal/service"
	"eduteach/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "eduteach",
		Short:         "Education platform management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample users and courses from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), seedFile)
		},
	}
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed/sample.yaml", "fixture file to load")
	cmd.AddCommand(seedCmd)

	return cmd
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// app holds the wired components shared by every subcommand.
type app struct {
	db       *sql.DB
	userRepo *sqlite.UserRepository
	users    service.UserService
	catalog  *service.Catalog
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

func bootstrap(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*app, error) {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlite.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	tokenCfg := auth.TokenConfig{
		Secret:     []byte(cfg.Auth.JWTSecret),
		Algorithm:  cfg.Auth.Algorithm,
		DefaultTTL: cfg.TokenTTL(),
	}
	issuer, err := auth.NewIssuer(tokenCfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	verifier, err := auth.NewVerifier(tokenCfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	userRepo := sqlite.NewUserRepository(db)
	users := service.NewUserService(
		userRepo,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		issuer,
		auth.NewResolver(verifier, userRepo),
		logger,
		m,
	)

	return &app{
		db:       db,
		userRepo: userRepo,
		users:    users,
		catalog:  service.NewCatalog(sqlite.NewDocumentRepository(db)),
		metrics:  m,
		registry: registry,
	}, nil
}

func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func serve(parent context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.db.Close()

	if cfg.Seed.File != "" {
		res, err := seed.New(a.users, a.userRepo, a.catalog, logger).SeedFromFile(ctx, cfg.Seed.File)
		if err != nil {
			return fmt.Errorf("seed %s: %w", cfg.Seed.File, err)
		}
		logger.WithField("file", cfg.Seed.File).Infof("seeded %d users, %d courses", res.UsersCreated, res.CoursesCreated)
	}

	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("setup storage: %w", err)
	}
	media := service.NewMediaService(store, a.users, a.catalog, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(a.users, a.catalog, media, logger, a.metrics, a.registry).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
	return nil
}

func runSeed(ctx context.Context, file string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.db.Close()

	res, err := seed.New(a.users, a.userRepo, a.catalog, logger).SeedFromFile(ctx, file)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file":            file,
		"users_created":   res.UsersCreated,
		"users_skipped":   res.UsersSkipped,
		"courses_created": res.CoursesCreated,
	}).Info("seed complete")
	return nil
}

// buildStorage returns a nil Service when no bucket is configured; uploads
// are then refused.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Warn("no storage bucket configured, file uploads are disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	svc, err := storage.NewS3Service(client, storage.S3Options{
		Bucket:        cfg.Storage.Bucket,
		KeyPrefix:     cfg.Storage.KeyPrefix,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		ACL:           cfg.Storage.ACL,
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return svc, nil
}
