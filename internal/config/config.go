package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		Algorithm       string
		TokenTTLMinutes int
		BcryptCost      int
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		PublicBaseURL string
		ACL           string
	}
	AWS struct {
		Profile string
	}
	Seed struct {
		File string
	}
	Log struct {
		Level string
	}
}

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env never overrides variables that are already exported.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUTEACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("database.path", "data/eduteach.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.tokenttlminutes", 30)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.acl", "private")
	v.SetDefault("aws.profile", "")
	v.SetDefault("seed.file", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Auth.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Auth.Algorithm))
	return cfg, nil
}

// Validate reports the first setting that would prevent the server from starting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required")
	}
	if _, ok := supportedAlgorithms[c.Auth.Algorithm]; !ok {
		return fmt.Errorf("unsupported auth algorithm %q", c.Auth.Algorithm)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	return nil
}

// TokenTTL returns the default access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}
