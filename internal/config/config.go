package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Upload     UploadConfig
	RateLimit  RateLimitConfig
	Admin      AdminConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string

	// TrustedProxies lists the peers whose X-Forwarded-For is believed.
	// Empty means the header is ignored and the socket address is used.
	TrustedProxies []string
}

// IsProduction reports whether cookies must carry the Secure attribute.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	AutoMigrate bool
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type CloudinaryConfig struct {
	URL    string
	Folder string
}

type UploadConfig struct {
	ResumeMaxBytes int
}

type RateLimitConfig struct {
	AuthLimit  int
	AuthWindow time.Duration
}

type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

const (
	defaultJWTExpiresIn   = 7 * 24 * time.Hour
	defaultResumeMaxBytes = 5 << 20
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}
	optInt := func(key string, fallback int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return fallback
		}
		return v
	}
	optDuration := func(key string, fallback time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return fallback
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return fallback
		}
		return v
	}
	optList := func(key string) []string {
		var out []string
		for _, v := range strings.Split(os.Getenv(key), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	optBool := func(key string, fallback bool) bool {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "hiresight"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),

		TrustedProxies: optList("TRUSTED_PROXIES"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     req("DB_PORT"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),

		AutoMigrate: optBool("DB_AUTO_MIGRATE", true),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: optDuration("JWT_EXPIRES_IN", defaultJWTExpiresIn),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.Cloudinary = CloudinaryConfig{
		URL:    opt("CLOUDINARY_URL", ""),
		Folder: opt("CLOUDINARY_FOLDER", "resumes"),
	}

	cfg.Upload = UploadConfig{
		ResumeMaxBytes: optInt("RESUME_MAX_BYTES", defaultResumeMaxBytes),
	}

	cfg.RateLimit = RateLimitConfig{
		AuthLimit:  optInt("AUTH_RATE_LIMIT", 10),
		AuthWindow: optDuration("AUTH_RATE_WINDOW", time.Minute),
	}

	cfg.Admin = AdminConfig{
		Name:     opt("ADMIN_NAME", "Administrator"),
		Email:    opt("ADMIN_EMAIL", ""),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	if cfg.JWT.ExpiresIn <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	return cfg, nil
}
