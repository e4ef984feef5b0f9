package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"job-finder/internal/domain/recommend"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Embedding EmbeddingConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
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
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type EmbeddingConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type RecommendConfig struct {
	Weights        recommend.Weights
	DefaultLimit   int
	RefreshWorkers int
	RefreshBuffer  int
	RefreshTimeout time.Duration
	LockTTL        time.Duration
	SnapshotTTL    time.Duration
	SweepSpec      string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Embedding = EmbeddingConfig{
		BaseURL: opt("EMBEDDING_BASE_URL"),
		Model:   optDefault("EMBEDDING_MODEL", "paraphrase-multilingual-MiniLM-L12-v2"),
		Timeout: optDuration("EMBEDDING_TIMEOUT", 30*time.Second),
	}

	cfg.Recommend = RecommendConfig{
		Weights: recommend.Weights{
			Rule:     optFloat("REC_WEIGHT_RULE", recommend.DefaultWeights().Rule),
			Lexical:  optFloat("REC_WEIGHT_LEXICAL", recommend.DefaultWeights().Lexical),
			Semantic: optFloat("REC_WEIGHT_SEMANTIC", recommend.DefaultWeights().Semantic),
			Recency:  optFloat("REC_WEIGHT_RECENCY", recommend.DefaultWeights().Recency),
		},
		DefaultLimit:   optInt("REC_DEFAULT_LIMIT", recommend.DefaultLimit),
		RefreshWorkers: optInt("REC_REFRESH_WORKERS", 4),
		RefreshBuffer:  optInt("REC_REFRESH_BUFFER", 256),
		RefreshTimeout: optDuration("REC_REFRESH_TIMEOUT", 2*time.Minute),
		LockTTL:        optDuration("REC_REFRESH_LOCK_TTL", 2*time.Minute),
		SnapshotTTL:    optDuration("REC_SNAPSHOT_TTL", 5*time.Minute),
		SweepSpec:      optDefault("REC_SWEEP_SPEC", "@every 6h"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.Recommend.Weights.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func optDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return v
}
