package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration. All values come from the
// environment so main stays lean and deployments stay twelve-factor.
type Server struct {
	Addr           string
	DatabaseURL    string
	Redis          RedisConfig
	JWTSigningKey  string
	SeedCatalog    bool
	ShutdownGrace  time.Duration
	RequestTimeout time.Duration
}

// RedisConfig holds the optional Redis connection settings for the
// announcement publisher. An empty URL disables Redis entirely.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("TURNERO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:           addr,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSigningKey:  jwtSigningKey,
		SeedCatalog:    os.Getenv("TURNERO_SEED_CATALOG") == "true",
		ShutdownGrace:  10 * time.Second,
		RequestTimeout: 30 * time.Second,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
