package config

import (
	"fmt"
	"strconv"
)

const (
	StorageInMemory = "inmemory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	EnvProduction = "production"

	DefaultHTTPPort   = "3000"
	DefaultPublicDir  = "public"
	DefaultSQLitePath = "commentboard.db"
)

type Config struct {
	Postgres    PostgresConfig
	SQLite      SQLiteConfig
	HTTP        HTTPConfig
	Env         string
	StorageType string
}

// Production reports whether detailed error output must be suppressed.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string
}

type HTTPConfig struct {
	Port      string
	PublicDir string
	ViewsDir  string
}

// LoadConfig reads the configuration from getenv. Missing postgres settings
// panic when postgres storage is selected.
func LoadConfig(getenv func(string) string) Config {
	env := getenv("NODE_ENV")
	if env == "" {
		env = getenv("APP_ENV")
	}

	cfg := Config{
		Env:         env,
		StorageType: getEnvDefault(getenv, "STORAGE_TYPE", StorageInMemory),
		HTTP: HTTPConfig{
			Port:      getEnvDefault(getenv, "PORT", DefaultHTTPPort),
			PublicDir: getEnvDefault(getenv, "PUBLIC_DIR", DefaultPublicDir),
			ViewsDir:  getenv("VIEWS_DIR"),
		},
	}

	switch cfg.StorageType {
	case StoragePostgres:
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv(getenv, "POSTGRES_USER"),
			Password: mustGetEnv(getenv, "POSTGRES_PASSWORD"),
			DB:       mustGetEnv(getenv, "POSTGRES_DB"),
			Host:     mustGetEnv(getenv, "POSTGRES_HOST"),
			Port:     mustGetInt(getenv, "POSTGRES_PORT"),
			SSLMode:  getEnvDefault(getenv, "POSTGRES_SSLMODE", "disable"),
		}
	case StorageSQLite:
		cfg.SQLite = SQLiteConfig{
			Path: getEnvDefault(getenv, "SQLITE_PATH", DefaultSQLitePath),
		}
	case StorageInMemory:
	default:
		panic("unknown STORAGE_TYPE: " + cfg.StorageType)
	}

	return cfg
}

func getEnvDefault(getenv func(string) string, key, def string) string {
	if val := getenv(key); val != "" {
		return val
	}
	return def
}

func mustGetEnv(getenv func(string) string, key string) string {
	val := getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(getenv func(string) string, key string) int {
	val := mustGetEnv(getenv, key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}
