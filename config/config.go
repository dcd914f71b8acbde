package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App        App
	Server     Server
	Database   Database
	Auth       Auth
	Generation Generation
	Redis      Redis
	RateLimit  RateLimit
}

type App struct {
	Environment string `env:"APP_ENV"   env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
}

type Server struct {
	Port         string        `env:"PORT"                 env-default:"8000"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT"  env-default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"90s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT"  env-default:"60s"`
	CORSOrigins  []string      `env:"CORS_ORIGINS"         env-default:"http://localhost:3000"`
}

type Database struct {
	Host        string `env:"DB_HOST"      env-default:"localhost"`
	Port        string `env:"DB_PORT"      env-default:"5432"`
	User        string `env:"DB_USER"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME"`
	SSLMode     string `env:"DB_SSLMODE"   env-default:"disable"`
	SQLitePath  string `env:"SQLITE_PATH"  env-default:"file::memory:?cache=shared"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" env-default:"true"`
}

type Auth struct {
	Secret    string        `env:"SECRET_KEY"`
	AccessTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"30m"`
}

type Generation struct {
	APIKey      string        `env:"OPENAI_API_KEY"`
	BaseURL     string        `env:"OPENAI_BASE_URL"`
	Model       string        `env:"OPENAI_MODEL"       env-default:"gpt-4o-mini"`
	Temperature float32       `env:"OPENAI_TEMPERATURE" env-default:"0.7"`
	MaxTokens   int           `env:"OPENAI_MAX_TOKENS"  env-default:"2000"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT"     env-default:"0s"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RateLimit はユーザーごとの生成リクエスト上限。PerMinute <= 0 で無効
type RateLimit struct {
	PerMinute float64 `env:"GENERATE_RATE_PER_MINUTE" env-default:"10"`
	Burst     int     `env:"GENERATE_RATE_BURST"      env-default:"3"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.Auth.AccessTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.Generation.MaxTokens <= 0 {
		return errors.New("OPENAI_MAX_TOKENS must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	if len(c.Server.CORSOrigins) == 0 {
		return errors.New("CORS_ORIGINS must not be empty")
	}
	return nil
}

// UsePostgres は DB_NAME が設定されているかを返す。未設定なら SQLite を使う
func (d Database) UsePostgres() bool {
	return d.Name != ""
}

func (d Database) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}
