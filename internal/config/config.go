package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quiz-board"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:3001"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	AI       AI
	Game     Game
	Pool     Pool
	Site     Site
	CORS     CORS
}

// Postgres captures connection info for the quiz store. Empty Host disables it.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// Enabled reports whether a quiz store is configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// ConnString builds a keyword/value connection string for a single connection.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// DSN is ConnString plus pgxpool sizing.
func (p Postgres) DSN() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.ConnString(), p.MaxConns)
}

// Redis holds game-state slot + pool cache configuration. Empty Addr disables it.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Enabled reports whether Redis is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// AI configures the upstream language-model relay.
type AI struct {
	BaseURL     string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model       string        `env:"OPENROUTER_MODEL" envDefault:"mistralai/mistral-small-3.2-24b-instruct:free"`
	APIKeys     []string      `env:"OPENROUTER_API_KEYS" envSeparator:","`
	APIKey      string        `env:"OPENROUTER_API_KEY"`
	APIKey2     string        `env:"OPENROUTER_API_KEY_2"`
	APIKey3     string        `env:"OPENROUTER_API_KEY_3"`
	HTTPTimeout time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"30s"`
	Referer     string        `env:"OPENROUTER_REFERER" envDefault:"https://jeopardyonline.it"`
	Title       string        `env:"OPENROUTER_TITLE" envDefault:"Jeopardy Quiz App"`
}

// Keys returns the credential pool in configuration order, skipping blanks and duplicates.
func (a AI) Keys() []string {
	candidates := append([]string{}, a.APIKeys...)
	candidates = append(candidates, a.APIKey, a.APIKey2, a.APIKey3)

	seen := make(map[string]struct{}, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, k := range candidates {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Game configures hosted game sessions.
type Game struct {
	StorageKey      string        `env:"GAME_STORAGE_KEY" envDefault:"jeopardyGameState"`
	StateTTL        time.Duration `env:"GAME_STATE_TTL" envDefault:"168h"`
	DefaultLanguage string        `env:"GAME_DEFAULT_LANG" envDefault:"it"`
	TokenSecret     string        `env:"GAME_TOKEN_SECRET" envDefault:"change-me"`
	TokenTTL        time.Duration `env:"GAME_TOKEN_TTL" envDefault:"24h"`
	FetchTimeout    time.Duration `env:"GAME_FETCH_TIMEOUT" envDefault:"45s"`
	IdleTimeout     time.Duration `env:"GAME_IDLE_TIMEOUT" envDefault:"30m"`
}

// Pool governs the random-quiz category pool cache.
type Pool struct {
	CacheTTL     time.Duration `env:"POOL_CACHE_TTL" envDefault:"10m"`
	WarmInterval time.Duration `env:"POOL_WARM_INTERVAL" envDefault:"5m"`
}

// Site holds public URL information for the SEO surface.
type Site struct {
	BaseURL string `env:"SITE_BASE_URL" envDefault:"https://jeopardyonline.it"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://jeopard.netlify.app,http://localhost:5173,http://localhost:5174,http://localhost:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
