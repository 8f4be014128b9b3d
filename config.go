package erasite

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/labstack/gommon/log"

	"github.com/eringen/erasite/auth"
)

// SiteConfig holds all configuration for the site. Values come from the
// environment or from a YAML/.env file passed to LoadConfig.
type SiteConfig struct {
	Name        string `yaml:"name" env:"SITE_NAME" env-default:"Эволюция гейм-дизайна"`
	URL         string `yaml:"url" env:"SITE_URL" env-default:"http://localhost:3000"`
	Description string `yaml:"description" env:"SITE_DESCRIPTION" env-default:"История гейм-дизайна от аркад до наших дней"`

	Addr            string        `yaml:"addr" env:"ADDR" env-default:":3000"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	DatabasePath string `yaml:"database_path" env:"DATABASE_PATH" env-default:"data/erasite.db"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`

	// EraCacheTTL bounds how stale the cached era list may get; 0 disables it.
	EraCacheTTL time.Duration `yaml:"era_cache_ttl" env:"ERA_CACHE_TTL" env-default:"5m"`

	StaticDir     string `yaml:"static_dir" env:"STATIC_DIR" env-default:"public"`
	MaxImageWidth int    `yaml:"max_image_width" env:"MAX_IMAGE_WIDTH" env-default:"1600"`

	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"` // required
	SessionDir    string        `yaml:"session_dir" env:"SESSION_DIR" env-default:"data/sessions"`
	SessionMaxAge time.Duration `yaml:"session_max_age" env:"SESSION_MAX_AGE" env-default:"12h"`
	CookieSecure  bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`

	LoginAttempts    int           `yaml:"login_attempts" env:"LOGIN_ATTEMPTS" env-default:"5"`
	LoginWindow      time.Duration `yaml:"login_window" env:"LOGIN_WINDOW" env-default:"1m"`
	PublicWriteRate  float64       `yaml:"public_write_rate" env:"PUBLIC_WRITE_RATE" env-default:"1"`
	PublicWriteBurst int           `yaml:"public_write_burst" env:"PUBLIC_WRITE_BURST" env-default:"10"`
}

// LoadConfig reads configuration from path (YAML or .env) or, when path is
// empty, from the environment alone.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return SiteConfig{}, fmt.Errorf("erasite: read config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// setDefaults fills zero values, for configs built in code rather than
// loaded through cleanenv.
func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Эволюция гейм-дизайна"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/erasite.db"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.MaxImageWidth <= 0 {
		c.MaxImageWidth = 1600
	}
	if c.SessionDir == "" {
		c.SessionDir = "data/sessions"
	}
	if c.SessionMaxAge == 0 {
		c.SessionMaxAge = 12 * time.Hour
	}
	if c.LoginAttempts <= 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
	if c.PublicWriteRate <= 0 {
		c.PublicWriteRate = 1
	}
	if c.PublicWriteBurst <= 0 {
		c.PublicWriteBurst = 10
	}
}

// logLevel maps LogLevel onto gommon's levels; unknown names mean INFO.
func (c SiteConfig) logLevel() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStorage injects a ready storage instead of opening DatabasePath.
// The App does not close storage it did not open.
func WithStorage(s Storage) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithPasswordService overrides the bcrypt service, e.g. with a low cost in tests.
func WithPasswordService(ps *auth.PasswordService) Option {
	return func(a *App) {
		a.Passwords = ps
	}
}
