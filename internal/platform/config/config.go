package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Remote   RemoteConfig
	Local    LocalConfig
	Site     SiteConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Address         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// AdminConfig controls the admin panel gate and its session cookie.
type AdminConfig struct {
	BasePath        string        `env:"ADMIN_BASE_PATH" envDefault:"/admin"`
	Password        string        `env:"ADMIN_PASSWORD"`
	SessionHashKey  string        `env:"SESSION_HASH_KEY"`
	SessionBlockKey string        `env:"SESSION_BLOCK_KEY"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"Development"`
}

// RemoteConfig selects the hosted document store.
type RemoteConfig struct {
	Driver                   string        `env:"REMOTE_DRIVER" envDefault:"none"`
	Timeout                  time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`
	JSONBinBaseURL           string        `env:"JSONBIN_BASE_URL" envDefault:"https://api.jsonbin.io/v3/b"`
	JSONBinBinID             string        `env:"JSONBIN_BIN_ID"`
	JSONBinMasterKey         string        `env:"JSONBIN_MASTER_KEY"`
	FirestoreProjectID       string        `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string        `env:"FIRESTORE_CREDENTIALS_FILE"`
	FirestoreCollection      string        `env:"FIRESTORE_COLLECTION" envDefault:"portfolio"`
	FirestoreDocument        string        `env:"FIRESTORE_DOCUMENT" envDefault:"content"`
}

// LocalConfig selects the local mirror backend.
type LocalConfig struct {
	Driver     string `env:"LOCAL_DRIVER" envDefault:"file"`
	Dir        string `env:"LOCAL_DIR" envDefault:"data"`
	SQLitePath string `env:"SQLITE_PATH"`
}

// SiteConfig tunes the public site.
type SiteConfig struct {
	CacheTTL             time.Duration `env:"SITE_CACHE_TTL" envDefault:"30s"`
	ContactRatePerMinute int           `env:"CONTACT_RATE_PER_MINUTE" envDefault:"5"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SeedFile             string        `env:"SEED_FILE"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

type loadOptions struct {
	envFile      string
	envMap       map[string]string
	ignoreSystem bool
}

// Option customises Load.
type Option func(*loadOptions)

// WithEnvFile overrides the dotenv file. An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithEnvMap layers explicit values over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loadOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loadOptions) {
		o.ignoreSystem = true
	}
}

// Load resolves configuration from the process environment, an optional
// dotenv file (which never overrides real environment variables) and
// explicit overrides, then validates it.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{envFile: defaultEnvFile}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	values := make(map[string]string)
	if options.envFile != "" {
		fileValues, err := godotenv.Read(options.envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", options.envFile, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}
	if !options.ignoreSystem {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				values[k] = v
			}
		}
	}
	for k, v := range options.envMap {
		values[k] = v
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: values}); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Remote.Driver = strings.ToLower(strings.TrimSpace(c.Remote.Driver))
	c.Local.Driver = strings.ToLower(strings.TrimSpace(c.Local.Driver))
	base := strings.TrimSpace(c.Admin.BasePath)
	if base == "" {
		base = "/admin"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if len(base) > 1 {
		base = strings.TrimRight(base, "/")
	}
	c.Admin.BasePath = base

	origins := c.Site.CORSAllowedOrigins[:0]
	for _, o := range c.Site.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Site.CORSAllowedOrigins = origins
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var fields []string

	switch c.Remote.Driver {
	case "none", "":
	case "jsonbin":
		if strings.TrimSpace(c.Remote.JSONBinBinID) == "" {
			fields = append(fields, "JSONBIN_BIN_ID")
		}
		if strings.TrimSpace(c.Remote.JSONBinMasterKey) == "" {
			fields = append(fields, "JSONBIN_MASTER_KEY")
		}
	case "firestore":
		if strings.TrimSpace(c.Remote.FirestoreProjectID) == "" {
			fields = append(fields, "FIRESTORE_PROJECT_ID")
		}
	default:
		fields = append(fields, "REMOTE_DRIVER")
	}

	switch c.Local.Driver {
	case "file", "sqlite", "memory":
	default:
		fields = append(fields, "LOCAL_DRIVER")
	}

	if c.Admin.BasePath == "/" {
		fields = append(fields, "ADMIN_BASE_PATH")
	}
	if key := c.Admin.SessionHashKey; key != "" && len(key) < 32 {
		fields = append(fields, "SESSION_HASH_KEY")
	}
	if key := c.Admin.SessionBlockKey; key != "" {
		switch len(key) {
		case 16, 24, 32:
		default:
			fields = append(fields, "SESSION_BLOCK_KEY")
		}
	}
	if c.Admin.SessionLifetime <= 0 {
		fields = append(fields, "SESSION_LIFETIME")
	}
	if c.Site.ContactRatePerMinute < 0 {
		fields = append(fields, "CONTACT_RATE_PER_MINUTE")
	}

	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}
