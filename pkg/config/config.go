package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Application environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const devJWTSecret = "very-secure-jwt-secret"

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host            string   `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            uint16   `env:"HTTP_PORT" env-default:"4000"`
	ReadTimeout     Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"20s"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionConfig holds session token settings
type SessionConfig struct {
	JWTSecret  string   `env:"JWT_SECRET" env-description:"HMAC key for session tokens, required in production"`
	JWTIssuer  string   `env:"JWT_ISSUER" env-default:"simple-account"`
	TTL        Duration `env:"SESSION_TTL" env-default:"168h"`
	CookieName string   `env:"COOKIE_NAME" env-default:"token"`
}

// OTPConfig holds one-time passcode settings
type OTPConfig struct {
	TTL Duration `env:"OTP_TTL" env-default:"10m"`
}

// PersistenceConfig selects and configures the user store
type PersistenceConfig struct {
	Type     string `env:"PERSISTENCE" env-default:"memory" env-description:"memory, file or postgres"`
	DataDir  string `env:"DATA_DIR" env-default:"./data"`
	Database DatabaseConfig
}

// RedisConfig holds the Redis connection used for session revocation and the mail queue
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-description:"empty disables Redis"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SecurityConfig holds account security policy switches
type SecurityConfig struct {
	PasswordHasher        string   `env:"PASSWORD_HASHER" env-default:"bcrypt" env-description:"bcrypt or argon2id"`
	ResetMaskUnknownEmail bool     `env:"RESET_MASK_UNKNOWN_EMAIL" env-default:"false"`
	CORSAllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Format string `env:"LOG_FORMAT" env-default:"text" env-description:"text or json"`
	Level  string `env:"LOG_LEVEL" env-default:"info"`
}

// Config is the complete application configuration.
type Config struct {
	AppEnv      string `env:"APP_ENV" env-default:"development" env-description:"development or production"`
	Server      ServerConfig
	Session     SessionConfig
	OTP         OTPConfig
	Persistence PersistenceConfig
	Redis       RedisConfig
	Email       EmailConfig
	Security    SecurityConfig
	Log         LogConfig
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load reads the configuration from the environment, layered over the file at
// path when path is not empty.
func Load(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.Session.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Session.JWTSecret = devJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field rules cleanenv cannot express.
func (c Config) Validate() error {
	var errs []error

	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.AppEnv))
	}

	if strings.TrimSpace(c.Session.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() && c.Session.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.OTP.TTL <= 0 {
		errs = append(errs, errors.New("OTP_TTL must be positive"))
	}

	switch c.Email.Mode {
	case MailModeInProcess, MailModeLog:
	case MailModeQueue:
		if !c.Redis.Enabled() {
			errs = append(errs, errors.New("MAIL_MODE=queue requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_MODE %q", c.Email.Mode))
	}

	return errors.Join(errs...)
}
