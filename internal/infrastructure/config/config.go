// Package config builds the immutable process configuration from the
// environment, optionally layered over a JSON or YAML settings file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/viper"
)

// DefaultConfigFile is read when present and CONFIG_FILE is unset.
const DefaultConfigFile = "appsettings.json"

type Config struct {
	Port            string        `env:"PORT,             default=8080" validate:"required,numeric"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info" validate:"oneof=trace debug info warn warning error"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s" validate:"gt=0"`

	Jwt       JwtConfig       `env:", prefix=JWT_"`
	Database  DatabaseConfig  `env:", prefix=DATABASE_"`
	Mongo     MongoConfig
	Redis     RedisConfig
	Admin     AdminConfig     `env:", prefix=ADMIN_"`
	LoginRate LoginRateConfig `env:", prefix=LOGIN_RATE_"`
}

// JwtConfig holds the token signing settings. An empty Key is allowed at
// start-up; logins then fail instead of issuing unsigned tokens.
type JwtConfig struct {
	Key string `env:"KEY"`
}

type DatabaseConfig struct {
	Driver string `env:"DRIVER, default=postgres" validate:"oneof=postgres sqlite mongo"`
	URL    string `env:"URL"                      validate:"required_unless=Driver mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=minimal_api"`
}

// RedisConfig enables Idempotency-Key support when Addr is set.
type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR"`
	DB      int           `env:"REDIS_DB,      default=0"  validate:"gte=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=5s" validate:"gt=0"`
}

// AdminConfig seeds the first Adm account on an empty store.
type AdminConfig struct {
	Email    string `env:"EMAIL"    validate:"omitempty,email"`
	Password string `env:"PASSWORD"`
}

// LoginRateConfig throttles POST /administradores/login per client IP.
// PerMinute 0 disables throttling.
type LoginRateConfig struct {
	PerMinute float64 `env:"PER_MINUTE, default=5" validate:"gte=0"`
	Burst     int     `env:"BURST,      default=5" validate:"gte=0"`
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks field constraints declared in the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from env, falling back to the settings file
// named by CONFIG_FILE. Environment values always win over file values.
func LoadWith(ctx context.Context, env envconfig.Lookuper) (*Config, error) {
	path, explicit := env.Lookup("CONFIG_FILE")
	if !explicit || path == "" {
		path, explicit = DefaultConfigFile, false
	}

	fileValues, err := readFile(path, explicit)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MultiLookuper(env, envconfig.MapLookuper(fileValues)),
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readFile flattens a settings file into environment-style keys, so that
// {"Jwt": {"Key": "x"}} becomes JWT_KEY=x. A missing default file is not an
// error.
func readFile(path string, required bool) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("config: settings file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	out := make(map[string]string, len(v.AllKeys()))
	for _, k := range v.AllKeys() {
		out[strings.ToUpper(strings.ReplaceAll(k, ".", "_"))] = v.GetString(k)
	}
	return out, nil
}
