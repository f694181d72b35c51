// Package config resolves settings from defaults, an optional tutorlog.yaml,
// a .env file and TUTORLOG_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/db"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TUTORLOG"

// Config holds all runtime settings.
type Config struct {
	DBDriver     string
	DBPath       string
	DBURL        string
	FetchLimit   int
	SecretKey    string
	PasscodeHash string
	TokenTTL     time.Duration
	TokenIssuer  string
	ListenAddr   string
	LogUseCases  bool
}

// DefaultConfig returns the settings used when nothing is configured.
// Data lives under home/.tutorlog.
func DefaultConfig(home string) Config {
	return Config{
		DBDriver:    "sqlite",
		DBPath:      filepath.Join(home, ".tutorlog", "tutorlog.db"),
		FetchLimit:  100,
		TokenTTL:    12 * time.Hour,
		TokenIssuer: "tutorlog",
		ListenAddr:  ":8080",
	}
}

// Options points Load at non-default locations. Zero values use the
// defaults: .env in the working directory, tutorlog.yaml searched in
// ~/.tutorlog and the working directory, and the user's home directory.
type Options struct {
	ConfigFile string
	EnvFile    string
	Home       string
}

// Load resolves the configuration. A missing tutorlog.yaml or .env is not an
// error; an explicitly named ConfigFile that cannot be read is.
func Load(opts Options) (Config, error) {
	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving home directory: %w", err)
		}
		home = h
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	def := DefaultConfig(home)
	v.SetDefault("db_driver", def.DBDriver)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("db_url", "")
	v.SetDefault("fetch_limit", def.FetchLimit)
	v.SetDefault("secret_key", "")
	v.SetDefault("passcode_hash", "")
	v.SetDefault("token_ttl", def.TokenTTL)
	v.SetDefault("token_issuer", def.TokenIssuer)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("log_use_cases", def.LogUseCases)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("tutorlog")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".tutorlog"))
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		DBDriver:     strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		DBPath:       expandHome(v.GetString("db_path"), home),
		DBURL:        v.GetString("db_url"),
		FetchLimit:   v.GetInt("fetch_limit"),
		SecretKey:    v.GetString("secret_key"),
		PasscodeHash: v.GetString("passcode_hash"),
		TokenTTL:     v.GetDuration("token_ttl"),
		TokenIssuer:  v.GetString("token_issuer"),
		ListenAddr:   v.GetString("listen_addr"),
		LogUseCases:  v.GetBool("log_use_cases"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	d, err := db.DialectFor(c.DBDriver)
	if err != nil {
		return err
	}
	if d.Name() != "sqlite" && c.DBURL == "" {
		return fmt.Errorf("db_url is required for the %s driver", d.Name())
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch_limit must be positive, got %d", c.FetchLimit)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// DBOptions maps the storage settings onto db.Open's options.
func (c Config) DBOptions() db.Options {
	return db.Options{Driver: c.DBDriver, Path: c.DBPath, URL: c.DBURL}
}

// AuthEnabled reports whether tokens can be issued and verified.
func (c Config) AuthEnabled() bool {
	return c.SecretKey != ""
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
