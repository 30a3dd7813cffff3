package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrNoConfigFile is returned by Watch when configuration comes only from
// defaults and the environment
var ErrNoConfigFile = errors.New("no config file in use")

// EnvPrefix is prepended to environment overrides, e.g. BOOLFLIX_TMDB_API_KEY
const EnvPrefix = "BOOLFLIX"

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is not an error, so the whole
// configuration can come from the environment.
func Load(configPath string) (*Config, error) {
	v, err := read(configPath)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Watch reloads the configuration whenever the config file changes and
// passes each valid result to onChange. Edits that fail to decode or
// validate go to onError and leave the previous settings in place.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v, err := read(configPath)
	if err != nil {
		return err
	}
	if v.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}

	v.OnConfigChange(func(in fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			onError(fmt.Errorf("reloading %s: %w", in.Name, err))
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// read sets up viper and reads the config file, if any
func read(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".boolflix"))
		}

		// Check /etc
		v.AddConfigPath("/etc/boolflix/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}
	return v, nil
}

// decode unmarshals and validates the current viper state
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.MyList.Path = expandHome(cfg.MyList.Path)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.language", "it-IT")
	v.SetDefault("tmdb.region", "IT")
	v.SetDefault("tmdb.timeout", "10s")

	// Personal list defaults
	v.SetDefault("mylist.path", "~/.boolflix/mylist.db")
	v.SetDefault("mylist.ephemeral", false)

	// Server defaults
	v.SetDefault("server.addr", ":8080")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks the configuration against its struct tags and reports
// the first problem using config key names
func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return describe(verrs[0])
}

// describe turns a validation failure into a message naming the config key
func describe(fe validator.FieldError) error {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Errorf("%s is required", key)
	case "ne":
		return fmt.Errorf("%s must be set to a valid API key", key)
	case "oneof":
		return fmt.Errorf("invalid %s: %v (must be one of: %s)", key, fe.Value(), fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL: %v", key, fe.Value())
	case "len", "uppercase":
		return fmt.Errorf("%s must be a two-letter uppercase country code: %v", key, fe.Value())
	case "gt":
		return fmt.Errorf("%s must be positive", key)
	default:
		return fmt.Errorf("invalid %s: failed %q check", key, fe.Tag())
	}
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
