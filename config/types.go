package config

import (
	"time"
)

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	MyList  MyListConfig  `mapstructure:"mylist"`
	Server  ServerConfig  `mapstructure:"server"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details and request defaults
type TMDBConfig struct {
	URL      string        `mapstructure:"url" validate:"required,url"`
	APIKey   string        `mapstructure:"api_key" validate:"required,ne=your-api-key-here"`
	Language string        `mapstructure:"language" validate:"required"`
	Region   string        `mapstructure:"region" validate:"required,len=2,uppercase"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// MyListConfig controls where the personal list is stored
type MyListConfig struct {
	Path      string `mapstructure:"path" validate:"required_unless=Ephemeral true"`
	Ephemeral bool   `mapstructure:"ephemeral"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// FilterConfig contains named filter presets
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets" validate:"dive,keys,required,endkeys,required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
