// Package config loads the composer configuration from YAML, .env and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

const SupportedVersion = "1"

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Version string        `yaml:"version" default:"1"`
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Poster  PosterConfig  `yaml:"poster"`
	Drafts  DraftsConfig  `yaml:"drafts"`
	Upload  UploadConfig  `yaml:"upload"`
	Theme   ThemeConfig   `yaml:"theme"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" env:"LOG_LEVEL,overwrite"`
	Format string `yaml:"format" default:"console" env:"LOG_FORMAT,overwrite"`
}

type SiteConfig struct {
	Name  string `yaml:"name" default:"Notice Composer"`
	Title string `yaml:"title" default:"Create Notice"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0" env:"SERVER_HOST,overwrite"`
	Port string `yaml:"port" default:"12600" env:"SERVER_PORT,overwrite"`
}

// PosterConfig describes the remote post-notice endpoint.
// A zero Timeout leaves the transport default in place.
type PosterConfig struct {
	Endpoint string        `yaml:"endpoint" default:"https://api.hibra.org/api/v1/admin/post-notice" env:"NOTICE_ENDPOINT,overwrite"`
	Timeout  time.Duration `yaml:"timeout" env:"NOTICE_TIMEOUT,overwrite"`
}

type DraftsConfig struct {
	MaxDrafts int           `yaml:"max_drafts" default:"1024"`
	TTL       time.Duration `yaml:"ttl" default:"1h"`
}

type UploadConfig struct {
	MaxImageBytes int `yaml:"max_image_bytes" default:"10485760"`
}

type ThemeConfig struct {
	Default        string `yaml:"default" default:"dark-theme"`
	AllowSwitching bool   `yaml:"allow_switching" default:"true"`
}

var AppConfig *Config

// LoadConfig reads .env, the YAML file at path and the process environment,
// in that order of precedence (lowest first), and stores the result in AppConfig.
func LoadConfig(path string) error {
	if err := godotenv.Load(); err != nil {
		configLogger.Debug().Err(err).Msg("No .env file loaded")
	}

	cfg, err := load(path, envconfig.OsLookuper())
	if err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

// Default returns a configuration holding only the default values.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func load(path string, lookuper envconfig.Lookuper) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.ProcessWith(context.Background(), config, lookuper); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return fmt.Errorf("unsupported configuration version %q (want %q)", c.Version, SupportedVersion)
	}

	u, err := url.Parse(c.Poster.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid poster endpoint %q", c.Poster.Endpoint)
	}
	if c.Poster.Timeout < 0 {
		return fmt.Errorf("poster timeout must not be negative, got %s", c.Poster.Timeout)
	}
	if c.Drafts.MaxDrafts <= 0 {
		return fmt.Errorf("drafts.max_drafts must be positive, got %d", c.Drafts.MaxDrafts)
	}
	if c.Drafts.TTL <= 0 {
		return fmt.Errorf("drafts.ttl must be positive, got %s", c.Drafts.TTL)
	}
	if c.Upload.MaxImageBytes <= 0 {
		return fmt.Errorf("upload.max_image_bytes must be positive, got %d", c.Upload.MaxImageBytes)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch {
		case field.Type() == durationType:
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
		case field.Kind() == reflect.String:
			field.SetString(defaultValue)
		case field.Kind() == reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case field.Kind() == reflect.Int, field.Kind() == reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case field.Kind() == reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case field.Kind() == reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
