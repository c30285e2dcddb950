// Package config loads runtime settings from defaults, an optional config
// file, a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FOLIO_SERVER_ADDR.
const EnvPrefix = "FOLIO"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Content ContentConfig `mapstructure:"content"`
	Uploads UploadsConfig `mapstructure:"uploads"`
	Media   MediaConfig   `mapstructure:"media"`
	Site    SiteConfig    `mapstructure:"site"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type ContentConfig struct {
	Dir         string `mapstructure:"dir"`
	ArticlesDir string `mapstructure:"articles_dir"`
}

type UploadsConfig struct {
	Dir       string `mapstructure:"dir"`
	URLPrefix string `mapstructure:"url_prefix"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
}

type MediaConfig struct {
	IndexDir string `mapstructure:"index_dir"`
}

type SiteConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("content.dir", "content/blogs")
	v.SetDefault("content.articles_dir", "content/articles")
	v.SetDefault("uploads.dir", "public/uploads")
	v.SetDefault("uploads.url_prefix", "/uploads")
	v.SetDefault("uploads.max_bytes", 5<<20)
	v.SetDefault("media.index_dir", "data/badger")
	v.SetDefault("site.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads the configuration. path names an optional config file (yaml,
// toml or json by extension); an empty path skips it. A .env file in the
// working directory is loaded first when present and never overrides
// variables already set in the process environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("site.url", EnvPrefix+"_SITE_URL", "SITE_URL"); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("config: server.addr must not be empty")
	case c.Content.Dir == "":
		return errors.New("config: content.dir must not be empty")
	case c.Content.ArticlesDir == "":
		return errors.New("config: content.articles_dir must not be empty")
	case c.Uploads.Dir == "":
		return errors.New("config: uploads.dir must not be empty")
	case c.Uploads.MaxBytes <= 0:
		return errors.New("config: uploads.max_bytes must be positive")
	}
	return nil
}
