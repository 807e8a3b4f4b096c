package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/retry"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/workerpool"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Search  SearchConfig  `mapstructure:"search"`
	News    NewsConfig    `mapstructure:"news"`
	Content ContentConfig `mapstructure:"content"`
}

type ServerConfig struct {
	Host  string            `mapstructure:"host"`
	Port  int               `mapstructure:"port"`
	Batch workerpool.Config `mapstructure:"batch"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

// SearchConfig selects the web search provider used by internet_search.
type SearchConfig struct {
	Provider string        `mapstructure:"provider"`
	BaseURL  string        `mapstructure:"base_url"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
}

// NewsConfig points news_headlines at the aggregator.
type NewsConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxAttempts        int           `mapstructure:"max_attempts"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`
	RetryBackoff       float64       `mapstructure:"retry_backoff"`
	IncludeSource      bool          `mapstructure:"include_source"`
	CleanTitles        bool          `mapstructure:"clean_titles"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
}

// RetryPolicy converts the retry fields into a retry.Policy.
func (c NewsConfig) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxAttempts,
		Delay:       c.RetryDelay,
		Backoff:     c.RetryBackoff,
	}
}

// ContentConfig tunes the website_content fetcher.
type ContentConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// Logger converts the log section into the logger package's config.
func (c LogConfig) Logger() *logger.Config {
	return &logger.Config{
		Level:            c.Level,
		Format:           c.Format,
		Output:           c.Output,
		EnableCaller:     c.EnableCaller,
		EnableStacktrace: c.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   c.File.Filename,
			MaxSize:    c.File.MaxSize,
			MaxAge:     c.File.MaxAge,
			MaxBackups: c.File.MaxBackups,
			Compress:   c.File.Compress,
		},
	}
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.batch.workers", 8)
	v.SetDefault("server.batch.non_blocking", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.enablecaller", false)
	v.SetDefault("log.enablestacktrace", false)
	v.SetDefault("log.file.filename", "logs/toolkit.log")
	v.SetDefault("log.file.maxsize", 50)
	v.SetDefault("log.file.maxage", 14)
	v.SetDefault("log.file.maxbackups", 5)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("search.provider", "serp")
	v.SetDefault("search.base_url", "http://192.168.8.225:7000")
	v.SetDefault("search.language", "EN")
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.username", "")
	v.SetDefault("search.password", "")

	policy := retry.DefaultPolicy()
	v.SetDefault("news.base_url", "http://192.168.8.225:8888/")
	v.SetDefault("news.timeout", 20*time.Second)
	v.SetDefault("news.max_attempts", policy.MaxAttempts)
	v.SetDefault("news.retry_delay", policy.Delay)
	v.SetDefault("news.retry_backoff", policy.Backoff)
	v.SetDefault("news.include_source", true)
	v.SetDefault("news.clean_titles", false)
	v.SetDefault("news.insecure_skip_verify", true)

	v.SetDefault("content.timeout", 30*time.Second)
	v.SetDefault("content.user_agent", "Mozilla/5.0 (compatible; InternetDataToolkit/1.0)")
	v.SetDefault("content.max_body_bytes", int64(10<<20))
}

// LoadConfig reads path (YAML) on top of the built-in defaults. An empty path
// or a missing file yields the defaults. Every key can be overridden from the
// environment, e.g. NEWS_BASE_URL or SEARCH_PROVIDER.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// SetConfigFile bypasses the search path, so a missing file is a plain fs error
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	config, err := LoadConfig("")
	if err != nil {
		panic(err)
	}
	return config
}
