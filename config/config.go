// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads tracker defaults from a configuration file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/gogama/reqtrack/logger"
	"github.com/gogama/reqtrack/request"
)

// Config holds the settings which can be loaded from a file or the
// environment.
type Config struct {
	// BaseURL is the default base URL relative request URLs resolve
	// against.
	BaseURL string `mapstructure:"base_url"`
	// Headers are the default request headers.
	Headers map[string]string `mapstructure:"headers"`
	// Timeout is the default request timeout (e.g. "5s"). Empty means no
	// timeout.
	Timeout string `mapstructure:"timeout"`
	// Auth holds default HTTP Basic credentials.
	Auth *Auth `mapstructure:"auth"`
	// Proxy describes the default outbound proxy.
	Proxy *Proxy `mapstructure:"proxy"`
	// MaxRedirects is the default maximum number of redirects to follow.
	// Unset means the transport default.
	MaxRedirects *int `mapstructure:"max_redirects"`
	// LogLevel is the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxLogBody caps how much of a response body is logged (e.g.
	// "4KB").
	MaxLogBody string `mapstructure:"max_log_body"`

	// ParsedTimeout is the parsed Timeout.
	ParsedTimeout time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxLogBody is the parsed MaxLogBody in bytes.
	ParsedMaxLogBody uint64
}

// Auth holds HTTP Basic credentials.
type Auth struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Proxy describes an outbound proxy.
type Proxy struct {
	Protocol string `mapstructure:"protocol"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

const (
	// EnvPrefix prefixes every environment variable Load reads, e.g.
	// REQTRACK_BASE_URL or REQTRACK_AUTH_USERNAME.
	EnvPrefix = "REQTRACK"

	// DefaultMaxLogBody is the default MaxLogBody.
	DefaultMaxLogBody = "1KiB"
)

// Static error definitions.
var (
	// ErrInvalidBaseURL indicates that the base URL is not an absolute URL.
	ErrInvalidBaseURL = errors.New("base_url must be an absolute URL")
	// ErrInvalidTimeout indicates that the timeout is malformed or negative.
	ErrInvalidTimeout = errors.New("timeout must be a non-negative duration")
	// ErrInvalidMaxRedirects indicates that max_redirects is negative.
	ErrInvalidMaxRedirects = errors.New("max_redirects must not be negative")
	// ErrInvalidProxy indicates that the proxy settings are incomplete.
	ErrInvalidProxy = errors.New("invalid proxy")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidMaxLogBody indicates that max_log_body is not a byte size.
	ErrInvalidMaxLogBody = errors.New("max_log_body must be a byte size")
)

// boundKeys are the keys which may be set from the environment.
var boundKeys = []string{
	"base_url",
	"timeout",
	"auth.username",
	"auth.password",
	"proxy.protocol",
	"proxy.host",
	"proxy.port",
	"proxy.username",
	"proxy.password",
	"max_redirects",
	"log_level",
	"max_log_body",
}

// Load reads settings from filename, if it is not empty, and from
// environment variables prefixed with EnvPrefix, which take precedence.
// The file format is inferred from its extension. The returned
// configuration is validated.
func Load(filename string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range boundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	v.SetDefault("log_level", "info")
	v.SetDefault("max_log_body", DefaultMaxLogBody)

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for validity and sets the Parsed
// fields.
func Validate(cfg *Config) error {
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
		}
	}

	cfg.ParsedTimeout = 0
	if timeout := strings.TrimSpace(cfg.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, cfg.Timeout)
		}
		cfg.ParsedTimeout = d
	}

	if cfg.MaxRedirects != nil && *cfg.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}

	if p := cfg.Proxy; p != nil {
		if strings.TrimSpace(p.Host) == "" {
			return fmt.Errorf("%w: host cannot be empty", ErrInvalidProxy)
		}
		switch strings.ToLower(p.Protocol) {
		case "", "http", "https", "socks5", "socks5h":
		default:
			return fmt.Errorf("%w: unsupported protocol %q", ErrInvalidProxy, p.Protocol)
		}
		if p.Port < 0 || p.Port > 65535 {
			return fmt.Errorf("%w: port %d out of range", ErrInvalidProxy, p.Port)
		}
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok && strings.TrimSpace(cfg.LogLevel) != "" {
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, cfg.LogLevel)
	}
	cfg.ParsedLogLevel = level

	cfg.ParsedMaxLogBody = 0
	if maxLogBody := strings.TrimSpace(cfg.MaxLogBody); maxLogBody != "" {
		n, err := humanize.ParseBytes(maxLogBody)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidMaxLogBody, cfg.MaxLogBody)
		}
		cfg.ParsedMaxLogBody = n
	}

	return nil
}

// Defaults converts the configuration into tracker defaults. Call it on
// a validated configuration.
func (cfg *Config) Defaults() request.Config {
	d := request.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.ParsedTimeout,
	}

	if len(cfg.Headers) > 0 {
		d.Header = make(http.Header, len(cfg.Headers))
		for k, v := range cfg.Headers {
			d.Header.Set(k, v)
		}
	}

	if a := cfg.Auth; a != nil && (a.Username != "" || a.Password != "") {
		d.Auth = &request.Auth{Username: a.Username, Password: a.Password}
	}

	if p := cfg.Proxy; p != nil {
		d.Proxy = &request.Proxy{
			Protocol: p.Protocol,
			Host:     p.Host,
			Port:     p.Port,
		}
		if p.Username != "" || p.Password != "" {
			d.Proxy.Auth = &request.Auth{Username: p.Username, Password: p.Password}
		}
	}

	if cfg.MaxRedirects != nil {
		d.MaxRedirects = request.Redirects(*cfg.MaxRedirects)
	}

	return d
}
