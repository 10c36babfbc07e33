package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Hostname is announced in greetings and defines the local recipient.
	// Empty means the machine's hostname.
	Hostname string        `toml:"hostname"`
	SMTP     SMTPConfig    `toml:"smtp"`
	POP3     POP3Config    `toml:"pop3"`
	HTTP     HTTPConfig    `toml:"http"`
	SMS      SMSConfig     `toml:"sms"`
	Logging  LoggingConfig `toml:"logging"`
}

type SMTPConfig struct {
	Addr           string `toml:"addr"`
	IdleTimeout    string `toml:"idle_timeout"`
	StripNUL       bool   `toml:"strip_nul"`
	VerifyDKIM     bool   `toml:"verify_dkim"`
	MaxMessageSize int    `toml:"max_message_size"` // bytes, 0 = unbounded
}

type POP3Config struct {
	Addr        string `toml:"addr"`
	IdleTimeout string `toml:"idle_timeout"`
	Username    string `toml:"username"` // empty accepts any user
	Password    string `toml:"password"` // empty accepts any password
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

type SMSConfig struct {
	MaxUnits    int         `toml:"max_units"`
	StoreCopies bool        `toml:"store_copies"`
	Pager       PagerConfig `toml:"pager"`
}

type PagerConfig struct {
	Kind    string   `toml:"kind"` // log, exec or lua
	Command []string `toml:"command"`
	Script  string   `toml:"script"`
	Timeout string   `toml:"timeout"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	LokiURL    string `toml:"loki_url"`
	EnableLoki bool   `toml:"enable_loki"`
}

func Default() Config {
	return Config{
		SMTP: SMTPConfig{
			Addr:        "127.0.0.1:25",
			IdleTimeout: "2m",
			StripNUL:    true,
		},
		POP3: POP3Config{
			Addr:        "127.0.0.1:110",
			IdleTimeout: "10m",
			Username:    "smsgate",
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8080",
		},
		SMS: SMSConfig{
			MaxUnits: 140,
			Pager: PagerConfig{
				Kind:    "log",
				Timeout: "30s",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LokiURL: "http://localhost:3100/loki/api/v1/push",
		},
	}
}

// LoadFile decodes path over cfg. Keys absent from the file keep their
// current values.
func LoadFile(path string, cfg *Config) error {
	metadata, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, key := range metadata.Undecoded() {
		slog.Warn("Ignoring unknown configuration key", "file", path, "key", key.String())
	}
	return nil
}

// RegisterFlags attaches the CLI flags that override file values.
func RegisterFlags(cmd *cobra.Command) {
	def := Default()

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to a TOML configuration file")
	flags.String("hostname", "", "Hostname used in greetings and the local recipient (default: system hostname)")
	flags.String("smtp-addr", def.SMTP.Addr, "SMTP listen address")
	flags.String("pop3-addr", def.POP3.Addr, "POP3 listen address")
	flags.String("http-addr", def.HTTP.Addr, "HTTP API listen address")
	flags.String("pager", def.SMS.Pager.Kind, "Pager kind: log, exec or lua")
	flags.String("log-level", def.Logging.Level, "Logging level: debug, info, warn, error")
}

// Load builds the effective configuration: defaults, then the file named by
// --config, then every flag set explicitly on the command line.
func Load(cmd *cobra.Command) (Config, error) {
	cfg := Default()
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrides := map[string]*string{
		"hostname":  &cfg.Hostname,
		"smtp-addr": &cfg.SMTP.Addr,
		"pop3-addr": &cfg.POP3.Addr,
		"http-addr": &cfg.HTTP.Addr,
		"pager":     &cfg.SMS.Pager.Kind,
		"log-level": &cfg.Logging.Level,
	}
	for name, target := range overrides {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return Config{}, err
		}
		*target = value
	}

	if cfg.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return Config{}, fmt.Errorf("failed to determine hostname: %w", err)
		}
		cfg.Hostname = hostname
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.SMTP.GetIdleTimeout(); err != nil {
		return err
	}
	if _, err := c.POP3.GetIdleTimeout(); err != nil {
		return err
	}
	if _, err := c.SMS.Pager.GetTimeout(); err != nil {
		return err
	}
	if _, err := c.Logging.GetLevel(); err != nil {
		return err
	}
	if c.SMTP.MaxMessageSize < 0 {
		return fmt.Errorf("%w: smtp.max_message_size must not be negative", ErrInvalidConfig)
	}
	if c.SMS.MaxUnits < 0 {
		return fmt.Errorf("%w: sms.max_units must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c SMTPConfig) GetIdleTimeout() (time.Duration, error) {
	return parseDuration("smtp.idle_timeout", c.IdleTimeout, 2*time.Minute)
}

func (c POP3Config) GetIdleTimeout() (time.Duration, error) {
	return parseDuration("pop3.idle_timeout", c.IdleTimeout, 10*time.Minute)
}

func (c PagerConfig) GetTimeout() (time.Duration, error) {
	return parseDuration("sms.pager.timeout", c.Timeout, 30*time.Second)
}

func (c LoggingConfig) GetLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Level)
	}
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, key)
	}
	return d, nil
}
