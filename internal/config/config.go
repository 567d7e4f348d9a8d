package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application level configuration loaded from an optional YAML
// file, environment variables and flags, in increasing precedence.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	MailerAddress      string
	MailerFrom         string
	AuthSecret         string
	NotifyPollInterval time.Duration
	WorkerPoolSize     int
	ShutdownTimeout    time.Duration
	NotifyBatchSize    int
}

// fileConfig mirrors Config for the YAML overlay; durations are parsed from
// their string form.
type fileConfig struct {
	RunAddress         string `yaml:"run_address"`
	DatabaseURI        string `yaml:"database_uri"`
	MailerAddress      string `yaml:"mailer_address"`
	MailerFrom         string `yaml:"mailer_from"`
	AuthSecret         string `yaml:"auth_secret"`
	NotifyPollInterval string `yaml:"notify_poll_interval"`
	WorkerPoolSize     int    `yaml:"worker_pool_size"`
	ShutdownTimeout    string `yaml:"shutdown_timeout"`
	NotifyBatchSize    int    `yaml:"notify_batch_size"`
}

const (
	defaultRunAddress         = ":8080"
	defaultAuthSecret         = "change-me-in-production"
	defaultNotifyPollInterval = 5 * time.Second
	defaultWorkerPoolSize     = 4
	defaultShutdownTimeout    = 10 * time.Second
	defaultNotifyBatchSize    = 32
)

// Load parses configuration from file, flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         defaultRunAddress,
		AuthSecret:         defaultAuthSecret,
		NotifyPollInterval: defaultNotifyPollInterval,
		WorkerPoolSize:     defaultWorkerPoolSize,
		ShutdownTimeout:    defaultShutdownTimeout,
		NotifyBatchSize:    defaultNotifyBatchSize,
	}

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.RunAddress = getString(lookup, "RUN_ADDRESS", cfg.RunAddress)
	cfg.DatabaseURI = getString(lookup, "DATABASE_URI", cfg.DatabaseURI)
	cfg.MailerAddress = getString(lookup, "MAILER_ADDRESS", cfg.MailerAddress)
	cfg.MailerFrom = getString(lookup, "MAILER_FROM", cfg.MailerFrom)
	cfg.AuthSecret = getString(lookup, "AUTH_SECRET", cfg.AuthSecret)
	cfg.NotifyPollInterval = getDuration(lookup, "NOTIFY_POLL_INTERVAL", cfg.NotifyPollInterval)
	cfg.WorkerPoolSize = getInt(lookup, "WORKER_POOL_SIZE", cfg.WorkerPoolSize)
	cfg.ShutdownTimeout = getDuration(lookup, "SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.NotifyBatchSize = getInt(lookup, "NOTIFY_BATCH_SIZE", cfg.NotifyBatchSize)

	fs := flag.NewFlagSet("orderdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.NotifyPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.MailerAddress, "m", cfg.MailerAddress, "Email provider base URL")
	fs.StringVar(&cfg.MailerFrom, "mailer-from", cfg.MailerFrom, "Sender address for outgoing email")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent notification workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between notification queue polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.NotifyBatchSize, "poll-batch", cfg.NotifyBatchSize, "Maximum notifications per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotifyPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.NotifyPollInterval <= 0 {
		cfg.NotifyPollInterval = defaultNotifyPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if fc.RunAddress != "" {
		c.RunAddress = fc.RunAddress
	}
	if fc.DatabaseURI != "" {
		c.DatabaseURI = fc.DatabaseURI
	}
	if fc.MailerAddress != "" {
		c.MailerAddress = fc.MailerAddress
	}
	if fc.MailerFrom != "" {
		c.MailerFrom = fc.MailerFrom
	}
	if fc.AuthSecret != "" {
		c.AuthSecret = fc.AuthSecret
	}
	if fc.NotifyPollInterval != "" {
		d, err := time.ParseDuration(fc.NotifyPollInterval)
		if err != nil {
			return fmt.Errorf("invalid notify_poll_interval: %w", err)
		}
		c.NotifyPollInterval = d
	}
	if fc.WorkerPoolSize > 0 {
		c.WorkerPoolSize = fc.WorkerPoolSize
	}
	if fc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown_timeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if fc.NotifyBatchSize > 0 {
		c.NotifyBatchSize = fc.NotifyBatchSize
	}
	return nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
