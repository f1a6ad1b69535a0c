package modem

import (
	"log/slog"
	"time"
)

// DefaultATTimeout is how long Run waits for each response line.
const DefaultATTimeout = 30 * time.Second

// Observer is notified after every completed command. Implementations
// must be safe for use by a single goroutine at a time and must not block.
type Observer interface {
	CommandCompleted(command string, status Status, elapsed time.Duration)
}

// Config holds the settings used by New. Build it with NewConfigBuilder.
type Config struct {
	dialer    Dialer
	atTimeout time.Duration
	logger    *slog.Logger
	observer  Observer
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.atTimeout <= 0 {
		c.atTimeout = DefaultATTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithATTimeout sets the per-line response timeout.
func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.atTimeout = d
	return b
}

// WithLogger sets the logger receiving the command trace at debug level.
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

func (b *ConfigBuilder) WithObserver(o Observer) *ConfigBuilder {
	b.config.observer = o
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
