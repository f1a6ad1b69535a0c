// Package broker watches the MQTT broker the fleet publishes to.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultMaxRetries    = 5
	defaultRetryInterval = 500 * time.Millisecond
	connectTimeout       = 5 * time.Second
)

// Config describes how to reach the broker.
type Config struct {
	Server   string
	Port     int
	ClientID string
	Username string
	Password string

	// MaxRetries bounds reconnection attempts after the first one. Zero
	// means 5.
	MaxRetries int
	// RetryInterval is the first backoff delay. Zero means 500ms.
	RetryInterval time.Duration
}

// URL returns the broker address in the form paho expects.
func (c Config) URL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Server, c.Port)
}

// Connect dials the broker, retrying with exponential backoff until it
// succeeds, the retries are exhausted or ctx is done.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (mqtt.Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.URL())
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("broker connection lost", "broker", cfg.URL(), "error", err)
	})

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = defaultRetryInterval
	if cfg.RetryInterval > 0 {
		bo.InitialInterval = cfg.RetryInterval
	}
	bo.MaxElapsedTime = 30 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries)), ctx)

	var client mqtt.Client
	err := backoff.RetryNotify(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return token.Error()
		}
		return nil
	}, policy, func(err error, next time.Duration) {
		logger.Warn("failed to connect to broker, retrying", "broker", cfg.URL(), "error", err, "retry_in", next)
	})
	if err != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", cfg.URL(), err)
	}

	logger.Info("connected to broker", "broker", cfg.URL())
	return client, nil
}
