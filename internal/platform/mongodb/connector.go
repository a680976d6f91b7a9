package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trading_dashboard/internal/shared/retry"
)

const disconnectTimeout = 5 * time.Second

// Connector opens sessions for a validated Config, retrying transient
// failures according to Config.Retry.
type Connector struct {
	cfg    Config
	dialer Dialer
	logger *slog.Logger
}

// Option customises a Connector.
type Option func(*Connector)

// WithDialer replaces the driver dialer.
func WithDialer(d Dialer) Option {
	return func(c *Connector) { c.dialer = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) { c.logger = l }
}

// NewConnector creates a Connector for cfg.
func NewConnector(cfg Config, opts ...Option) *Connector {
	c := &Connector{
		cfg:    cfg,
		dialer: DriverDialer{},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the connector's configuration.
func (c *Connector) Config() Config {
	return c.cfg
}

// Connect opens a new session. Configuration and authentication failures
// return immediately; network and TLS failures are retried with backoff
// and then returned wrapped with retry.ErrExhausted.
func (c *Connector) Connect(ctx context.Context) (Session, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	var sess Session
	attempts := c.cfg.Retry.Attempts()
	err := retry.Do(ctx, c.cfg.Retry, IsTransient, func(ctx context.Context, attempt int) error {
		s, err := c.dialer.Dial(ctx, c.cfg)
		if err != nil {
			err = Classify(err)
			c.logger.Warn("database connect failed",
				"attempt", attempt,
				"max_attempts", attempts,
				"kind", Kind(err),
				"uri", c.cfg.Redacted(),
				"error", err,
			)
			return err
		}
		sess = s
		return nil
	})
	if err != nil {
		c.logger.Error("database unavailable",
			"kind", Kind(err),
			"uri", c.cfg.Redacted(),
			"remediation", Remediation(err),
			"error", err,
		)
		return nil, err
	}

	c.logger.Info("database connected", "uri", c.cfg.Redacted(), "srv", c.cfg.UsesSRV())
	return sess, nil
}

// WithConnection opens a dedicated session, passes it to fn and disconnects
// on every exit path, including errors and panics raised by fn.
func (c *Connector) WithConnection(ctx context.Context, fn func(ctx context.Context, s Session) error) (err error) {
	s, err := c.Connect(ctx)
	if err != nil {
		return err
	}

	defer func() {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
		defer cancel()
		if derr := s.Disconnect(dctx); derr != nil {
			c.logger.Warn("database disconnect failed", "error", derr)
			if err == nil {
				err = fmt.Errorf("disconnect: %w", derr)
			}
		}
	}()

	return fn(ctx, s)
}
