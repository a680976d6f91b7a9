package mongodb

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Session is an open, authenticated handle on the cluster.
type Session interface {
	Database(name string) *mongo.Database
	Ping(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Dialer opens a Session. It is the seam tests use to inject failures.
type Dialer interface {
	Dial(ctx context.Context, cfg Config) (Session, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, cfg Config) (Session, error)

// Dial calls f.
func (f DialerFunc) Dial(ctx context.Context, cfg Config) (Session, error) {
	return f(ctx, cfg)
}

// DriverDialer dials with the official MongoDB driver.
type DriverDialer struct{}

var _ Dialer = DriverDialer{}

// Dial connects and pings the primary so that DNS, TLS and authentication
// failures surface here rather than on the first query.
func (DriverDialer) Dial(ctx context.Context, cfg Config) (Session, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, uriError(cfg, err)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ServerSelectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return &clientSession{client: client}, nil
}

func clientOptions(cfg Config) (*options.ClientOptions, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(cfg.AppName)
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	if cfg.CAFile != "" {
		tlsCfg, err := loadTLSConfig(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// uriError classifies an error the driver recorded while applying the URI.
// SRV and TXT lookups happen at that point, so DNS failures stay network
// errors; everything else is a malformed connection string.
func uriError(cfg Config, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return err
	}
	msg := err.Error()
	if p, ok := splitURI(cfg.URI); ok {
		msg = p.scrub(msg)
	}
	return fmt.Errorf("%w: %s is malformed: %s", ErrConfiguration, KeyURI, msg)
}

// loadTLSConfig builds a TLS configuration trusting the PEM bundle at path.
func loadTLSConfig(path string) (*tls.Config, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfiguration, KeyCAFile, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: %s contains no PEM certificates", ErrConfiguration, KeyCAFile)
	}
	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

type clientSession struct {
	client *mongo.Client
}

func (s *clientSession) Database(name string) *mongo.Database {
	return s.client.Database(name)
}

func (s *clientSession) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *clientSession) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
