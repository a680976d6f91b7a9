// Package mongodb manages the connection to the MongoDB cluster that holds
// the dashboard's trading data.
package mongodb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"trading_dashboard/internal/platform/secrets"
	"trading_dashboard/internal/shared/retry"
)

// Secret keys read by ResolveConfiguration.
const (
	KeyURI                    = "MONGO_URI"
	KeyAppName                = "MONGO_APP_NAME"
	KeyCAFile                 = "MONGO_CA_FILE"
	KeyServerSelectionTimeout = "MONGO_SERVER_SELECTION_TIMEOUT"
	KeyConnectTimeout         = "MONGO_CONNECT_TIMEOUT"
	KeyConnectAttempts        = "MONGO_CONNECT_ATTEMPTS"
)

const (
	schemeStandard = "mongodb"
	schemeSRV      = "mongodb+srv"

	defaultAppName                = "trading-dashboard"
	defaultServerSelectionTimeout = 10 * time.Second
	defaultConnectTimeout         = 10 * time.Second
)

// Config holds everything needed to open a session against the cluster.
// URI embeds credentials and must only be logged through Redacted.
type Config struct {
	URI                    string
	AppName                string
	CAFile                 string // optional PEM bundle for the TLS handshake
	ServerSelectionTimeout time.Duration
	ConnectTimeout         time.Duration
	Retry                  retry.Policy
}

// NewConfig returns a Config for uri with default timeouts and retry policy.
func NewConfig(uri string) Config {
	return Config{
		URI:                    strings.TrimSpace(uri),
		AppName:                defaultAppName,
		ServerSelectionTimeout: defaultServerSelectionTimeout,
		ConnectTimeout:         defaultConnectTimeout,
		Retry:                  retry.DefaultPolicy(),
	}
}

// ResolveConfiguration reads the connection settings from src. It never
// touches the network; a missing or malformed URI yields ErrConfiguration.
func ResolveConfiguration(src secrets.Source) (Config, error) {
	uri, ok := src.Lookup(KeyURI)
	if !ok {
		return Config{}, fmt.Errorf("%w: %s is not set", ErrConfiguration, KeyURI)
	}

	cfg := NewConfig(uri)
	if v, ok := src.Lookup(KeyAppName); ok {
		cfg.AppName = v
	}
	if v, ok := src.Lookup(KeyCAFile); ok {
		cfg.CAFile = v
	}

	var err error
	if cfg.ServerSelectionTimeout, err = lookupDuration(src, KeyServerSelectionTimeout, cfg.ServerSelectionTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ConnectTimeout, err = lookupDuration(src, KeyConnectTimeout, cfg.ConnectTimeout); err != nil {
		return Config{}, err
	}
	if v, ok := src.Lookup(KeyConnectAttempts); ok {
		n, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil || n < 1 {
			return Config{}, fmt.Errorf("%w: %s must be a positive integer", ErrConfiguration, KeyConnectAttempts)
		}
		cfg.Retry.MaxAttempts = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the URI is a usable MongoDB connection string.
func (c Config) Validate() error {
	return validateURI(c.URI)
}

// UsesSRV reports whether the hosts are discovered through DNS SRV records.
// SRV clusters (Atlas) always require TLS.
func (c Config) UsesSRV() bool {
	return strings.HasPrefix(c.URI, schemeSRV+"://")
}

// Redacted returns the URI with its password masked.
func (c Config) Redacted() string {
	return RedactURI(c.URI)
}

// RedactURI masks the password of a connection URI. Input without a scheme
// is replaced entirely since it may still contain credentials.
func RedactURI(raw string) string {
	p, ok := splitURI(strings.TrimSpace(raw))
	if !ok {
		return "<redacted>"
	}
	return p.redacted()
}

func validateURI(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fmt.Errorf("%w: %s is empty", ErrConfiguration, KeyURI)
	}

	p, ok := splitURI(s)
	if !ok {
		return fmt.Errorf("%w: %s has no scheme (expected %s:// or %s://)", ErrConfiguration, KeyURI, schemeStandard, schemeSRV)
	}
	switch p.scheme {
	case schemeStandard, schemeSRV:
	default:
		return fmt.Errorf("%w: %s has unsupported scheme %q", ErrConfiguration, KeyURI, p.scheme)
	}

	if p.hosts == "" {
		return fmt.Errorf("%w: %s has no host", ErrConfiguration, KeyURI)
	}
	hosts := strings.Split(p.hosts, ",")
	for _, h := range hosts {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("%w: %s has an empty host entry", ErrConfiguration, KeyURI)
		}
	}

	if p.scheme == schemeSRV {
		if len(hosts) != 1 {
			return fmt.Errorf("%w: %s:// URIs take exactly one host", ErrConfiguration, schemeSRV)
		}
		if strings.Contains(hosts[0], ":") {
			return fmt.Errorf("%w: %s:// URIs must not specify a port", ErrConfiguration, schemeSRV)
		}
	}

	// The driver's parser resolves SRV records, so SRV URIs are checked
	// in their standard form to keep this step offline.
	probe := s
	if p.scheme == schemeSRV {
		probe = p.standardForm()
	}
	if err := options.Client().ApplyURI(probe).Validate(); err != nil {
		return fmt.Errorf("%w: %s is malformed: %s", ErrConfiguration, KeyURI, p.scrub(err.Error()))
	}
	return nil
}

// srvOnlyOptions are rejected by the driver on mongodb:// URIs.
var srvOnlyOptions = map[string]bool{
	"srvmaxhosts":    true,
	"srvservicename": true,
}

// uriParts is a connection string split the way the driver splits it:
// user info up to the first "@", then the host list up to "/" or "?".
type uriParts struct {
	scheme   string
	userinfo string
	hasUser  bool
	hosts    string
	rest     string
}

func splitURI(s string) (uriParts, bool) {
	scheme, after, ok := strings.Cut(s, "://")
	if !ok || scheme == "" {
		return uriParts{}, false
	}
	p := uriParts{scheme: scheme}
	if i := strings.Index(after, "@"); i >= 0 {
		p.userinfo, p.hasUser, after = after[:i], true, after[i+1:]
	}
	p.hosts = after
	if i := strings.IndexAny(after, "/?"); i >= 0 {
		p.hosts, p.rest = after[:i], after[i:]
	}
	return p, true
}

func (p uriParts) password() string {
	_, pw, _ := strings.Cut(p.userinfo, ":")
	return pw
}

func (p uriParts) join(scheme, userinfo, rest string) string {
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	if p.hasUser {
		b.WriteString(userinfo)
		b.WriteByte('@')
	}
	b.WriteString(p.hosts)
	b.WriteString(rest)
	return b.String()
}

func (p uriParts) redacted() string {
	userinfo := p.userinfo
	if user, _, ok := strings.Cut(userinfo, ":"); ok {
		userinfo = user + ":xxxxx"
	}
	return p.join(p.scheme, userinfo, p.rest)
}

// standardForm rewrites an SRV URI as mongodb:// without SRV-only options.
func (p uriParts) standardForm() string {
	rest := p.rest
	if path, query, ok := strings.Cut(rest, "?"); ok {
		var kept []string
		for _, kv := range strings.Split(query, "&") {
			k, _, _ := strings.Cut(kv, "=")
			if srvOnlyOptions[strings.ToLower(k)] {
				continue
			}
			kept = append(kept, kv)
		}
		rest = path
		if len(kept) > 0 {
			rest += "?" + strings.Join(kept, "&")
		}
	}
	return p.join(schemeStandard, p.userinfo, rest)
}

// scrub removes the password from a driver message.
func (p uriParts) scrub(msg string) string {
	if pw := p.password(); pw != "" {
		msg = strings.ReplaceAll(msg, pw, "xxxxx")
	}
	return msg
}

func lookupDuration(src secrets.Source, key string, def time.Duration) (time.Duration, error) {
	v, ok := src.Lookup(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration such as 10s", ErrConfiguration, key)
	}
	return d, nil
}
