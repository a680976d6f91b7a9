package mongodb

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Connection error taxonomy. Every error returned by Connect, Session or
// Ping wraps exactly one of the first four.
var (
	// ErrConfiguration: MONGO_URI missing or malformed. Not retried.
	ErrConfiguration = errors.New("database configuration error")
	// ErrNetwork: DNS failure, refused or unreachable host, server selection
	// timeout (typically the caller's IP is not on the cluster allow-list).
	ErrNetwork = errors.New("database network error")
	// ErrTLSHandshake: the encrypted handshake failed.
	ErrTLSHandshake = errors.New("database tls handshake error")
	// ErrAuthentication: the cluster rejected the credentials. Not retried.
	ErrAuthentication = errors.New("database authentication error")

	// ErrClosed is returned by a Manager after Close.
	ErrClosed = errors.New("database connection manager closed")
)

// Server error codes for rejected credentials (AuthenticationFailed and the
// Atlas proxy equivalent).
const (
	codeAuthenticationFailed = 18
	codeAtlasAuthFailed      = 8000
)

var authMarkers = []string{
	"authentication failed",
	"auth error",
	"bad auth",
	"unable to authenticate",
}

// "connection handshake" alone is the driver's generic wrapper, so it is
// not a TLS marker.
var tlsMarkers = []string{
	"tls:",
	"x509:",
	"certificate",
	"ssl handshake",
	"ssl error",
	"tls handshake",
}

// Classify maps a driver error onto the connection error taxonomy. Errors
// that are already classified are returned unchanged; anything not
// recognisable as a TLS or authentication failure is treated as a network
// failure.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range []error{ErrConfiguration, ErrNetwork, ErrTLSHandshake, ErrAuthentication, ErrClosed} {
		if errors.Is(err, k) {
			return err
		}
	}

	switch {
	case isAuthError(err):
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	case isTLSError(err):
		return fmt.Errorf("%w: %w", ErrTLSHandshake, err)
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
}

func isAuthError(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codeAuthenticationFailed) || se.HasErrorCode(codeAtlasAuthFailed)) {
		return true
	}
	return containsAny(err.Error(), authMarkers)
}

func isTLSError(err error) bool {
	var (
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &verifyErr),
		errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr):
		return true
	}
	return containsAny(err.Error(), tlsMarkers)
}

func containsAny(msg string, markers []string) bool {
	msg = strings.ToLower(msg)
	for _, m := range markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTLSHandshake)
}

// Kind returns a stable identifier of the error class, or "" for errors
// outside the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrTLSHandshake):
		return "tls_handshake"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrClosed):
		return "closed"
	default:
		return ""
	}
}

// Remediation returns operator guidance for a classified connection error.
func Remediation(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "Set MONGO_URI (environment or secrets.toml) to a mongodb:// or mongodb+srv:// connection string."
	case errors.Is(err, ErrAuthentication):
		return "Check the user name and password embedded in MONGO_URI against the cluster's database users."
	case errors.Is(err, ErrTLSHandshake):
		return "Check the runtime TLS library version against the cluster's TLS requirements, disable VPNs or intercepting proxies, or set MONGO_CA_FILE to a current CA bundle."
	case errors.Is(err, ErrNetwork):
		return "Add this host's egress IP to the cluster's network access list (0.0.0.0/0 only for testing) and verify the cluster host name."
	case errors.Is(err, ErrClosed):
		return "The server is shutting down."
	default:
		return ""
	}
}

// ClassifyQuery classifies connectivity failures raised while running a
// query and returns every other error unchanged.
func ClassifyQuery(err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != "" {
		return err
	}
	if errors.Is(err, mongo.ErrClientDisconnected) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		isAuthError(err) || isTLSError(err) {
		return Classify(err)
	}
	return err
}
