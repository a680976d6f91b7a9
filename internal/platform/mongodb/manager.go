package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of a Manager.
type State int32

const (
	StateUnconfigured State = iota
	StateConnecting
	StateConnected
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager owns the process-wide session. The session is created lazily by
// the first caller (or eagerly via Start) and shared by all goroutines; the
// driver pools connections underneath it.
//
// Configuration and authentication failures move the manager to
// StateFailed, which is terminal. Exhausted network/TLS retries return it to
// StateUnconfigured so a later call dials again.
type Manager struct {
	connector *Connector
	logger    *slog.Logger

	// ctx is cancelled by Close to abort an in-flight dial.
	ctx    context.Context
	cancel context.CancelFunc
	dials  singleflight.Group

	mu      sync.Mutex // guards transitions; never held while dialing
	state   atomic.Int32
	session Session
	failure error
}

// NewManager creates a Manager that dials through connector.
func NewManager(connector *Connector) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		connector: connector,
		logger:    connector.logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// State returns the current lifecycle state without blocking on a dial.
func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	prev := State(m.state.Swap(int32(s)))
	if prev != s {
		m.logger.Debug("database state changed", "from", prev.String(), "to", s.String())
	}
}

// Start connects eagerly.
func (m *Manager) Start(ctx context.Context) error {
	_, err := m.Session(ctx)
	return err
}

// Session returns the shared session, connecting first if needed.
// Concurrent callers share a single dial, which runs under the first
// caller's ctx; the others stop waiting when their own ctx ends.
func (m *Manager) Session(ctx context.Context) (Session, error) {
	m.mu.Lock()
	s, ok, err := m.settled()
	m.mu.Unlock()
	if ok {
		return s, err
	}

	ch := m.dials.DoChan("session", func() (any, error) {
		return m.connect(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Session), nil
	}
}

// settled reports the outcome of a state that needs no dial. Callers hold mu.
func (m *Manager) settled() (s Session, ok bool, err error) {
	switch m.State() {
	case StateConnected:
		return m.session, true, nil
	case StateClosed:
		return nil, true, ErrClosed
	case StateFailed:
		return nil, true, m.failure
	}
	return nil, false, nil
}

// connect dials without holding mu so that Close can abort it.
func (m *Manager) connect(ctx context.Context) (Session, error) {
	m.mu.Lock()
	if s, ok, err := m.settled(); ok {
		m.mu.Unlock()
		return s, err
	}
	m.setState(StateConnecting)
	m.mu.Unlock()

	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(m.ctx, cancel)
	defer stop()

	s, err := m.connector.Connect(dialCtx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() == StateClosed {
		if s != nil {
			dctx, dcancel := context.WithTimeout(context.Background(), disconnectTimeout)
			defer dcancel()
			if derr := s.Disconnect(dctx); derr != nil {
				m.logger.Warn("database disconnect failed", "error", derr)
			}
		}
		return nil, ErrClosed
	}
	if err != nil {
		if IsTransient(err) || ctx.Err() != nil {
			m.setState(StateUnconfigured)
		} else {
			m.failure = err
			m.setState(StateFailed)
		}
		return nil, err
	}

	m.session = s
	m.setState(StateConnected)
	return s, nil
}

// Database returns the named database on the shared session.
func (m *Manager) Database(ctx context.Context, name string) (*mongo.Database, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s.Database(name), nil
}

// Ping checks the shared session. Authentication and TLS failures on an
// established session tear it down so the next call reconnects cleanly.
func (m *Manager) Ping(ctx context.Context) error {
	s, err := m.Session(ctx)
	if err != nil {
		return err
	}
	if err := s.Ping(ctx); err != nil {
		err = Classify(err)
		if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrTLSHandshake) {
			m.Invalidate(ctx)
		}
		return err
	}
	return nil
}

// Invalidate disconnects the shared session, if any, and returns the
// manager to StateUnconfigured. Closed and failed managers are unaffected.
func (m *Manager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() != StateConnected {
		return
	}
	m.disconnect(ctx)
	m.setState(StateUnconfigured)
	m.logger.Warn("database session invalidated")
}

// Close disconnects the shared session and aborts a dial in progress. The
// manager cannot be reused.
func (m *Manager) Close(ctx context.Context) error {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.State() == StateClosed {
		return nil
	}
	err := m.disconnect(ctx)
	m.setState(StateClosed)
	return err
}

func (m *Manager) disconnect(ctx context.Context) error {
	if m.session == nil {
		return nil
	}
	err := m.session.Disconnect(context.WithoutCancel(ctx))
	if err != nil {
		m.logger.Warn("database disconnect failed", "error", err)
	}
	m.session = nil
	return err
}
