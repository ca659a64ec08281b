package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"finsight/internal/logger"
	"finsight/internal/metrics"
)

// State is the lifecycle state of the Manager.
type State string

const (
	// StateMemory means the in-memory backend is live and no upgrade is pending.
	StateMemory State = "memory"
	// StateConnecting means the in-memory backend is live and the poll loop is running.
	StateConnecting State = "connecting"
	// StateUpgraded means the document backend is live.
	StateUpgraded State = "upgraded"
	// StateDowngraded means the connection dropped after an upgrade and a fresh
	// in-memory backend is live.
	StateDowngraded State = "downgraded"
)

// attemptTimeout bounds a single ping and open.
const attemptTimeout = 5 * time.Second

var errNoConnector = errors.New("storage: no connector configured")

// Connector reaches the document database on behalf of the Manager.
type Connector interface {
	// Ping reports whether the database is reachable right now.
	Ping(ctx context.Context) error
	// Open returns a backend bound to the live connection.
	Open(ctx context.Context) (Storage, error)
}

// ManagerConfig controls the bounded upgrade poll.
type ManagerConfig struct {
	InitialDelay  time.Duration
	RetryInterval time.Duration
	RetryWindow   time.Duration
}

// Status is a point-in-time view of the Manager.
type Status struct {
	Backend string `json:"backend"`
	State   State  `json:"state"`
}

// Manager owns the live backend. It starts on a fresh in-memory backend and
// swaps to the document backend once a connection is seen, and back to a fresh
// in-memory backend when the driver reports the connection lost. Swaps replace
// the reference only: rows written to an in-memory backend are not carried over.
type Manager struct {
	mu        sync.RWMutex
	current   Storage
	state     State
	connector Connector
	// closed is set by Close under mu; no goroutine is added to wg after it.
	closed bool

	// upgradeMu serializes upgrade attempts from the poll loop and driver events.
	upgradeMu sync.Mutex

	newMemory func() Storage
	cfg       ManagerConfig
	log       *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a Manager serving a backend from newMemory.
func NewManager(newMemory func() Storage, cfg ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		current:   newMemory(),
		state:     StateMemory,
		newMemory: newMemory,
		cfg:       cfg,
		log:       logger.Named("storage"),
		ctx:       ctx,
		cancel:    cancel,
	}
	metrics.SetActiveBackend(m.current.Name())
	m.log.Infow("storage initialized", "backend", m.current.Name())
	return m
}

// Current returns the live backend.
func (m *Manager) Current() Storage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Status returns the live backend name and state together.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{Backend: m.current.Name(), State: m.state}
}

// Start begins the bounded poll for the document database. It returns
// immediately; the in-memory backend keeps serving until an attempt succeeds.
func (m *Manager) Start(ctx context.Context, connector Connector) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.connector = connector
	if m.state == StateMemory {
		m.state = StateConnecting
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		m.poll(ctx)
	}()
}

// SetConnector registers the connector used by Connected without starting the
// poll loop.
func (m *Manager) SetConnector(connector Connector) {
	m.mu.Lock()
	m.connector = connector
	m.mu.Unlock()
}

func (m *Manager) poll(ctx context.Context) {
	deadline := time.Now().Add(m.cfg.InitialDelay + m.cfg.RetryWindow)

	timer := time.NewTimer(m.cfg.InitialDelay)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-m.ctx.Done():
			return
		case <-timer.C:
		}

		err := m.upgrade(ctx)
		if err == nil {
			return
		}
		m.log.Debugw("document database not reachable", "attempt", attempt, "error", err)

		if time.Now().Add(m.cfg.RetryInterval).After(deadline) {
			m.mu.Lock()
			if m.state == StateConnecting {
				m.state = StateMemory
			}
			m.mu.Unlock()
			m.log.Warnw("document database unreachable, staying on in-memory storage",
				"attempts", attempt,
				"window", m.cfg.RetryWindow,
			)
			return
		}
		timer.Reset(m.cfg.RetryInterval)
	}
}

// Connected is called by the driver when a connection becomes healthy. It
// schedules an upgrade unless one is already live.
func (m *Manager) Connected() {
	m.mu.Lock()
	if m.closed || m.state == StateUpgraded {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		if err := m.upgrade(m.ctx); err != nil {
			m.log.Warnw("upgrade after connect event failed", "error", err)
		}
	}()
}

// Disconnected is called by the driver when the connection is lost. It swaps
// in a fresh in-memory backend if the document backend was live.
func (m *Manager) Disconnected() {
	m.mu.Lock()
	if m.state != StateUpgraded {
		m.mu.Unlock()
		return
	}
	m.swapLocked(m.newMemory(), StateDowngraded)
	m.mu.Unlock()
	m.log.Warnw("document database connection lost, downgraded to in-memory storage")
}

// Close stops the poll loop and waits for pending upgrades.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) upgrade(ctx context.Context) error {
	m.upgradeMu.Lock()
	defer m.upgradeMu.Unlock()

	m.mu.RLock()
	state, connector := m.state, m.connector
	m.mu.RUnlock()
	if state == StateUpgraded {
		return nil
	}
	if connector == nil {
		return errNoConnector
	}

	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	if err := connector.Ping(ctx); err != nil {
		return err
	}
	backend, err := connector.Open(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.swapLocked(backend, StateUpgraded)
	m.mu.Unlock()
	m.log.Infow("upgraded to document database storage", "backend", backend.Name())
	return nil
}

func (m *Manager) swapLocked(backend Storage, state State) {
	m.current = backend
	m.state = state
	metrics.SetActiveBackend(backend.Name())
	metrics.StorageSwitchesTotal.WithLabelValues(backend.Name()).Inc()
}
