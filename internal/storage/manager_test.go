package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/models"
)

// fakeBackend embeds the interface so tests only implement what they touch.
type fakeBackend struct {
	Storage
	name string

	mu    sync.Mutex
	users []models.User
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) CreateUser(_ context.Context, u models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = u.Username
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeBackend) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

type fakeConnector struct {
	reachable atomic.Bool
	pings     atomic.Int32
	opens     atomic.Int32
	backend   *fakeBackend
}

func newFakeConnector(reachable bool) *fakeConnector {
	c := &fakeConnector{backend: &fakeBackend{name: "mongodb"}}
	c.reachable.Store(reachable)
	return c
}

func (c *fakeConnector) Ping(context.Context) error {
	c.pings.Add(1)
	if !c.reachable.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func (c *fakeConnector) Open(context.Context) (Storage, error) {
	c.opens.Add(1)
	return c.backend, nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(func() Storage { return &fakeBackend{name: "memory"} }, ManagerConfig{
		InitialDelay:  5 * time.Millisecond,
		RetryInterval: 10 * time.Millisecond,
		RetryWindow:   150 * time.Millisecond,
	})
	t.Cleanup(m.Close)
	return m
}

func TestManager_StartsOnMemory(t *testing.T) {
	m := newTestManager(t)

	assert.Equal(t, "memory", m.Current().Name())
	assert.Equal(t, StateMemory, m.State())
}

func TestManager_PollUpgrades(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(true)

	m.Start(context.Background(), conn)

	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "mongodb", m.Current().Name())
	assert.Equal(t, Status{Backend: "mongodb", State: StateUpgraded}, m.Status())
}

func TestManager_PollRetriesThenSucceeds(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(false)

	m.Start(context.Background(), conn)
	require.Eventually(t, func() bool { return conn.pings.Load() >= 2 }, time.Second, time.Millisecond)
	assert.Equal(t, StateConnecting, m.State())

	conn.reachable.Store(true)
	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, 5*time.Millisecond)
}

func TestManager_PollGivesUpAfterWindow(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(false)

	m.Start(context.Background(), conn)

	require.Eventually(t, func() bool { return m.State() == StateMemory && conn.pings.Load() > 0 }, time.Second, 5*time.Millisecond)
	attempts := conn.pings.Load()

	// No automatic retries once the window is spent.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, attempts, conn.pings.Load())
	assert.Equal(t, "memory", m.Current().Name())
	assert.Zero(t, conn.opens.Load())
}

func TestManager_DriverEvents(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(true)
	m.SetConnector(conn)

	m.Connected()
	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, time.Millisecond)

	// A second connect event while upgraded is a no-op.
	m.Connected()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), conn.opens.Load())

	m.Disconnected()
	assert.Equal(t, StateDowngraded, m.State())
	assert.Equal(t, "memory", m.Current().Name())

	m.Connected()
	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, time.Millisecond)
	assert.Equal(t, int32(2), conn.opens.Load())
}

func TestManager_DisconnectWhileOnMemoryIsNoop(t *testing.T) {
	m := newTestManager(t)
	before := m.Current()

	m.Disconnected()

	assert.Same(t, before, m.Current())
	assert.Equal(t, StateMemory, m.State())
}

func TestManager_CapturedBackendSurvivesSwap(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(true)
	m.SetConnector(conn)

	captured := m.Current()
	m.Connected()
	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, time.Millisecond)

	// The request that captured the old backend finishes against it.
	u, err := captured.CreateUser(context.Background(), models.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.ID)
	assert.Equal(t, 1, captured.(*fakeBackend).userCount())
	assert.Zero(t, conn.backend.userCount())
}

func TestManager_UpgradeDoesNotMigrateMemoryRows(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(true)
	m.SetConnector(conn)

	_, err := m.Current().CreateUser(context.Background(), models.User{Username: "bob"})
	require.NoError(t, err)
	memory := m.Current().(*fakeBackend)

	m.Connected()
	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, time.Millisecond)

	assert.Equal(t, 1, memory.userCount())
	assert.Zero(t, conn.backend.userCount(), "rows written before the upgrade stay behind")
}

func TestManager_DowngradeUsesFreshMemory(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(true)
	m.SetConnector(conn)
	first := m.Current()

	m.Connected()
	require.Eventually(t, func() bool { return m.State() == StateUpgraded }, time.Second, time.Millisecond)
	m.Disconnected()

	assert.NotSame(t, first, m.Current())
}

func TestManager_ConnectedWithoutConnector(t *testing.T) {
	m := newTestManager(t)

	m.Connected()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, StateMemory, m.State())
}

func TestManager_ConnectedDuringClose(t *testing.T) {
	m := newTestManager(t)
	conn := newFakeConnector(false)
	m.SetConnector(conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Connected()
			}
		}()
	}
	m.Close()
	wg.Wait()

	pings := conn.pings.Load()
	m.Connected()
	m.Start(context.Background(), conn)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, pings, conn.pings.Load(), "no attempts may start after Close")
	assert.Equal(t, StateMemory, m.State())
}
