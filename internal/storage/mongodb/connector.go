package mongodb

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"finsight/internal/logger"
	"finsight/internal/storage"
)

// Listener receives connection transitions observed by the driver.
type Listener interface {
	Connected()
	Disconnected()
}

// Connector owns the driver client. It implements storage.Connector for the
// Manager's poll loop and forwards heartbeat transitions to a Listener.
type Connector struct {
	client   *mongo.Client
	dbName   string
	listener Listener
	healthy  atomic.Bool
	log      *zap.SugaredLogger
}

var _ storage.Connector = (*Connector)(nil)

// Dial creates the client. The driver connects in the background, so Dial
// succeeds even when the server is down; only a malformed URI fails.
func Dial(ctx context.Context, uri, dbName string, listener Listener) (*Connector, error) {
	c := &Connector{
		dbName:   dbName,
		listener: listener,
		log:      logger.Named("mongodb"),
	}

	monitor := &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) { c.markHealthy(true) },
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			c.log.Debugw("heartbeat failed", "connection_id", e.ConnectionID, "error", e.Failure)
			c.markHealthy(false)
		},
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerMonitor(monitor))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	c.client = client
	return c, nil
}

// markHealthy reports edges only, so a steady stream of heartbeats does not
// repeatedly notify the listener.
func (c *Connector) markHealthy(ok bool) {
	if c.healthy.Swap(ok) == ok || c.listener == nil {
		return
	}
	if ok {
		c.log.Infow("document database connection established")
		c.listener.Connected()
		return
	}
	c.log.Warnw("document database connection lost")
	c.listener.Disconnected()
}

// Ping implements storage.Connector.
func (c *Connector) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Open implements storage.Connector. It seeds the default categories into an
// empty database before handing out the backend.
func (c *Connector) Open(ctx context.Context) (storage.Storage, error) {
	store := New(c.client.Database(c.dbName))
	if err := store.SeedDefaultCategories(ctx); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return store, nil
}

// Database exposes the underlying database handle.
func (c *Connector) Database() *mongo.Database {
	return c.client.Database(c.dbName)
}

// Close disconnects the client.
func (c *Connector) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
