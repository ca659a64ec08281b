package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"finsight/internal/logger"
	"finsight/internal/storage"
	"finsight/internal/storage/storagetest"
)

// TestStore runs the backend suite against a live server when
// FINSIGHT_TEST_MONGO_URI is set. Each subtest gets its own database.
func TestStore(t *testing.T) {
	uri := os.Getenv("FINSIGHT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FINSIGHT_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := Dial(ctx, uri, "unused", nil)
	require.NoError(t, err)
	require.NoError(t, conn.Ping(ctx))
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	n := 0
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		n++
		db := conn.client.Database(fmt.Sprintf("finsight_test_%d_%d", time.Now().UnixNano(), n))
		t.Cleanup(func() { _ = db.Drop(context.Background()) })

		s := New(db)
		require.NoError(t, s.SeedDefaultCategories(context.Background()))
		return s
	})
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		name  string
		input bson.M
		want  bool
	}{
		{name: "bool true", input: bson.M{"isRead": true}, want: true},
		{name: "bool false", input: bson.M{"isRead": false}, want: false},
		{name: "legacy string true", input: bson.M{"isRead": "true"}, want: true},
		{name: "legacy string false", input: bson.M{"isRead": "false"}, want: false},
		{name: "null", input: bson.M{"isRead": nil}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.input)
			require.NoError(t, err)

			var doc insightDoc
			require.NoError(t, bson.Unmarshal(raw, &doc))
			assert.Equal(t, tt.want, bool(doc.IsRead))
		})
	}
}

func TestFlexBool_WritesBoolean(t *testing.T) {
	raw, err := bson.Marshal(insightDoc{IsRead: true})
	require.NoError(t, err)

	val := bson.Raw(raw).Lookup("isRead")
	v, ok := val.BooleanOK()
	require.True(t, ok)
	assert.True(t, v)
}

func TestObjectID(t *testing.T) {
	_, ok := objectID("not-hex")
	assert.False(t, ok)

	_, ok = objectID(storagetest.MissingID)
	assert.True(t, ok)
}

type recordingListener struct {
	connected, disconnected int
}

func (r *recordingListener) Connected()    { r.connected++ }
func (r *recordingListener) Disconnected() { r.disconnected++ }

func TestConnector_ReportsEdgesOnly(t *testing.T) {
	l := &recordingListener{}
	c := &Connector{listener: l, log: logger.Named("mongodb")}

	c.markHealthy(true)
	c.markHealthy(true)
	c.markHealthy(false)
	c.markHealthy(false)
	c.markHealthy(true)

	assert.Equal(t, 2, l.connected)
	assert.Equal(t, 1, l.disconnected)
}
