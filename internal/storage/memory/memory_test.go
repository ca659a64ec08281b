package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/models"
	"finsight/internal/storage"
	"finsight/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestStore_Name(t *testing.T) {
	assert.Equal(t, "memory", New().Name())
}

func TestStore_SeedsIndependentInstances(t *testing.T) {
	a, b := New(), New()
	ctx := context.Background()

	_, err := a.CreateCategory(ctx, models.Category{Name: "Extra", Color: "#000000"})
	require.NoError(t, err)

	catsA, _ := a.GetCategories(ctx)
	catsB, _ := b.GetCategories(ctx)
	assert.Len(t, catsA, 9)
	assert.Len(t, catsB, 8)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, models.User{Username: "alice"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateExpense(ctx, models.Expense{UserID: u.ID, Amount: 1, Date: "2024-03-01"})
			assert.NoError(t, err)
			_, err = s.GetExpenseStats(ctx, u.ID, "2024-03-01", "2024-03-31")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := s.GetExpenseStats(ctx, u.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.InDelta(t, 50, stats.TotalSpent, 1e-9)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, models.User{Username: "alice", FirstName: "A"})
	require.NoError(t, err)

	u.FirstName = "mutated"
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FirstName)
}
