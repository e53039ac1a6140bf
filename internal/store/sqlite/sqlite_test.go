package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kasir.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestLoadBeforeFirstSave(t *testing.T) {
	st, _ := openTestStore(t)

	_, err := st.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	soldAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	state := domain.Seed()
	state.Sales = []domain.SaleInvoice{{
		ID:       "INV-1",
		Date:     soldAt,
		Subtotal: 20000,
		Total:    20000,
		Payment:  25000,
		Method:   domain.PaymentCash,
		Items:    []domain.SaleLine{{ID: "m1", Name: "Ayam Goreng", Price: 10000, Qty: 2}},
	}}
	state.StockHistory = []domain.StockEntry{{
		ID: "SH-1", Date: soldAt, MenuID: "m1",
		MenuName: "Ayam Goreng", Type: domain.StockOut, Qty: 2, Note: "Terjual (INV-1)",
	}}

	require.NoError(t, st.Save(ctx, state))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Menu, loaded.Menu)
	assert.Equal(t, state.Sales, loaded.Sales)
	assert.Equal(t, state.StockHistory, loaded.StockHistory)
}

func TestSaveReplacesWholesale(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	first := domain.Seed()
	require.NoError(t, st.Save(ctx, first))

	second := domain.Seed()
	second.Menu = second.Menu[:2]
	second.Pending = []domain.PendingOrder{{ID: "P-1", Note: "meja 4"}}
	require.NoError(t, st.Save(ctx, second))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Menu, 2, "old record must not survive a save")
	assert.Len(t, loaded.Pending, 1)
}

func TestEmptyStateIsDistinctFromAbsent(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, domain.AppState{}))

	loaded, err := st.Load(ctx)
	require.NoError(t, err, "a saved empty state is present, not absent")
	assert.Empty(t, loaded.Menu)
}

func TestRapidConsecutiveSaves(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	state := domain.Seed()
	for i := 0; i < 50; i++ {
		state.Menu[0].Stock = i
		require.NoError(t, st.Save(ctx, state))
	}

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 49, loaded.Menu[0].Stock)
}

func TestClearRemovesRecord(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, domain.Seed()))
	require.NoError(t, st.Clear(ctx))

	_, err := st.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Clearing an already empty store is not an error.
	require.NoError(t, st.Clear(ctx))
}

func TestStateSurvivesReopen(t *testing.T) {
	st, path := openTestStore(t)
	ctx := context.Background()

	state := domain.Seed()
	state.Sales = []domain.SaleInvoice{{ID: "INV-persist", Total: 10000}}
	require.NoError(t, st.Save(ctx, state))
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Sales, 1)
	assert.Equal(t, "INV-persist", loaded.Sales[0].ID)
}

func TestConcurrentSavesDoNotCorrupt(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	done := make(chan error, 4)
	for g := 0; g < 4; g++ {
		go func(g int) {
			state := domain.Seed()
			for i := 0; i < 10; i++ {
				state.Menu[0].Stock = g*100 + i
				if err := st.Save(ctx, state); err != nil {
					done <- fmt.Errorf("writer %d: %w", g, err)
					return
				}
			}
			done <- nil
		}(g)
	}
	for g := 0; g < 4; g++ {
		require.NoError(t, <-done)
	}

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Menu, 6, "last writer wins with an intact record")
}
