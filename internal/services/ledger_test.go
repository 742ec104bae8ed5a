package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmalone/crossprep/internal/storage"
)

func newTestLedger(t *testing.T, window time.Duration) (*Ledger, *time.Time) {
	t.Helper()

	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ledger, err := NewLedger(storage.NewMemoryStore(), window)
	require.NoError(t, err)
	ledger.now = func() time.Time { return current }
	// Re-anchor the window to the fake clock
	ledger.mu.Lock()
	ledger.resetLocked()
	ledger.mu.Unlock()
	return ledger, &current
}

func TestLedger_StartsEmpty(t *testing.T) {
	ledger, _ := newTestLedger(t, 24*time.Hour)

	stats := ledger.Stats()
	assert.Zero(t, stats.Cost)
	assert.Zero(t, stats.DocumentsUploaded)
}

func TestLedger_AccumulatesWithinWindow(t *testing.T) {
	ledger, _ := newTestLedger(t, 24*time.Hour)

	require.NoError(t, ledger.RecordCost(0.10))
	require.NoError(t, ledger.RecordCost(0.05))
	require.NoError(t, ledger.RecordDocument())
	require.NoError(t, ledger.RecordDocument())

	stats := ledger.Stats()
	assert.InDelta(t, 0.15, stats.Cost, 1e-9)
	assert.Equal(t, 2, stats.DocumentsUploaded)
}

func TestLedger_IgnoresNonPositiveCost(t *testing.T) {
	ledger, _ := newTestLedger(t, 24*time.Hour)

	require.NoError(t, ledger.RecordCost(0))
	require.NoError(t, ledger.RecordCost(-1))

	assert.Zero(t, ledger.Stats().Cost)
}

func TestLedger_LazyRollover(t *testing.T) {
	ledger, clock := newTestLedger(t, 24*time.Hour)

	require.NoError(t, ledger.RecordCost(0.40))
	require.NoError(t, ledger.RecordDocument())

	// One minute before expiry nothing changes
	*clock = clock.Add(24*time.Hour - time.Minute)
	assert.InDelta(t, 0.40, ledger.Stats().Cost, 1e-9)

	// The first read past expiry resets the window
	*clock = clock.Add(2 * time.Minute)
	stats := ledger.Stats()
	assert.Zero(t, stats.Cost)
	assert.Zero(t, stats.DocumentsUploaded)
	assert.Equal(t, clock.Add(24*time.Hour), stats.ResetAt)
}

func TestLedger_RolloverOnWrite(t *testing.T) {
	ledger, clock := newTestLedger(t, time.Hour)

	require.NoError(t, ledger.RecordCost(0.30))
	*clock = clock.Add(2 * time.Hour)

	// A write after expiry lands in the fresh window
	require.NoError(t, ledger.RecordCost(0.01))
	assert.InDelta(t, 0.01, ledger.Stats().Cost, 1e-9)
}

func TestLedger_SurvivesRestart(t *testing.T) {
	store := storage.NewMemoryStore()

	ledger, err := NewLedger(store, 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, ledger.RecordCost(0.25))
	require.NoError(t, ledger.RecordDocument())

	reloaded, err := NewLedger(store, 24*time.Hour)
	require.NoError(t, err)

	stats := reloaded.Stats()
	assert.InDelta(t, 0.25, stats.Cost, 1e-9)
	assert.Equal(t, 1, stats.DocumentsUploaded)
}

func TestLedger_DiscardsCorruptRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ledgerKey, []byte("not json")))

	ledger, err := NewLedger(store, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, ledger.Stats().Cost)
}
