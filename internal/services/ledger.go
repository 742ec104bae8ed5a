package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/storage"
)

// ledgerKey is the fixed storage key for the single usage ledger blob
const ledgerKey = "usage:ledger"

// Ledger tracks cumulative demo usage (cost and uploaded documents) over a
// rolling window. Rollover is lazy and read-triggered: any access past
// ResetAt zeroes the counters and advances the window; there is no
// background timer. The ledger outlives sessions; session reset never
// touches it.
type Ledger struct {
	mu     sync.Mutex
	store  storage.Store
	window time.Duration
	record models.UsageRecord

	// now is swappable for tests
	now func() time.Time
}

// NewLedger loads the persisted ledger or starts a fresh window
func NewLedger(store storage.Store, window time.Duration) (*Ledger, error) {
	l := &Ledger{
		store:  store,
		window: window,
		now:    time.Now,
	}

	data, ok, err := store.Get(ledgerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage ledger: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &l.record); err != nil {
			logger.Warnf("discarding corrupt usage ledger: %v", err)
			ok = false
		}
	}
	if !ok {
		l.resetLocked()
	}

	return l, nil
}

// Stats returns the current window's usage, rolling the window over first
// if it has expired
func (l *Ledger) Stats() models.UsageStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeRolloverLocked()
	return models.UsageStats{
		Cost:              l.record.Cost,
		DocumentsUploaded: l.record.DocumentsUploaded,
		ResetAt:           l.record.ResetAt,
	}
}

// RecordCost adds a spend to the current window
func (l *Ledger) RecordCost(delta float64) error {
	if delta <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeRolloverLocked()
	l.record.Cost += delta
	return l.persistLocked()
}

// RecordDocument counts one uploaded document against the current window
func (l *Ledger) RecordDocument() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeRolloverLocked()
	l.record.DocumentsUploaded++
	return l.persistLocked()
}

func (l *Ledger) maybeRolloverLocked() {
	if l.now().Before(l.record.ResetAt) {
		return
	}
	logger.Infof("usage window expired, resetting ledger (was cost=%.4f docs=%d)",
		l.record.Cost, l.record.DocumentsUploaded)
	l.resetLocked()
}

func (l *Ledger) resetLocked() {
	now := l.now()
	l.record = models.UsageRecord{
		Cost:              0,
		DocumentsUploaded: 0,
		StartedAt:         now,
		ResetAt:           now.Add(l.window),
	}
	if err := l.persistLocked(); err != nil {
		logger.Errorf("failed to persist usage ledger reset: %v", err)
	}
}

func (l *Ledger) persistLocked() error {
	data, err := json.Marshal(l.record)
	if err != nil {
		return fmt.Errorf("failed to marshal usage ledger: %w", err)
	}
	if err := l.store.Set(ledgerKey, data); err != nil {
		return fmt.Errorf("failed to persist usage ledger: %w", err)
	}
	return nil
}
