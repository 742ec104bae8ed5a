package services

import (
	"fmt"

	"github.com/dmalone/crossprep/internal/config"
	"github.com/dmalone/crossprep/internal/models"
)

// LimitEvaluator compares proposed operations against the configured demo
// ceilings. Checks are independent and always evaluated in a fixed order
// (file size, then document count, then price) so the surfaced denial
// reason is deterministic. The order is policy, not an optimization.
type LimitEvaluator struct {
	cfg    *config.Config
	ledger *Ledger
}

// NewLimitEvaluator creates an evaluator over the shared ledger
func NewLimitEvaluator(cfg *config.Config, ledger *Ledger) *LimitEvaluator {
	return &LimitEvaluator{cfg: cfg, ledger: ledger}
}

// CheckFileSize denies iff size > MaxFileSize. Independent of ledger state.
func (e *LimitEvaluator) CheckFileSize(size int64) models.LimitDecision {
	d := models.LimitDecision{
		CurrentUsage:   float64(size),
		Limit:          float64(e.cfg.MaxFileSize),
		RemainingUsage: float64(e.cfg.MaxFileSize - size),
	}
	if size > e.cfg.MaxFileSize {
		d.Reason = fmt.Sprintf("file exceeds the %d byte size limit", e.cfg.MaxFileSize)
		d.RemainingUsage = 0
		return d
	}
	d.Allowed = true
	return d
}

// CheckDocuments denies iff current + n > MaxDocuments
func (e *LimitEvaluator) CheckDocuments(n int) models.LimitDecision {
	current := e.ledger.Stats().DocumentsUploaded
	d := models.LimitDecision{
		CurrentUsage:   float64(current),
		Limit:          float64(e.cfg.MaxDocuments),
		RemainingUsage: float64(e.cfg.MaxDocuments - current),
	}
	if d.RemainingUsage < 0 {
		d.RemainingUsage = 0
	}
	if current+n > e.cfg.MaxDocuments {
		d.Reason = fmt.Sprintf("document limit reached (%d of %d this session window)",
			current, e.cfg.MaxDocuments)
		return d
	}
	d.Allowed = true
	return d
}

// CheckCost denies iff current cost + delta > SessionPriceLimit
func (e *LimitEvaluator) CheckCost(delta float64) models.LimitDecision {
	current := e.ledger.Stats().Cost
	d := models.LimitDecision{
		CurrentUsage:   current,
		Limit:          e.cfg.SessionPriceLimit,
		RemainingUsage: e.cfg.SessionPriceLimit - current,
	}
	if d.RemainingUsage < 0 {
		d.RemainingUsage = 0
	}
	if current+delta > e.cfg.SessionPriceLimit {
		d.Reason = fmt.Sprintf("session price limit of $%.2f reached", e.cfg.SessionPriceLimit)
		return d
	}
	d.Allowed = true
	return d
}

// CheckUpload evaluates a single incoming file: size first, then document
// count. The first failing check's reason is the one surfaced.
func (e *LimitEvaluator) CheckUpload(size int64) models.LimitDecision {
	if d := e.CheckFileSize(size); !d.Allowed {
		return d
	}
	return e.CheckDocuments(1)
}
