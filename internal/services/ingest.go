package services

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/models"
)

// IncomingFile is one file handed to the ingest pipeline
type IncomingFile struct {
	Name string
	Data []byte
}

// RejectedFile records why a file in a batch was not ingested
type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchResult summarizes a sequential batch ingest
type BatchResult struct {
	Added    []models.Document `json:"added"`
	Rejected []RejectedFile    `json:"rejected"`
}

// Ingest feeds uploaded files through limit checks, text extraction and
// classification into the session store. Batches are processed strictly
// sequentially so the document-count check runs against the ledger state
// left by the previous file; a batch crossing the cap adds exactly the
// allowed prefix.
type Ingest struct {
	sessions *SessionService
	ledger   *Ledger
	limits   *LimitEvaluator
}

// NewIngest creates the ingest pipeline
func NewIngest(sessions *SessionService, ledger *Ledger, limits *LimitEvaluator) *Ingest {
	return &Ingest{sessions: sessions, ledger: ledger, limits: limits}
}

// ProcessBatch ingests files one by one into the session. Limit denials are
// recorded per file and never abort the rest of the batch; extraction
// failures add the document in the error state.
func (in *Ingest) ProcessBatch(sessionID string, files []IncomingFile) (*BatchResult, bool) {
	if _, ok := in.sessions.Get(sessionID); !ok {
		return nil, false
	}

	result := &BatchResult{}
	for _, f := range files {
		decision := in.limits.CheckUpload(int64(len(f.Data)))
		if !decision.Allowed {
			result.Rejected = append(result.Rejected, RejectedFile{Name: f.Name, Reason: decision.Reason})
			continue
		}

		doc := models.Document{
			ID:         uuid.NewString(),
			Name:       f.Name,
			Size:       int64(len(f.Data)),
			Status:     models.DocumentProcessing,
			UploadedAt: time.Now(),
		}

		text, err := ExtractText(f.Name, f.Data)
		if err != nil {
			logger.Warnf("text extraction failed for %s: %v", f.Name, err)
			doc.Status = models.DocumentError
			doc.Error = err.Error()
			doc.Type = Classify(f.Name, "")
		} else {
			doc.Status = models.DocumentReady
			doc.Text = text
			doc.Type = Classify(f.Name, text)
		}

		if _, ok := in.sessions.AddDocument(sessionID, doc); !ok {
			return result, false
		}
		if err := in.ledger.RecordDocument(); err != nil {
			logger.Errorf("failed to record document upload: %v", err)
		}
		result.Added = append(result.Added, doc)
	}
	return result, true
}

// Watch ingests files dropped under dir. Files must be placed in a
// subdirectory named after the target session id:
//
//	<dir>/<session-id>/notes.txt
//
// It blocks until ctx is cancelled; run it via recovery.SafeGo.
func (in *Ingest) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	// Watch existing per-session subdirectories too
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				_ = watcher.Add(filepath.Join(dir, e.Name()))
			}
		}
	}

	logger.Infof("watching %s for dropped documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				// New session drop folder
				_ = watcher.Add(event.Name)
				continue
			}
			in.ingestDropped(dir, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watch error: %v", err)
		}
	}
}

// ingestDropped routes one dropped file into the session named by its
// parent directory, then removes it so writes are not double-processed
func (in *Ingest) ingestDropped(root, path string) {
	sessionID := filepath.Base(filepath.Dir(path))
	if sessionID == "." || sessionID == filepath.Base(root) {
		logger.Debugf("ignoring %s: not inside a session folder", path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("failed to read dropped file %s: %v", path, err)
		return
	}

	result, ok := in.ProcessBatch(sessionID, []IncomingFile{{Name: filepath.Base(path), Data: data}})
	if !ok {
		logger.Warnf("dropped file %s targets unknown session %s", path, sessionID)
		return
	}
	for _, r := range result.Rejected {
		logger.Warnf("dropped file %s rejected: %s", r.Name, r.Reason)
	}
	if len(result.Added) > 0 {
		logger.Infof("ingested %s into session %s", filepath.Base(path), sessionID)
		_ = os.Remove(path)
	}
}
