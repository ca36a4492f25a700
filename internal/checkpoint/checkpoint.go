package checkpoint

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/MimeLyc/resumable-sub-translator/internal/segment"
	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
)

// Checkpoint is the durable snapshot of a translation job: the document
// with partial translations, the fixed batch list, and the index of the
// next unresolved batch. It is the pipeline's only persistent state.
type Checkpoint struct {
	Timestamp time.Time        `json:"timestamp"`
	NextBatch int              `json:"next_batch"`
	Batches   []segment.Batch  `json:"batches"`
	Blocks    []subtitle.Block `json:"blocks"`
	Dialect   subtitle.Dialect `json:"dialect"`
	Language  string           `json:"language,omitempty"`
}

// TranslatedCount returns how many blocks already carry a translation.
func (c *Checkpoint) TranslatedCount() int {
	count := 0
	for _, block := range c.Blocks {
		if block.Translated != "" {
			count++
		}
	}
	return count
}

// ErrCorrupt marks a checkpoint file that exists but cannot be decoded.
// Callers treat it as absence, losing prior progress; the distinguishable
// error lets them warn the operator instead of silently restarting.
var ErrCorrupt = errors.New("checkpoint file is corrupt")

// Store persists checkpoints. Save must flush to stable storage before
// returning; a checkpoint on disk always represents a consistent prefix
// of fully translated batches.
type Store interface {
	// Load returns the stored checkpoint, nil if none exists, or an
	// error wrapping ErrCorrupt if one exists but cannot be read.
	Load() (*Checkpoint, error)
	Save(cp *Checkpoint) error
	Clear() error
}

// PathFor derives the checkpoint file path for an input caption file.
func PathFor(progressDir, inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(progressDir, stem+".progress.json")
}
