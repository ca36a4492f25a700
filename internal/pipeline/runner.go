package pipeline

import (
	"context"
	"errors"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/internal/checkpoint"
	"github.com/MimeLyc/resumable-sub-translator/internal/segment"
	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
	"github.com/MimeLyc/resumable-sub-translator/internal/translator"
	"github.com/MimeLyc/resumable-sub-translator/pkg/file"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

// Config describes one translation job.
type Config struct {
	InputPath      string
	OutputPath     string // derived from InputPath when empty
	TargetLanguage language.Tag
	Resume         bool
}

// Result summarizes a completed job.
type Result struct {
	OutputPath       string
	TotalBlocks      int
	TotalBatches     int
	TranslatedBlocks int
	Resumed          bool
}

// Runner is the checkpointed pipeline orchestrator. Batches are processed
// strictly in ascending order; a checkpoint is written only after a batch
// fully resolves, so on-disk state is always a consistent prefix.
type Runner struct {
	reader     subtitle.Reader
	writer     subtitle.Writer
	segmenter  segment.Strategy
	translator translator.BatchTranslator
	store      checkpoint.Store
	now        func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock injects the time source used for checkpoint timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner wires the pipeline stages together.
func NewRunner(
	reader subtitle.Reader,
	writer subtitle.Writer,
	segmenter segment.Strategy,
	batchTranslator translator.BatchTranslator,
	store checkpoint.Store,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		reader:     reader,
		writer:     writer,
		segmenter:  segmenter,
		translator: batchTranslator,
		store:      store,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives one job from its current state to completion. On a
// translation failure the last good checkpoint stays on disk and the
// same invocation can simply be repeated later.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	doc, batches, resumed, err := r.loadOrSegment(cfg)
	if err != nil {
		return nil, err
	}

	totalBlocks := len(doc.Blocks)
	totalBatches := len(batches)
	log.Info("Translation job: %d blocks in %d batches (resumed: %v)", totalBlocks, totalBatches, resumed)

	for i, batch := range batches {
		pendingIdx := make([]int, 0, batch.Size())
		pendingTexts := make([]string, 0, batch.Size())
		for idx := batch.Start; idx < batch.End; idx++ {
			if doc.Blocks[idx].Translated == "" {
				pendingIdx = append(pendingIdx, idx)
				pendingTexts = append(pendingTexts, doc.Blocks[idx].Text)
			}
		}

		if len(pendingTexts) == 0 {
			log.Info("Batch %d/%d already resolved, skipping", i+1, totalBatches)
			continue
		}

		log.Info("Translating batch %d/%d (size: %d, pending: %d)", i+1, totalBatches, batch.Size(), len(pendingTexts))

		translations, err := r.translator.TranslateBatch(ctx, pendingTexts)
		if err != nil {
			log.Error("Batch %d/%d failed: %v", i+1, totalBatches, err)
			log.Error("Progress is checkpointed, re-run the same command to resume")
			return nil, WrapError(err, ErrTranslation, "batch translation failed").
				WithContext("batch", i).
				WithContext("batches", totalBatches)
		}

		for j, idx := range pendingIdx {
			doc.Blocks[idx].Translated = translations[j]
		}

		cp := &checkpoint.Checkpoint{
			Timestamp: r.now(),
			NextBatch: i + 1,
			Batches:   batches,
			Blocks:    doc.Blocks,
			Dialect:   doc.Dialect,
			Language:  languageString(doc.Language),
		}
		if err := r.store.Save(cp); err != nil {
			return nil, WrapError(err, ErrFileWrite, "failed to persist checkpoint").
				WithContext("batch", i)
		}

		translated := cp.TranslatedCount()
		log.Info("Progress: %d/%d blocks (%d%%)", translated, totalBlocks, percent(translated, totalBlocks))
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = file.TranslatedPath(cfg.InputPath, languageString(doc.Language), languageString(cfg.TargetLanguage))
	}

	outDoc := &subtitle.Document{
		Blocks:   Assemble(doc.Blocks),
		Dialect:  doc.Dialect,
		Language: cfg.TargetLanguage,
	}
	if err := r.writer.Write(outputPath, outDoc); err != nil {
		return nil, WrapError(err, ErrFileWrite, "failed to write output file").
			WithContext("path", outputPath)
	}

	// Checkpoint removal is the success commit point: a crash between the
	// output write and here only causes a harmless re-run.
	if err := r.store.Clear(); err != nil {
		log.Warn("Failed to remove checkpoint after success: %v", err)
	}

	translated := 0
	for _, block := range doc.Blocks {
		if block.Translated != "" {
			translated++
		}
	}

	log.Info("Translation finished: %s (%d blocks, %d batches)", outputPath, totalBlocks, totalBatches)

	return &Result{
		OutputPath:       outputPath,
		TotalBlocks:      totalBlocks,
		TotalBatches:     totalBatches,
		TranslatedBlocks: translated,
		Resumed:          resumed,
	}, nil
}

// loadOrSegment restores a checkpointed job, or parses and segments the
// source document once. The batch list is fixed for the job's lifetime.
func (r *Runner) loadOrSegment(cfg Config) (*subtitle.Document, []segment.Batch, bool, error) {
	if cfg.Resume {
		cp, err := r.store.Load()
		if err != nil {
			if errors.Is(err, checkpoint.ErrCorrupt) {
				// Distinct from a normal fresh run: the operator is told
				// that checkpointed progress exists but is being discarded.
				log.Error("Checkpoint is corrupt, discarding prior progress: %v", err)
			} else {
				return nil, nil, false, WrapError(err, ErrCheckpoint, "failed to load checkpoint")
			}
		}
		if cp != nil {
			log.Info("Resuming from checkpoint written at %s (%d/%d blocks translated)",
				cp.Timestamp.Format(time.RFC3339), cp.TranslatedCount(), len(cp.Blocks))
			doc := &subtitle.Document{
				Blocks:   cp.Blocks,
				Dialect:  cp.Dialect,
				Language: language.Make(cp.Language),
			}
			return doc, cp.Batches, true, nil
		}
	}

	doc, err := r.reader.Read(cfg.InputPath)
	if err != nil {
		if errors.Is(err, subtitle.ErrUnrecognizedFormat) {
			return nil, nil, false, WrapError(err, ErrFormat, "unrecognized caption format").
				WithContext("path", cfg.InputPath)
		}
		return nil, nil, false, WrapError(err, ErrFileRead, "failed to read caption file").
			WithContext("path", cfg.InputPath)
	}
	if len(doc.Blocks) == 0 {
		return nil, nil, false, NewError(ErrParse, "no caption content found").
			WithContext("path", cfg.InputPath)
	}

	batches := r.segmenter.Segment(doc.Blocks)
	log.Info("Segmented %d blocks into %d batches", len(doc.Blocks), len(batches))
	return doc, batches, false, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}

func languageString(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
