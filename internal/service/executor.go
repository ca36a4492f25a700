package service

import (
	"context"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/internal/checkpoint"
	"github.com/MimeLyc/resumable-sub-translator/internal/config"
	"github.com/MimeLyc/resumable-sub-translator/internal/jobs"
	"github.com/MimeLyc/resumable-sub-translator/internal/pipeline"
	"github.com/MimeLyc/resumable-sub-translator/internal/segment"
	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
	"github.com/MimeLyc/resumable-sub-translator/internal/translator"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

// NewExecutor builds the worker function that runs one translation job
// through the checkpointed pipeline. Jobs always run with resume enabled,
// so a failed job picks up its own checkpoint on the next attempt.
func NewExecutor(cfg config.Config, client translator.ChatClient) (jobs.Executor, error) {
	segmenter, err := segment.NewNatural(cfg.Translate.BatchTarget, cfg.Translate.BatchMin, cfg.Translate.BatchMax)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, job *jobs.Job) error {
		target := language.Make(job.Payload.TargetLanguage)
		trans := translator.NewLLMTranslator(
			client,
			language.Und,
			target,
			translator.WithMaxAttempts(cfg.Translate.MaxAttempts),
			translator.WithRetryDelay(cfg.Translate.RetryDelay()),
		)

		store := checkpoint.NewFileStore(CheckpointPath(cfg.Translate, job.Payload.InputPath))
		runner := pipeline.NewRunner(subtitle.NewReader(), subtitle.NewWriter(), segmenter, trans, store)

		log.Info("Job %s: translating %s", job.ID, job.Payload.InputPath)
		result, err := runner.Run(ctx, pipeline.Config{
			InputPath:      job.Payload.InputPath,
			OutputPath:     job.Payload.OutputPath,
			TargetLanguage: target,
			Resume:         true,
		})
		if err != nil {
			return err
		}
		log.Info("Job %s: wrote %s (%d blocks)", job.ID, result.OutputPath, result.TotalBlocks)
		return nil
	}, nil
}

// CheckpointPath places a job's checkpoint under the configured progress
// directory, or next to the input file when none is configured.
func CheckpointPath(cfg config.TranslateConfig, inputPath string) string {
	dir := cfg.ProgressDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return checkpoint.PathFor(dir, inputPath)
}
