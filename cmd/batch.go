package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/resumable-sub-translator/internal/config"
	"github.com/MimeLyc/resumable-sub-translator/internal/pipeline"
	"github.com/MimeLyc/resumable-sub-translator/pkg/file"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Translate every caption file in a directory",
	Long: `Walk a directory and translate every VTT and SRT file that does not
already have a target language sibling. Files are processed one at a
time; a failure moves on to the next file and the failed file keeps its
checkpoint for a later re-run.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&translateTarget, "target", "t", "", "target language tag (default: TARGET_LANGUAGE env)")
	batchCmd.Flags().BoolVar(&noResume, "no-resume", false, "ignore existing checkpoints and start over")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := file.FindByExt(dir, ".vtt", ".srt")
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	log.Info("Found %d caption files in %s", len(paths), dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	targetCode := targetLanguageCode(cfg)
	var done, skipped, failed int
	for _, inputPath := range paths {
		if ctx.Err() != nil {
			log.Warn("Interrupted, %d files left unprocessed", len(paths)-done-skipped-failed)
			break
		}

		if reason := batchSkipReason(inputPath, targetCode); reason != "" {
			log.Debug("Skipping %s: %s", inputPath, reason)
			skipped++
			continue
		}

		log.Info("Translating %s", inputPath)
		result, err := runner(inputPath).Run(ctx, pipeline.Config{
			InputPath:      inputPath,
			TargetLanguage: cfg.Translate.TargetLanguage,
			Resume:         !noResume,
		})
		if err != nil {
			log.Error("Failed to translate %s: %v", inputPath, err)
			failed++
			continue
		}
		log.Info("Wrote %s", result.OutputPath)
		done++
	}

	log.Info("Batch finished: %d translated, %d skipped, %d failed", done, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d files failed, their checkpoints are kept for a re-run", failed)
	}
	return nil
}

// batchSkipReason filters out files that are outputs themselves or
// already have a translated sibling.
func batchSkipReason(inputPath, targetCode string) string {
	if file.EmbeddedLanguageCode(inputPath) == targetCode {
		return "already in target language"
	}

	sibling := file.TranslatedPath(inputPath, file.EmbeddedLanguageCode(inputPath), targetCode)
	if _, err := os.Stat(sibling); err == nil {
		return "translated sibling exists"
	}
	return ""
}

func targetLanguageCode(cfg *config.Config) string {
	base, _ := cfg.Translate.TargetLanguage.Base()
	return base.String()
}
