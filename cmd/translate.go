package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/internal/checkpoint"
	"github.com/MimeLyc/resumable-sub-translator/internal/config"
	"github.com/MimeLyc/resumable-sub-translator/internal/llm"
	"github.com/MimeLyc/resumable-sub-translator/internal/pipeline"
	"github.com/MimeLyc/resumable-sub-translator/internal/segment"
	"github.com/MimeLyc/resumable-sub-translator/internal/service"
	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
	"github.com/MimeLyc/resumable-sub-translator/internal/translator"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var translateCmd = &cobra.Command{
	Use:   "translate <caption-file>",
	Short: "Translate one VTT or SRT caption file",
	Long: `Translate a single caption file into the target language. The output
keeps the input's dialect and timing. A checkpoint is written after every
batch; re-running the same command resumes an interrupted job.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

var (
	translateOutput string
	translateTarget string
	noResume        bool
)

func init() {
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "output path (default: <input>.<target>.<ext>)")
	translateCmd.Flags().StringVarP(&translateTarget, "target", "t", "", "target language tag (default: TARGET_LANGUAGE env)")
	translateCmd.Flags().BoolVar(&noResume, "no-resume", false, "ignore an existing checkpoint and start over")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	result, err := runner(inputPath).Run(ctx, pipeline.Config{
		InputPath:      inputPath,
		OutputPath:     translateOutput,
		TargetLanguage: cfg.Translate.TargetLanguage,
		Resume:         !noResume,
	})
	if err != nil {
		if transErr, ok := err.(*pipeline.TransError); ok {
			log.Error("%s", transErr.Type.Advice())
		}
		return err
	}

	log.Info("Done: %s", result.OutputPath)
	return nil
}

// loadConfig resolves configuration from the environment, letting the
// --target flag override the target language.
func loadConfig() (*config.Config, error) {
	opts := make([]config.Option, 0, 1)
	if translateTarget != "" {
		tag := language.Make(translateTarget)
		if tag == language.Und {
			return nil, fmt.Errorf("unrecognized target language: %s", translateTarget)
		}
		opts = append(opts, config.WithTargetLanguage(tag))
	}
	return config.NewFromEnv(opts...)
}

// buildRunner wires the pipeline stages once and yields a per-input
// runner factory, so batch mode gets one checkpoint store per file.
func buildRunner(cfg *config.Config) (func(inputPath string) *pipeline.Runner, error) {
	client, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		return nil, err
	}

	segmenter, err := segment.NewNatural(cfg.Translate.BatchTarget, cfg.Translate.BatchMin, cfg.Translate.BatchMax)
	if err != nil {
		return nil, err
	}

	trans := translator.NewLLMTranslator(
		client,
		language.Und,
		cfg.Translate.TargetLanguage,
		translator.WithMaxAttempts(cfg.Translate.MaxAttempts),
		translator.WithRetryDelay(cfg.Translate.RetryDelay()),
	)

	return func(inputPath string) *pipeline.Runner {
		store := checkpoint.NewFileStore(service.CheckpointPath(cfg.Translate, inputPath))
		return pipeline.NewRunner(subtitle.NewReader(), subtitle.NewWriter(), segmenter, trans, store)
	}, nil
}
