package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/resumable-sub-translator/internal/jobs"
	"github.com/MimeLyc/resumable-sub-translator/internal/llm"
	"github.com/MimeLyc/resumable-sub-translator/internal/persistence"
	"github.com/MimeLyc/resumable-sub-translator/internal/service"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled library translation daemon",
	Long: `Watch the configured caption libraries on a cron schedule and translate
new caption files as they appear. Jobs are persisted in SQLite, so
pending and interrupted work survives a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := persistence.NewSQLiteStore(cfg.Jobs.DBPath, cfg.Translate.ProgressDir)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		return err
	}

	executor, err := service.NewExecutor(*cfg, client)
	if err != nil {
		return err
	}

	queue := jobs.NewQueue(cfg.Jobs.Workers, store)
	queue.Start(executor)
	defer queue.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cron.New()
	svc := service.NewTransService(*cfg, queue, c)
	if err := svc.Schedule(ctx); err != nil {
		return err
	}

	// Catch up immediately instead of waiting for the first trigger.
	svc.ScanAll(ctx)

	c.Start()
	log.Info("Daemon running with %d workers, press Ctrl-C to stop", cfg.Jobs.Workers)

	<-ctx.Done()
	log.Info("Shutting down")
	<-c.Stop().Done()
	return nil
}
