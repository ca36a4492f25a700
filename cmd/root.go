package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "subtrans",
	Short: "Resumable LLM-backed subtitle translator",
	Long: `Subtrans translates VTT and SRT caption files with an LLM backend.
Progress is checkpointed after every batch, so an interrupted or failed
run resumes where it left off instead of re-translating from scratch.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine, the environment may be set directly.
		_ = godotenv.Load()
		log.SetLevel(log.ParseLevel(logLevel))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}
