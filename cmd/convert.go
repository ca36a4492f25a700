package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
	"github.com/MimeLyc/resumable-sub-translator/pkg/file"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var convertCmd = &cobra.Command{
	Use:   "convert <caption-file>",
	Short: "Convert a caption file between VTT and SRT",
	Long: `Reparse a caption file and serialize it in the other dialect. Timing
and text are preserved; only the structural envelope changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var convertOutput string

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output path (default: <input> with swapped extension)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}

	doc, err := subtitle.NewReader().Read(inputPath)
	if err != nil {
		return err
	}

	var target subtitle.Dialect
	switch doc.Dialect {
	case subtitle.DialectVTT:
		target = subtitle.DialectSRT
	case subtitle.DialectSRT:
		target = subtitle.DialectVTT
	default:
		return fmt.Errorf("%w: %q", subtitle.ErrUnrecognizedFormat, doc.Dialect)
	}

	outputPath := convertOutput
	if outputPath == "" {
		outputPath = file.ReplaceExt(inputPath, string(target))
	}

	doc.Dialect = target
	if err := subtitle.NewWriter().Write(outputPath, doc); err != nil {
		return err
	}

	log.Info("Converted %s -> %s", inputPath, outputPath)
	return nil
}
