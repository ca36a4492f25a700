package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
)

// DefaultWriter is the default caption file writer.
type DefaultWriter struct{}

// NewWriter creates a new caption file writer.
func NewWriter() Writer {
	return &DefaultWriter{}
}

// Write serializes the document in its dialect. Each block is written with
// its translated text when present, falling back to the original text.
func (w *DefaultWriter) Write(path string, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("caption document is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer := bufio.NewWriter(f)
	defer writer.Flush()

	switch doc.Dialect {
	case DialectVTT:
		writeVTT(writer, doc)
	case DialectSRT:
		writeSRT(writer, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnrecognizedFormat, doc.Dialect)
	}

	return nil
}

func writeVTT(w *bufio.Writer, doc *Document) {
	fmt.Fprintf(w, "WEBVTT\nKind: captions\nLanguage: %s\n\n", languageCode(doc.Language))

	for _, block := range doc.Blocks {
		fmt.Fprintf(w, "%s --> %s\n", block.Start.Format('.'), block.End.Format('.'))
		fmt.Fprintf(w, "%s\n\n", block.DisplayText())
	}
}

func writeSRT(w *bufio.Writer, doc *Document) {
	for i, block := range doc.Blocks {
		fmt.Fprintf(w, "%d\n", i+1)
		fmt.Fprintf(w, "%s --> %s\n", block.Start.Format(','), block.End.Format(','))
		fmt.Fprintf(w, "%s\n\n", block.DisplayText())
	}
}

func languageCode(tag language.Tag) string {
	if tag == language.Und {
		return "und"
	}
	base, _ := tag.Base()
	return base.String()
}
