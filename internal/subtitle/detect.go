package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// ErrUnrecognizedFormat is returned when a file matches neither supported
// dialect by content nor by extension.
var ErrUnrecognizedFormat = errors.New("unrecognized caption format")

// Detect decides the dialect of a caption file. The magic marker at the
// start of the content wins; the path extension is the fallback.
func Detect(path string) (Dialect, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open caption file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var firstLine string
	for scanner.Scan() {
		firstLine = strings.TrimSpace(scanner.Text())
		if firstLine != "" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read caption file: %w", err)
	}

	if strings.HasPrefix(firstLine, "WEBVTT") {
		return DialectVTT, nil
	}
	if isAllDigits(firstLine) && firstLine != "" {
		return DialectSRT, nil
	}

	switch {
	case strings.HasSuffix(strings.ToLower(path), ".vtt"):
		return DialectVTT, nil
	case strings.HasSuffix(strings.ToLower(path), ".srt"):
		return DialectSRT, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnrecognizedFormat, path)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
