package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	nbspPattern = regexp.MustCompile(`&nbsp;`)

	vttTimePattern = regexp.MustCompile(`(\d+:\d+:\d+\.\d+)\s*-->\s*(\d+:\d+:\d+\.\d+)`)
	srtTimePattern = regexp.MustCompile(`(\d+:\d+:\d+,\d+)\s*-->\s*(\d+:\d+:\d+,\d+)`)

	timecodePattern = regexp.MustCompile(`^(\d+):(\d+):(\d+)[.,](\d+)$`)
)

// DefaultReader is the default caption file reader. It auto-detects the
// dialect and records it on the returned document.
type DefaultReader struct{}

// NewReader creates a new caption file reader.
func NewReader() Reader {
	return &DefaultReader{}
}

// Read parses a caption file into an ordered block sequence. Cues whose
// timestamp line does not match the dialect pattern are skipped, not fatal.
func (r *DefaultReader) Read(path string) (*Document, error) {
	dialect, err := Detect(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption file: %w", err)
	}

	var blocks []Block
	switch dialect {
	case DialectVTT:
		blocks = parseVTT(string(content))
	case DialectSRT:
		blocks = parseSRT(string(content))
	}

	return &Document{
		Blocks:   blocks,
		Dialect:  dialect,
		Language: detectLanguage(blocks),
	}, nil
}

func parseVTT(content string) []Block {
	lines := strings.Split(content, "\n")
	var blocks []Block

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if line == "" ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") {
			i++
			continue
		}

		if !strings.Contains(line, "-->") {
			i++
			continue
		}

		matches := vttTimePattern.FindStringSubmatch(line)
		if matches == nil {
			log.Debug("Skipping cue with unparseable timestamp line: %s", line)
			i++
			continue
		}

		start, startErr := ParseTimecode(matches[1])
		end, endErr := ParseTimecode(matches[2])
		if startErr != nil || endErr != nil {
			log.Debug("Skipping cue with invalid timecode: %s", line)
			i++
			continue
		}

		var textLines []string
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" && !strings.Contains(lines[i], "-->") {
			text := cleanCueText(lines[i])
			if text != "" {
				textLines = append(textLines, text)
			}
			i++
		}

		if len(textLines) > 0 {
			blocks = append(blocks, Block{
				Start: start,
				End:   end,
				Text:  strings.Join(textLines, " "),
			})
		}
	}

	return blocks
}

func parseSRT(content string) []Block {
	lines := strings.Split(content, "\n")
	var blocks []Block

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if !isAllDigits(line) {
			i++
			continue
		}
		i++

		if i >= len(lines) || !strings.Contains(lines[i], "-->") {
			continue
		}

		matches := srtTimePattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if matches == nil {
			log.Debug("Skipping cue with unparseable timestamp line: %s", lines[i])
			i++
			continue
		}

		start, startErr := ParseTimecode(matches[1])
		end, endErr := ParseTimecode(matches[2])
		if startErr != nil || endErr != nil {
			log.Debug("Skipping cue with invalid timecode: %s", lines[i])
			i++
			continue
		}

		var textLines []string
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text := cleanCueText(lines[i])
			if text != "" {
				textLines = append(textLines, text)
			}
			i++
		}

		if len(textLines) > 0 {
			blocks = append(blocks, Block{
				Start: start,
				End:   end,
				Text:  strings.Join(textLines, " "),
			})
		}
	}

	return blocks
}

// cleanCueText strips inline formatting tags and normalizes non-breaking
// space entities.
func cleanCueText(line string) string {
	text := strings.TrimSpace(line)
	text = nbspPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseTimecode parses "HH:MM:SS.mmm" or "HH:MM:SS,mmm" into a Timecode.
func ParseTimecode(raw string) (Timecode, error) {
	matches := timecodePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return 0, fmt.Errorf("invalid timecode: %s", raw)
	}

	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	s, _ := strconv.Atoi(matches[3])
	ms, _ := strconv.Atoi(matches[4])

	return Timecode(time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond), nil
}

// detectLanguage picks the dominant language across blocks.
func detectLanguage(blocks []Block) language.Tag {
	if len(blocks) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)
	for _, block := range blocks {
		lang := whatlanggo.DetectLang(block.Text).Iso6391()
		langMap[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	return language.Make(topLang)
}
