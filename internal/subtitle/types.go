package subtitle

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Dialect identifies one of the two supported caption wire formats.
type Dialect string

const (
	// DialectVTT is WebVTT: global WEBVTT header, no cue numbering,
	// milliseconds separated with a period.
	DialectVTT Dialect = "vtt"
	// DialectSRT is SubRip: sequential 1-based cue numbers, no header,
	// milliseconds separated with a comma.
	DialectSRT Dialect = "srt"
)

// Timecode is a cue timestamp with millisecond precision.
// It marshals to the dialect-neutral "HH:MM:SS.mmm" form so that
// checkpoint files stay human-inspectable.
type Timecode time.Duration

func (t Timecode) Duration() time.Duration {
	return time.Duration(t)
}

// String renders the timecode with a period millisecond separator.
func (t Timecode) String() string {
	return t.Format('.')
}

// Format renders the timecode using the given millisecond separator.
func (t Timecode) Format(msSep byte) string {
	d := time.Duration(t)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, msSep, milliseconds)
}

func (t Timecode) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timecode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimecode(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Block is one timed caption unit. Text is the line-joined, tag-stripped
// original; Translated stays empty until a containing batch resolves.
type Block struct {
	Start      Timecode `json:"start"`
	End        Timecode `json:"end"`
	Text       string   `json:"text"`
	Translated string   `json:"translated,omitempty"`
}

// DisplayText returns the translated text, falling back to the original.
func (b Block) DisplayText() string {
	if b.Translated != "" {
		return b.Translated
	}
	return b.Text
}

// Document is an ordered caption block sequence plus the dialect it must
// be serialized back into. Block order equals chronological order.
type Document struct {
	Blocks   []Block
	Dialect  Dialect
	Language language.Tag
}

// Reader parses caption files into documents.
type Reader interface {
	Read(path string) (*Document, error)
}

// Writer serializes documents back to disk in their dialect.
type Writer interface {
	Write(path string, doc *Document) error
}
