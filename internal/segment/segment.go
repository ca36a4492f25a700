package segment

import (
	"fmt"
	"strings"

	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
)

// Batch is a half-open index range over a document's block sequence.
// Batches emitted by a Strategy are contiguous, non-overlapping and cover
// the whole sequence in ascending order.
type Batch struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (b Batch) Size() int {
	return b.End - b.Start
}

// Strategy partitions a block sequence into translation batches.
type Strategy interface {
	Segment(blocks []subtitle.Block) []Batch
}

// Natural closes batches at sentence boundaries: once a batch has at
// least Min blocks it ends at the first block whose text is a natural
// breakpoint, or unconditionally at Max blocks. The trailing partial
// batch is always emitted.
type Natural struct {
	Target int
	Min    int
	Max    int
}

// NewNatural validates the size triple and builds a natural segmenter.
func NewNatural(target, minSize, maxSize int) (*Natural, error) {
	if minSize <= 0 || target <= 0 || maxSize <= 0 {
		return nil, fmt.Errorf("batch sizes must be positive: min=%d target=%d max=%d", minSize, target, maxSize)
	}
	if minSize > target || target > maxSize {
		return nil, fmt.Errorf("batch sizes must satisfy min <= target <= max: min=%d target=%d max=%d", minSize, target, maxSize)
	}
	return &Natural{Target: target, Min: minSize, Max: maxSize}, nil
}

func (s *Natural) Segment(blocks []subtitle.Block) []Batch {
	var batches []Batch
	startIdx := 0
	currentSize := 0

	for i, block := range blocks {
		currentSize++

		if currentSize < s.Min {
			continue
		}
		if IsNaturalBreakpoint(block.Text) || currentSize >= s.Max {
			batches = append(batches, Batch{Start: startIdx, End: i + 1})
			startIdx = i + 1
			currentSize = 0
		}
	}

	if startIdx < len(blocks) {
		batches = append(batches, Batch{Start: startIdx, End: len(blocks)})
	}

	return batches
}

// Fixed emits constant-size batches regardless of sentence structure.
type Fixed struct {
	Size int
}

func NewFixed(size int) (*Fixed, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive: %d", size)
	}
	return &Fixed{Size: size}, nil
}

func (s *Fixed) Segment(blocks []subtitle.Block) []Batch {
	var batches []Batch
	for start := 0; start < len(blocks); start += s.Size {
		end := start + s.Size
		if end > len(blocks) {
			end = len(blocks)
		}
		batches = append(batches, Batch{Start: start, End: end})
	}
	return batches
}

// sentenceEndings covers source- and target-language terminal punctuation.
var sentenceEndings = []string{
	".", "!", "?", "...",
	"。", "！", "？", "…",
}

// closingQuotes covers dialogue that ends with a terminal mark inside quotes.
var closingQuotes = []string{
	`."`, `!"`, `?"`,
	"．”", "。”", "！”", "？”",
}

// IsNaturalBreakpoint reports whether the block text ends a sentence.
func IsNaturalBreakpoint(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	for _, ending := range sentenceEndings {
		if strings.HasSuffix(text, ending) {
			return true
		}
	}
	for _, quoted := range closingQuotes {
		if strings.HasSuffix(text, quoted) {
			return true
		}
	}

	return false
}
