package pipeline

import "github.com/MimeLyc/resumable-sub-translator/internal/subtitle"

// Assemble merges translated text back into the original timing metadata:
// each output block keeps its start and end unchanged and carries the
// translated text, falling back to the source text for any block that is
// still empty. Total over well-formed input, no failure modes.
func Assemble(blocks []subtitle.Block) []subtitle.Block {
	assembled := make([]subtitle.Block, len(blocks))
	for i, block := range blocks {
		assembled[i] = subtitle.Block{
			Start: block.Start,
			End:   block.End,
			Text:  block.DisplayText(),
		}
	}
	return assembled
}
