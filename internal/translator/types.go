package translator

import (
	"context"
	"errors"
	"fmt"
)

// BatchTranslator translates one contiguous batch of caption texts.
// The returned slice has the same length and order as the input.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string) ([]string, error)
}

// ChatClient is the oracle call the adapter wraps. *llm.Client satisfies it.
type ChatClient interface {
	SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

// ErrResponseUnparseable marks an oracle reply from which no structural
// JSON payload could be extracted.
var ErrResponseUnparseable = errors.New("no JSON payload could be extracted from response")

// ErrImplausibleResult marks a syntactically valid reply where fewer than
// half of the entries contain target-script characters, which usually
// means the oracle echoed the source language back.
var ErrImplausibleResult = errors.New("translation result below target-script plausibility threshold")

// TranslationError is returned once the retry budget for a batch is
// exhausted. It is terminal for the current run, not for the job.
type TranslationError struct {
	Attempts int
	Cause    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}
