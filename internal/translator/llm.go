package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
)

// LLMTranslator drives one oracle call per batch, with structural
// extraction, plausibility validation and a bounded retry loop.
type LLMTranslator struct {
	client      ChatClient
	sourceLang  language.Tag
	targetLang  language.Tag
	maxAttempts int
	retryDelay  time.Duration
	sleep       func(time.Duration)
}

// Option configures an LLMTranslator.
type Option func(*LLMTranslator)

// WithMaxAttempts sets the total attempt budget per batch.
func WithMaxAttempts(n int) Option {
	return func(t *LLMTranslator) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the fixed delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(t *LLMTranslator) {
		t.retryDelay = d
	}
}

// WithSleeper injects the wait function so tests can skip real delays.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(t *LLMTranslator) {
		t.sleep = sleep
	}
}

// NewLLMTranslator creates the adapter around a chat client.
func NewLLMTranslator(client ChatClient, sourceLang, targetLang language.Tag, opts ...Option) *LLMTranslator {
	t := &LLMTranslator{
		client:      client,
		sourceLang:  sourceLang,
		targetLang:  targetLang,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranslateBatch translates one contiguous batch. The result has the same
// length and order as texts; entries the oracle omitted keep their source
// text. Exhausting the retry budget returns a *TranslationError.
func (t *LLMTranslator) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	userPrompt, err := t.buildUserPrompt(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to build request payload: %w", err)
	}
	systemPrompt := t.buildSystemPrompt()

	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if attempt > 1 {
			log.Warn("Retrying batch translation (attempt %d/%d): %v", attempt, t.maxAttempts, lastErr)
			t.sleep(t.retryDelay)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		translations, err := t.translateOnce(ctx, systemPrompt, userPrompt, texts)
		if err == nil {
			return translations, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, lastErr
		}
	}

	return nil, &TranslationError{Attempts: t.maxAttempts, Cause: lastErr}
}

func (t *LLMTranslator) translateOnce(ctx context.Context, systemPrompt, userPrompt string, texts []string) ([]string, error) {
	content, err := t.client.SimpleChat(ctx, userPrompt, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("oracle call failed: %w", err)
	}

	payload, ok := ExtractJSON(content)
	if !ok {
		preview := content
		if len(preview) > 200 {
			preview = preview[:200]
		}
		log.Warn("Could not extract JSON from response, first 200 chars: %s", preview)
		return nil, ErrResponseUnparseable
	}

	var translated map[string]string
	if err := json.Unmarshal([]byte(payload), &translated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseUnparseable, err)
	}

	// Entries missing from a structurally valid reply fall back to their
	// source text instead of aborting the batch.
	translations := make([]string, len(texts))
	for i := range texts {
		if value, ok := translated[strconv.Itoa(i)]; ok {
			translations[i] = value
		} else {
			translations[i] = texts[i]
		}
	}

	ranges := scriptRanges(t.targetLang)
	matched := 0
	for _, text := range translations {
		if containsScript(text, ranges) {
			matched++
		}
	}
	if matched*2 < len(translations) {
		log.Warn("Plausibility check: only %d/%d entries contain target-script characters", matched, len(translations))
		return nil, ErrImplausibleResult
	}

	return translations, nil
}

// buildSystemPrompt sets the oracle's role and output contract.
func (t *LLMTranslator) buildSystemPrompt() string {
	return fmt.Sprintf(
		"You are a professional subtitle translation expert for %s to %s localization. "+
			"Return only a standard JSON object with the translated results. "+
			"Do not add any extra content, explanations or markers.",
		languageName(t.sourceLang), languageName(t.targetLang))
}

// buildUserPrompt maps each input's positional index to its text and
// spells out the ordering contract.
func (t *LLMTranslator) buildUserPrompt(texts []string) (string, error) {
	indexed := make(map[string]string, len(texts))
	for i, text := range texts {
		indexed[strconv.Itoa(i)] = text
	}
	payload, err := json.MarshalIndent(indexed, "", "  ")
	if err != nil {
		return "", err
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Translate the following %s subtitles into %s. Requirements:\n",
		languageName(t.sourceLang), languageName(t.targetLang))
	prompt.WriteString("1. Preserve the original meaning with natural, fluent phrasing\n")
	prompt.WriteString("2. These subtitles are contiguous dialogue, keep the context coherent across entries\n")
	prompt.WriteString("3. Keep each entry concise and readable on screen\n")
	prompt.WriteString("4. Translate domain terminology accurately\n")
	prompt.WriteString("5. Return a pure JSON object whose keys are the index strings and values are the translations\n")
	prompt.WriteString("6. Do not add explanations or markers, return only the JSON object\n\n")
	fmt.Fprintf(&prompt, "Source (%d contiguous subtitle entries):\n%s\n\n", len(texts), payload)
	prompt.WriteString(`Return the standard JSON object directly, in the form: {"0": "translated text", "1": "translated text", ...}`)

	return prompt.String(), nil
}

func languageName(tag language.Tag) string {
	if tag == language.Und {
		return "the source language"
	}
	return tag.String()
}
