package translator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// scriptedClient replays canned responses and counts calls.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedClient) SimpleChat(_ context.Context, _ string, _ string) (string, error) {
	idx := c.calls
	c.calls++
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	if c.errs != nil && c.errs[idx] != nil {
		return "", c.errs[idx]
	}
	return c.responses[idx], nil
}

func newTestTranslator(client ChatClient) *LLMTranslator {
	return NewLLMTranslator(
		client,
		language.English,
		language.Chinese,
		WithRetryDelay(time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)
}

func TestTranslateBatch_Success(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"0": "你好。", "1": "世界。"}`}}
	tr := newTestTranslator(client)

	got, err := tr.TranslateBatch(context.Background(), []string{"Hello.", "World."})
	require.NoError(t, err)
	assert.Equal(t, []string{"你好。", "世界。"}, got)
	assert.Equal(t, 1, client.calls)
}

func TestTranslateBatch_MissingEntryFallsBack(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"0": "你好。", "2": "再见。"}`}}
	tr := newTestTranslator(client)

	got, err := tr.TranslateBatch(context.Background(), []string{"Hello.", "World.", "Bye."})
	require.NoError(t, err)
	assert.Equal(t, []string{"你好。", "World.", "再见。"}, got)
}

func TestTranslateBatch_RetryBound(t *testing.T) {
	// Always-malformed responses exhaust exactly maxAttempts calls.
	client := &scriptedClient{responses: []string{"not json at all"}}
	tr := newTestTranslator(client)

	_, err := tr.TranslateBatch(context.Background(), []string{"Hello."})
	require.Error(t, err)

	var transErr *TranslationError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, defaultMaxAttempts, transErr.Attempts)
	assert.ErrorIs(t, err, ErrResponseUnparseable)
	assert.Equal(t, defaultMaxAttempts, client.calls)
}

func TestTranslateBatch_PlausibilityGate(t *testing.T) {
	// Valid JSON echoing the source language back fails like a malformed
	// response would.
	client := &scriptedClient{responses: []string{`{"0": "Hello.", "1": "World.", "2": "你好。"}`}}
	tr := newTestTranslator(client)

	_, err := tr.TranslateBatch(context.Background(), []string{"Hello.", "World.", "Goodbye."})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImplausibleResult)
	assert.Equal(t, defaultMaxAttempts, client.calls)
}

func TestTranslateBatch_RecoversAfterRetry(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"garbage",
		"```json\n{\"0\": \"你好。\"}\n```",
	}}
	tr := newTestTranslator(client)

	got, err := tr.TranslateBatch(context.Background(), []string{"Hello."})
	require.NoError(t, err)
	assert.Equal(t, []string{"你好。"}, got)
	assert.Equal(t, 2, client.calls)
}

func TestTranslateBatch_TransientAPIErrorRetried(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"", `{"0": "你好。"}`},
		errs:      []error{assert.AnError, nil},
	}
	tr := newTestTranslator(client)

	got, err := tr.TranslateBatch(context.Background(), []string{"Hello."})
	require.NoError(t, err)
	assert.Equal(t, []string{"你好。"}, got)
	assert.Equal(t, 2, client.calls)
}

func TestTranslateBatch_EmptyInput(t *testing.T) {
	client := &scriptedClient{responses: []string{`{}`}}
	tr := newTestTranslator(client)

	got, err := tr.TranslateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, client.calls)
}

func TestTranslateBatch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{responses: []string{"garbage"}}
	tr := newTestTranslator(client)

	_, err := tr.TranslateBatch(ctx, []string{"Hello."})
	require.Error(t, err)
}

func TestScriptRanges(t *testing.T) {
	assert.True(t, containsScript("你好", scriptRanges(language.Chinese)))
	assert.False(t, containsScript("Hello", scriptRanges(language.Chinese)))
	assert.True(t, containsScript("こんにちは", scriptRanges(language.Japanese)))
	assert.True(t, containsScript("안녕", scriptRanges(language.Korean)))
	assert.True(t, containsScript("Привет", scriptRanges(language.Russian)))
	assert.True(t, containsScript("Hello", scriptRanges(language.French)))
}
