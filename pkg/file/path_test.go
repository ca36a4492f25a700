package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b.srt"), ReplaceExt(filepath.Join("a", "b.vtt"), ".srt"))
	assert.Equal(t, filepath.Join("a", "b.srt"), ReplaceExt(filepath.Join("a", "b.vtt"), "srt"))
	assert.Equal(t, "noext.srt", ReplaceExt("noext", "srt"))
	assert.Equal(t, "", ReplaceExt("", ".srt"))
}

func TestTranslatedPath(t *testing.T) {
	assert.Equal(t, "movie.zh.vtt", TranslatedPath("movie.en.vtt", "en", "zh"))
	assert.Equal(t, "movie.zh.vtt", TranslatedPath("movie.vtt", "en", "zh"))
	assert.Equal(t, "movie.zh.srt", TranslatedPath("movie.en.srt", "en", "zh"))
	assert.Equal(t, filepath.Join("dir", "ep1.zh.srt"), TranslatedPath(filepath.Join("dir", "ep1.srt"), "", "zh"))
}

func TestEmbeddedLanguageCode(t *testing.T) {
	assert.Equal(t, "en", EmbeddedLanguageCode(filepath.Join("media", "movie.en.vtt")))
	assert.Equal(t, "zh", EmbeddedLanguageCode("movie.zh.srt"))
	assert.Equal(t, "", EmbeddedLanguageCode("movie.vtt"))
	assert.Equal(t, "", EmbeddedLanguageCode("season.01.episode.vtt"))
}

func TestFindRecentByExt(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.vtt")
	newPath := filepath.Join(dir, "new.vtt")
	require.NoError(t, os.WriteFile(oldPath, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("x"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	found, err := FindRecentByExt(dir, time.Now().Add(-time.Minute), ".vtt")
	require.NoError(t, err)
	assert.Equal(t, []string{newPath}, found)

	// Zero cutoff disables the filter.
	all, err := FindRecentByExt(dir, time.Time{}, ".vtt")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindByExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.vtt", "b.SRT", "c.txt", filepath.Join("sub", "d.srt")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	found, err := FindByExt(dir, ".vtt", "srt")
	require.NoError(t, err)
	assert.Len(t, found, 3)
	for _, path := range found {
		assert.NotContains(t, path, "c.txt")
	}
}
