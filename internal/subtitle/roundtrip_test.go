package subtitle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_SameDialect(t *testing.T) {
	for _, fixture := range []struct {
		name    string
		content string
	}{
		{"sample.vtt", sampleVTT},
		{"sample.srt", sampleSRT},
	} {
		t.Run(fixture.name, func(t *testing.T) {
			inPath := writeFixture(t, fixture.name, fixture.content)
			doc, err := NewReader().Read(inPath)
			require.NoError(t, err)

			outPath := filepath.Join(t.TempDir(), "out"+filepath.Ext(fixture.name))
			require.NoError(t, NewWriter().Write(outPath, doc))

			reparsed, err := NewReader().Read(outPath)
			require.NoError(t, err)

			require.Len(t, reparsed.Blocks, len(doc.Blocks))
			for i := range doc.Blocks {
				assert.Equal(t, doc.Blocks[i].Start, reparsed.Blocks[i].Start)
				assert.Equal(t, doc.Blocks[i].End, reparsed.Blocks[i].End)
				assert.Equal(t, doc.Blocks[i].Text, reparsed.Blocks[i].Text)
			}
			assert.Equal(t, doc.Dialect, reparsed.Dialect)
		})
	}
}

func TestDialectConversion_PreservesStructure(t *testing.T) {
	inPath := writeFixture(t, "sample.vtt", sampleVTT)
	original, err := NewReader().Read(inPath)
	require.NoError(t, err)

	// VTT -> SRT
	srtDoc := &Document{Blocks: original.Blocks, Dialect: DialectSRT, Language: original.Language}
	srtPath := filepath.Join(t.TempDir(), "converted.srt")
	require.NoError(t, NewWriter().Write(srtPath, srtDoc))

	asSRT, err := NewReader().Read(srtPath)
	require.NoError(t, err)
	assert.Equal(t, DialectSRT, asSRT.Dialect)

	// SRT -> VTT
	vttDoc := &Document{Blocks: asSRT.Blocks, Dialect: DialectVTT, Language: asSRT.Language}
	vttPath := filepath.Join(t.TempDir(), "back.vtt")
	require.NoError(t, NewWriter().Write(vttPath, vttDoc))

	backAgain, err := NewReader().Read(vttPath)
	require.NoError(t, err)

	require.Len(t, backAgain.Blocks, len(original.Blocks))
	for i := range original.Blocks {
		assert.Equal(t, original.Blocks[i].Start, backAgain.Blocks[i].Start)
		assert.Equal(t, original.Blocks[i].End, backAgain.Blocks[i].End)
		assert.Equal(t, original.Blocks[i].Text, backAgain.Blocks[i].Text)
	}
}

func TestWrite_SRTNumbersSequentially(t *testing.T) {
	doc := &Document{
		Blocks: []Block{
			{Start: 0, End: Timecode(1e9), Text: "one"},
			{Start: Timecode(1e9), End: Timecode(2e9), Text: "two", Translated: "二"},
		},
		Dialect: DialectSRT,
	}

	path := filepath.Join(t.TempDir(), "numbered.srt")
	require.NoError(t, NewWriter().Write(path, doc))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "1\n00:00:00,000 --> 00:00:01,000\none\n\n" +
		"2\n00:00:01,000 --> 00:00:02,000\n二\n\n"
	assert.Equal(t, expected, string(content))
}

func TestWrite_VTTPreamble(t *testing.T) {
	doc := &Document{
		Blocks:  []Block{{Start: 0, End: Timecode(1e9), Text: "one"}},
		Dialect: DialectVTT,
	}

	path := filepath.Join(t.TempDir(), "preamble.vtt")
	require.NoError(t, NewWriter().Write(path, doc))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\nKind: captions\nLanguage: und\n\n00:00:00.000 --> 00:00:01.000\none\n\n", string(content))
}
