package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/internal/config"
	"github.com/MimeLyc/resumable-sub-translator/internal/jobs"
)

const englishVTT = `WEBVTT

00:00:01.000 --> 00:00:03.000
This is a simple English sentence.

00:00:03.000 --> 00:00:05.000
Here is another line of English dialogue.

00:00:05.000 --> 00:00:07.000
The weather is nice today.
`

const chineseSRT = `1
00:00:01,000 --> 00:00:03,000
这是一段中文字幕。

2
00:00:03,000 --> 00:00:05,000
今天的天气很好。
`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func scanConfig(dirs ...string) config.Config {
	return config.Config{
		Translate: config.TranslateConfig{
			TargetLanguage: language.Chinese,
			CronExpr:       "0 0 * * *",
		},
		Library: config.LibraryConfig{Dirs: dirs},
	}
}

func TestScanAll_EnqueuesUntranslatedCaptions(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "shows", "ep1.en.vtt"), englishVTT)

	queue := jobs.NewQueue(1, nil)
	svc := NewTransService(scanConfig(dir), queue, cron.New())

	svc.ScanAll(context.Background())

	all := queue.List()
	require.Len(t, all, 1)
	job := all[0]
	assert.Equal(t, jobs.StatusPending, job.Status)
	assert.Equal(t, "scan", job.Source)
	assert.Equal(t, filepath.Join(dir, "shows", "ep1.en.vtt"), job.Payload.InputPath)
	assert.Equal(t, filepath.Join(dir, "shows", "ep1.zh.vtt"), job.Payload.OutputPath)
	assert.Equal(t, "zh", job.Payload.TargetLanguage)
}

func TestScanAll_SkipsTargetLanguageFilename(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "movie.zh.srt"), chineseSRT)

	queue := jobs.NewQueue(1, nil)
	NewTransService(scanConfig(dir), queue, cron.New()).ScanAll(context.Background())

	assert.Empty(t, queue.List())
}

func TestScanAll_SkipsWhenTranslatedSiblingExists(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "ep1.en.vtt"), englishVTT)
	writeTestFile(t, filepath.Join(dir, "ep1.zh.vtt"), englishVTT)

	queue := jobs.NewQueue(1, nil)
	NewTransService(scanConfig(dir), queue, cron.New()).ScanAll(context.Background())

	assert.Empty(t, queue.List())
}

func TestScanAll_SkipsContentAlreadyInTargetLanguage(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "drama.srt"), chineseSRT)

	queue := jobs.NewQueue(1, nil)
	NewTransService(scanConfig(dir), queue, cron.New()).ScanAll(context.Background())

	assert.Empty(t, queue.List())
}

func TestScanAll_SkipsEmptyCaptionFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "empty.vtt"), "WEBVTT\n\n")

	queue := jobs.NewQueue(1, nil)
	NewTransService(scanConfig(dir), queue, cron.New()).ScanAll(context.Background())

	assert.Empty(t, queue.List())
}

func TestScanAll_RescanDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "ep1.en.vtt"), englishVTT)

	queue := jobs.NewQueue(1, nil)
	svc := NewTransService(scanConfig(dir), queue, cron.New())

	svc.ScanAll(context.Background())
	// Second scan sees no recent changes and the live job holds the key.
	svc.lastTriggerTime = svc.lastTriggerTime.AddDate(0, 0, -1)
	svc.ScanAll(context.Background())

	assert.Len(t, queue.List(), 1)
}

func TestSchedule_RegistersCronEntry(t *testing.T) {
	queue := jobs.NewQueue(1, nil)
	c := cron.New()
	svc := NewTransService(scanConfig(t.TempDir()), queue, c)

	require.NoError(t, svc.Schedule(context.Background()))
	assert.Len(t, c.Entries(), 1)
}

func TestSchedule_InvalidCronExpr(t *testing.T) {
	cfg := scanConfig(t.TempDir())
	cfg.Translate.CronExpr = "not a cron expr"
	svc := NewTransService(cfg, jobs.NewQueue(1, nil), cron.New())

	require.Error(t, svc.Schedule(context.Background()))
}
