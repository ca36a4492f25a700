package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/MimeLyc/resumable-sub-translator/internal/config"
	"github.com/MimeLyc/resumable-sub-translator/internal/jobs"
	"github.com/MimeLyc/resumable-sub-translator/internal/subtitle"
	"github.com/MimeLyc/resumable-sub-translator/pkg/file"
	"github.com/MimeLyc/resumable-sub-translator/pkg/icron"
	"github.com/MimeLyc/resumable-sub-translator/pkg/log"
)

var captionExts = []string{".vtt", ".srt"}

// TransService periodically scans the caption library and enqueues a
// translation job for every caption file that still lacks a target
// language version.
type TransService struct {
	cfg   config.Config
	queue *jobs.Queue
	cron  *cron.Cron

	reader          subtitle.Reader
	lastTriggerTime time.Time
}

func NewTransService(cfg config.Config, queue *jobs.Queue, c *cron.Cron) *TransService {
	return &TransService{
		cfg:    cfg,
		queue:  queue,
		cron:   c,
		reader: subtitle.NewReader(),
	}
}

var singleflightGroup singleflight.Group

// Schedule registers the periodic library scan. Overlapping triggers
// collapse into one running scan.
func (s *TransService) Schedule(ctx context.Context) error {
	if info, err := icron.GetTriggerInfo(s.cfg.Translate.CronExpr, time.Now()); err == nil {
		log.Info("Library scan scheduled (%s), next trigger at %s", info.Expression, info.Next.Format(time.RFC3339))
	}

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("scan", func() (any, error) {
			s.ScanAll(ctx)
			return nil, nil
		})
	}
	_, err := s.cron.AddFunc(s.cfg.Translate.CronExpr, runFunc)
	return err
}

// ScanAll scans every configured library directory once.
func (s *TransService) ScanAll(ctx context.Context) {
	for _, dir := range s.cfg.Library.Dirs {
		log.Info("Scanning caption library %s", dir)
		if err := s.scanDir(ctx, dir); err != nil {
			log.Error("Failed to scan library %s: %v", dir, err)
		}
	}
	s.lastTriggerTime = time.Now()
}

func (s *TransService) scanDir(ctx context.Context, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("directory %s does not exist", dir)
	}

	paths, err := file.FindRecentByExt(dir, s.scanCutoff(), captionExts...)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	log.Info("Found %d caption files in %s", len(paths), dir)

	enqueued := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if reason := s.skipReason(path); reason != "" {
			log.Debug("Skipping %s: %s", path, reason)
			continue
		}

		targetCode := languageCode(s.cfg.Translate.TargetLanguage)
		outputPath := file.TranslatedPath(path, file.EmbeddedLanguageCode(path), targetCode)
		_, created := s.queue.Enqueue(jobs.EnqueueRequest{
			Source:    "scan",
			DedupeKey: path + "|" + targetCode,
			Payload: jobs.Payload{
				InputPath:      path,
				OutputPath:     outputPath,
				TargetLanguage: targetCode,
			},
		})
		if created {
			enqueued++
		}
	}

	log.Info("Enqueued %d translation jobs from %s", enqueued, dir)
	return nil
}

// skipReason decides whether a caption file needs translation. Returns an
// empty string when it does.
func (s *TransService) skipReason(path string) string {
	targetCode := languageCode(s.cfg.Translate.TargetLanguage)

	if file.EmbeddedLanguageCode(path) == targetCode {
		return "filename already carries the target language code"
	}

	outputPath := file.TranslatedPath(path, file.EmbeddedLanguageCode(path), targetCode)
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Sprintf("translated sibling %s already exists", filepath.Base(outputPath))
	}

	doc, err := s.reader.Read(path)
	if err != nil {
		return fmt.Sprintf("unreadable caption file: %v", err)
	}
	if len(doc.Blocks) == 0 {
		return "no caption content"
	}
	if languageCode(doc.Language) == targetCode {
		return "content already in target language"
	}

	return ""
}

// scanCutoff bounds a scan to recently modified files. The first scan
// after startup falls back to the schedule's previous trigger, clamped
// to a week for tight schedules.
func (s *TransService) scanCutoff() time.Time {
	if !s.lastTriggerTime.IsZero() {
		return s.lastTriggerTime
	}

	info, err := icron.GetTriggerInfo(s.cfg.Translate.CronExpr, time.Now())
	if err != nil || info.Last.IsZero() {
		return time.Time{}
	}
	if time.Now().Add(-24 * time.Hour).Before(info.Last) {
		return time.Now().Add(-24 * 7 * time.Hour)
	}
	return info.Last
}

func languageCode(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
