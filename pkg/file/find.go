package file

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FindByExt walks dir and returns every file whose extension is in exts.
// Extension comparison is case-insensitive and includes the leading dot.
func FindByExt(dir string, exts ...string) ([]string, error) {
	extSet := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; ok {
			found = append(found, path)
		}
		return nil
	})

	return found, err
}

// FindRecentByExt is FindByExt restricted to files modified after cutoff.
// A zero cutoff disables the filter.
func FindRecentByExt(dir string, cutoff time.Time, exts ...string) ([]string, error) {
	extSet := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		if !cutoff.IsZero() && !info.ModTime().After(cutoff) {
			return nil
		}
		found = append(found, path)
		return nil
	})

	return found, err
}
