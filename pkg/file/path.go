package file

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")

	if lastDot <= 0 {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return filepath.Join(dir, filename+ext)
	}

	nameWithoutExt := filename[:lastDot]

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return filepath.Join(dir, nameWithoutExt+ext)
}

// TranslatedPath derives the output path for a translated caption file.
// A language tag embedded before the extension is replaced
// (movie.en.vtt -> movie.zh.vtt), otherwise the target code is inserted
// (movie.vtt -> movie.zh.vtt).
func TranslatedPath(inputPath, sourceCode, targetCode string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)

	if sourceCode != "" && strings.HasSuffix(base, "."+sourceCode) {
		base = strings.TrimSuffix(base, "."+sourceCode)
	}

	return fmt.Sprintf("%s.%s%s", base, targetCode, ext)
}

// EmbeddedLanguageCode extracts a language code embedded before the file
// extension ("movie.en.vtt" -> "en"), or "" when there is none.
func EmbeddedLanguageCode(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}
	code := base[idx+1:]
	if len(code) < 2 || len(code) > 3 {
		return ""
	}
	if language.Make(code) == language.Und {
		return ""
	}
	return code
}
