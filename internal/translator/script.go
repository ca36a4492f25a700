package translator

import (
	"unicode"

	"golang.org/x/text/language"
)

// scriptRanges maps a target language to the unicode ranges its visible
// text is expected to use. Unlisted languages fall back to Latin.
func scriptRanges(tag language.Tag) []*unicode.RangeTable {
	base, _ := tag.Base()
	switch base.String() {
	case "zh":
		return []*unicode.RangeTable{unicode.Han}
	case "ja":
		return []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana, unicode.Han}
	case "ko":
		return []*unicode.RangeTable{unicode.Hangul}
	case "ru", "uk", "bg", "sr":
		return []*unicode.RangeTable{unicode.Cyrillic}
	case "ar", "fa", "ur":
		return []*unicode.RangeTable{unicode.Arabic}
	case "el":
		return []*unicode.RangeTable{unicode.Greek}
	case "he":
		return []*unicode.RangeTable{unicode.Hebrew}
	case "th":
		return []*unicode.RangeTable{unicode.Thai}
	default:
		return []*unicode.RangeTable{unicode.Latin}
	}
}

// containsScript reports whether any rune of text belongs to the ranges.
func containsScript(text string, ranges []*unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.IsOneOf(ranges, r) {
			return true
		}
	}
	return false
}
