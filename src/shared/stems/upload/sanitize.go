package upload

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeBaseName replaces every rune that is not a letter or a number with
// an underscore. Input is NFC normalized first so that a decomposed accent
// survives as one letter instead of a letter and an underscore.
func SanitizeBaseName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, norm.NFC.String(name))
}

// SafeFileName sanitizes the base name of a file and keeps its extension,
// whose characters after the dot are sanitized the same way.
func SafeFileName(original string) string {
	base, ext := SplitExt(original)
	if ext != "" {
		ext = "." + SanitizeBaseName(ext[1:])
	}

	return SanitizeBaseName(base) + ext
}

// SplitExt splits a file name into base and extension. Leading dots belong to
// the base, so ".hidden" has no extension.
func SplitExt(name string) (string, string) {
	trimmed := strings.TrimLeft(name, ".")
	ext := filepath.Ext(trimmed)
	if ext == trimmed {
		ext = ""
	}

	return strings.TrimSuffix(name, ext), ext
}
