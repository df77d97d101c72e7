package pipeline

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks,
// so "björk-Årsrapport.pdf" becomes "bjork-Arsrapport.pdf".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// safeFilename reduces an arbitrary upstream file name to something safe to
// join into a local temp path: base name only, accents stripped, anything
// outside [A-Za-z0-9._-] replaced with underscores.
func safeFilename(name string) string {
	name = filepath.Base(name)

	if out, _, err := transform.String(stripMarks, name); err == nil {
		name = out
	}

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	out := sb.String()
	if out == "" || out == "." || out == ".." {
		return "document"
	}
	return out
}
