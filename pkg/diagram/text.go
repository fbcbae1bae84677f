package diagram

import (
	"strings"
	"unicode"
)

// indentUnit is the indentation added per nesting level.
const indentUnit = "  "

// writer accumulates rendered lines. Depth is always passed by the caller.
type writer struct {
	lines []string
}

func (w *writer) line(depth int, s string) {
	w.lines = append(w.lines, strings.Repeat(indentUnit, depth)+s)
}

func (w *writer) String() string {
	return strings.Join(w.lines, "\n")
}

var (
	quotedReplacer = strings.NewReplacer(
		`"`, "#quot;",
		`\`, "#92;",
		"\r\n", "<br/>",
		"\n", "<br/>",
		"\r", "<br/>",
	)

	plainReplacer = strings.NewReplacer(
		";", "#59;",
		"\r\n", "<br/>",
		"\n", "<br/>",
		"\r", "<br/>",
	)

	bareReplacer = strings.NewReplacer(
		";", "#59;",
		":", "#58;",
		"(", "#40;",
		")", "#41;",
		"[", "#91;",
		"]", "#93;",
		"{", "#123;",
		"}", "#125;",
		"\r\n", "<br/>",
		"\n", "<br/>",
		"\r", "<br/>",
	)
)

// quote wraps a label in double quotes, replacing quotes, backslashes and
// line breaks with Mermaid entity codes so the field cannot close early.
func quote(s string) string {
	return `"` + quotedReplacer.Replace(s) + `"`
}

// plain escapes free text that follows a colon (messages, notes, state descriptions).
func plain(s string) string {
	return plainReplacer.Replace(s)
}

// bare escapes text that appears where grammar brackets and colons are significant.
func bare(s string) string {
	return bareReplacer.Replace(s)
}

// NormalizeID derives an identifier from free text: characters other than
// letters, digits, '_', '.' and '-' become '_' and the result is lowercased.
//
//	NormalizeID("API Gateway") // "api_gateway"
func NormalizeID(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-':
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
