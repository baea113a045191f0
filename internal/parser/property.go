package parser

import (
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// The property grammar is semicolon-separated `Name=Value` entries where
// values may span lines and may themselves contain semicolons inside
// brackets (multi-language captions), quotes, or embedded trigger code
// (`OnValidate=BEGIN ... END;`). All splitting here is depth-aware rather
// than regex-driven for that reason.

// splitParts splits s on sep at delimiter depth zero. Parentheses, square
// brackets, inner braces, quoted runs and embedded code blocks after `=` are
// all opaque to the split.
func splitParts(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\'', '"':
			i = skipQuoted(s, i, c)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '=':
			if next := nextWordStart(s, i+1); next >= 0 && (hasWordAt(s, next, "BEGIN") || hasWordAt(s, next, "VAR")) {
				i = skipCodeBlock(s, next)
				continue
			}
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
		i++
	}
	parts = append(parts, s[start:])
	return parts
}

// parsePropertyList parses a `Name=Value;` sequence into an ordered bag.
// Entries that never reach an `=` are skipped; an unterminated final value
// is kept as-is.
func parsePropertyList(s string) (types.Properties, error) {
	var props types.Properties
	i := 0
	for i < len(s) {
		// Skip separators and blank space between entries.
		for i < len(s) && (s[i] == ';' || s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
			i++
		}
		if i >= len(s) {
			break
		}

		eq := indexTopLevel(s[i:], '=')
		if eq < 0 {
			break
		}
		name := strings.TrimSpace(s[i : i+eq])
		i += eq + 1

		valStart := i
		if next := nextWordStart(s, i); next >= 0 && (hasWordAt(s, next, "BEGIN") || hasWordAt(s, next, "VAR")) {
			i = skipCodeBlock(s, next)
		} else {
			i = scanValueEnd(s, i)
		}
		value := strings.TrimSpace(s[valStart:i])
		if name != "" {
			props = append(props, types.Property{Name: name, Value: value})
		}
	}
	return props, nil
}

// scanValueEnd returns the index of the semicolon terminating a plain value,
// or len(s) when the value runs to the end.
func scanValueEnd(s string, i int) int {
	depth := 0
	for i < len(s) {
		switch s[i] {
		case '\'', '"':
			i = skipQuoted(s, i, s[i])
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return i
}

// indexTopLevel finds the first occurrence of c at depth zero, respecting
// quotes, or -1. A semicolon or closing brace before the match means the
// current entry has no value.
func indexTopLevel(s string, c byte) int {
	depth := 0
	i := 0
	for i < len(s) {
		ch := s[i]
		switch ch {
		case '\'', '"':
			i = skipQuoted(s, i, ch)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 {
			if ch == c {
				return i
			}
			if ch == ';' {
				return -1
			}
		}
		i++
	}
	return -1
}

// nextWordStart skips whitespace from i and returns the index of the next
// non-space character, or -1 at end of input.
func nextWordStart(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return -1
}

// hasWordAt reports whether the word w starts at i with a word boundary on
// both sides. Comparison is case-insensitive.
func hasWordAt(s string, i int, w string) bool {
	if i+len(w) > len(s) {
		return false
	}
	if !strings.EqualFold(s[i:i+len(w)], w) {
		return false
	}
	if i > 0 && isWordChar(s[i-1]) {
		return false
	}
	if i+len(w) < len(s) && isWordChar(s[i+len(w)]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// skipCodeBlock consumes an embedded code block starting at a BEGIN or VAR
// keyword and returns the index just past the END that closes it. A VAR
// prelude (local declarations) is consumed up to its BEGIN first. BEGIN and
// CASE open scopes, END closes them; quoted runs are opaque. An unbalanced
// block consumes the rest of the input.
func skipCodeBlock(s string, i int) int {
	if hasWordAt(s, i, "VAR") {
		i += len("VAR")
		for i < len(s) && !hasWordAt(s, i, "BEGIN") {
			if s[i] == '\'' || s[i] == '"' {
				i = skipQuoted(s, i, s[i])
				continue
			}
			i++
		}
	}
	if i >= len(s) {
		return i
	}

	depth := 0
	for i < len(s) {
		switch {
		case s[i] == '\'' || s[i] == '"':
			i = skipQuoted(s, i, s[i])
		case hasWordAt(s, i, "BEGIN"):
			depth++
			i += len("BEGIN")
		case hasWordAt(s, i, "CASE"):
			depth++
			i += len("CASE")
		case hasWordAt(s, i, "END"):
			depth--
			i += len("END")
			if depth <= 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

// itemBlock is one top-level `{ ... }` record inside a section body, along
// with the column of its opening brace. Tree sections derive nesting levels
// from those columns.
type itemBlock struct {
	text string // interior text, outer braces stripped
	col  int
}

// itemBlocks splits a section interior into its top-level brace records.
func itemBlocks(body string) []itemBlock {
	var blocks []itemBlock
	col := 0
	i := 0
	for i < len(body) {
		c := body[i]
		switch c {
		case '\n':
			col = 0
			i++
			continue
		case '\'', '"':
			next := skipQuoted(body, i, c)
			col += next - i
			i = next
			continue
		case '{':
			end := matchBrace(body, i)
			if end < 0 {
				return blocks
			}
			blocks = append(blocks, itemBlock{text: body[i+1 : end], col: col})
			// Column tracking after a multi-line block restarts at the
			// next newline anyway.
			col += end - i + 1
			i = end + 1
			continue
		}
		col++
		i++
	}
	return blocks
}
