package parser

import (
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// ExtractSection returns the raw text of one named top-level block: from the
// anchor keyword through the brace that closes it. The keyword must start a
// line (ignoring leading whitespace) so that short section names are not
// matched inside longer compound ones, e.g. PROPERTIES inside
// OBJECT-PROPERTIES. Matching is done by delimiter depth counting, not
// regex; quote runs are skipped so braces inside string literals do not
// unbalance the scan.
func ExtractSection(text, keyword string) (string, error) {
	start := findSectionStart(text, keyword)
	if start < 0 {
		return "", &types.MissingSectionError{Section: keyword}
	}

	open := strings.IndexByte(text[start:], '{')
	if open < 0 {
		return "", &types.MissingSectionError{Section: keyword}
	}
	open += start

	end := matchBrace(text, open)
	if end < 0 {
		return "", &types.MissingSectionError{Section: keyword}
	}

	return text[start : end+1], nil
}

// findSectionStart locates the keyword at a line start (after optional
// whitespace), requiring the keyword to end the token: the next character
// must be whitespace, an opening brace, or end of input.
func findSectionStart(text, keyword string) int {
	offset := 0
	for offset <= len(text) {
		lineEnd := strings.IndexByte(text[offset:], '\n')
		var line string
		if lineEnd < 0 {
			line = text[offset:]
		} else {
			line = text[offset : offset+lineEnd]
		}

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, keyword) {
			rest := trimmed[len(keyword):]
			if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '{' || rest[0] == '\r' {
				return offset + (len(line) - len(trimmed))
			}
		}

		if lineEnd < 0 {
			break
		}
		offset += lineEnd + 1
	}
	return -1
}

// matchBrace returns the index of the brace closing the one at open, or -1.
// Depth starts at 1 at the opening brace; single- and double-quoted runs are
// opaque.
func matchBrace(text string, open int) int {
	depth := 1
	i := open + 1
	for i < len(text) {
		switch text[i] {
		case '\'':
			i = skipQuoted(text, i, '\'')
			continue
		case '"':
			i = skipQuoted(text, i, '"')
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// skipQuoted advances past a quoted run starting at i. C/AL escapes a quote
// by doubling it. Returns the index just past the closing quote; an
// unterminated run consumes the rest of the input.
func skipQuoted(text string, i int, quote byte) int {
	i++ // opening quote
	for i < len(text) {
		if text[i] == quote {
			if i+1 < len(text) && text[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

// sectionInterior strips the keyword and outer braces from an extracted
// section, returning the raw body text.
func sectionInterior(section string) string {
	open := strings.IndexByte(section, '{')
	close := strings.LastIndexByte(section, '}')
	if open < 0 || close <= open {
		return ""
	}
	return section[open+1 : close]
}
