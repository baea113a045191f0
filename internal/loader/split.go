package loader

import "strings"

// SplitObjects splits a multi-object export stream into one text per
// object. A new object starts at a line beginning with `OBJECT ` outside any
// brace block; brace depth is tracked with quote-aware scanning so the
// keyword inside string literals or code bodies never splits. A leading
// byte-order mark is dropped.
func SplitObjects(text string) []string {
	text = strings.TrimPrefix(text, "\uFEFF")

	var (
		objects []string
		start   = -1
		depth   = 0
	)
	flush := func(end int) {
		if start >= 0 {
			if obj := strings.TrimSpace(text[start:end]); obj != "" {
				objects = append(objects, obj)
			}
		}
	}

	i := 0
	for i < len(text) {
		lineEnd := strings.IndexByte(text[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += i
		}
		line := text[i:lineEnd]

		if depth == 0 && isObjectDeclaration(line) {
			flush(i)
			start = i
		}
		depth += braceDelta(line)
		if depth < 0 {
			depth = 0
		}

		i = lineEnd + 1
	}
	flush(len(text))
	return objects
}

func isObjectDeclaration(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "OBJECT ")
}

// braceDelta returns the net brace depth change of one line, with quoted
// runs opaque.
func braceDelta(line string) int {
	delta := 0
	i := 0
	for i < len(line) {
		switch line[i] {
		case '\'', '"':
			i = skipQuotedRun(line, i, line[i])
			continue
		case '{':
			delta++
		case '}':
			delta--
		}
		i++
	}
	return delta
}

// skipQuotedRun advances past a quoted run; a doubled quote is an escape.
func skipQuotedRun(s string, i int, quote byte) int {
	i++
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}
