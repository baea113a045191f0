package parser

import "strings"

// RelationTarget is the parsed form of a relation-constraint value: the
// referenced table, an optional `.`-qualified field, and whatever qualifying
// clause followed (kept opaque).
type RelationTarget struct {
	Table  string
	Field  string
	Clause string
}

// ParseTableRelation extracts the target table from a relation-constraint
// value. The target is either a quoted phrase or a bare identifier run; a
// leading IF (...) guard is skipped so conditional relations resolve to
// their first branch. Empty or unparseable values return ok=false, never an
// error.
func ParseTableRelation(value string) (RelationTarget, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return RelationTarget{}, false
	}

	// Conditional form: IF (cond) Target ELSE ...; take the first branch.
	for hasWordAt(v, 0, "IF") {
		rest := strings.TrimSpace(v[2:])
		if !strings.HasPrefix(rest, "(") {
			return RelationTarget{}, false
		}
		end := matchParen(rest, 0)
		if end < 0 {
			return RelationTarget{}, false
		}
		v = strings.TrimSpace(rest[end+1:])
		if v == "" {
			return RelationTarget{}, false
		}
	}

	var target RelationTarget
	if v[0] == '"' {
		name, end, ok := quotedName(v)
		if !ok {
			return RelationTarget{}, false
		}
		target.Table = name
		v = v[end:]
	} else {
		stop := len(v)
		if i := indexFoldWord(v, "WHERE"); i >= 0 && i < stop {
			stop = i
		}
		if i := indexFoldWord(v, "ELSE"); i >= 0 && i < stop {
			stop = i
		}
		if i := strings.IndexByte(v, '.'); i >= 0 && i < stop {
			stop = i
		}
		target.Table = strings.TrimSpace(v[:stop])
		v = v[stop:]
	}

	if target.Table == "" {
		return RelationTarget{}, false
	}

	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, ".") {
		v = v[1:]
		stop := len(v)
		if i := indexFoldWord(v, "WHERE"); i >= 0 {
			stop = i
		}
		target.Field = strings.TrimSpace(strings.Trim(v[:stop], `"`))
		v = v[stop:]
	}
	target.Clause = strings.TrimSpace(v)

	return target, true
}

// quotedName returns the unescaped interior of the double-quoted name at the
// start of s and the index past the closing quote. A doubled quote inside the
// name stands for a literal quote.
func quotedName(s string) (string, int, bool) {
	end := skipQuoted(s, 0, '"')
	if end < 2 || s[end-1] != '"' {
		return "", 0, false
	}
	return strings.ReplaceAll(s[1:end-1], `""`, `"`), end, true
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1. Quoted runs are opaque.
func matchParen(s string, open int) int {
	depth := 0
	i := open
	for i < len(s) {
		switch s[i] {
		case '\'', '"':
			i = skipQuoted(s, i, s[i])
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// indexFoldWord finds the first case-insensitive whole-word occurrence of w
// outside quotes, or -1.
func indexFoldWord(s, w string) int {
	i := 0
	for i < len(s) {
		if s[i] == '\'' || s[i] == '"' {
			i = skipQuoted(s, i, s[i])
			continue
		}
		if hasWordAt(s, i, w) {
			return i
		}
		i++
	}
	return -1
}
