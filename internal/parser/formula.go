package parser

import (
	"regexp"
	"strings"
)

// FormulaRef is the parsed form of an aggregate-formula value: the method,
// the target table, the optional `.`-qualified field, and the opaque
// qualifying clause.
type FormulaRef struct {
	Method string
	Table  string
	Field  string
	Clause string
}

// calcMethods is the closed set of aggregate methods. A leading '-' negates
// the result and is accepted on any of them.
var calcMethods = map[string]bool{
	"sum": true, "count": true, "min": true, "max": true,
	"average": true, "exist": true, "lookup": true,
}

var formulaRe = regexp.MustCompile(`(?is)^\s*(-?)([A-Za-z]+)\s*\((.*)\)\s*$`)

// ParseCalcFormula extracts the target of an aggregate-formula value such as
// `Sum("Cust. Ledger Entry".Amount WHERE (...))`. Unparseable values return
// ok=false, never an error.
func ParseCalcFormula(value string) (FormulaRef, bool) {
	m := formulaRe.FindStringSubmatch(value)
	if m == nil {
		return FormulaRef{}, false
	}
	if !calcMethods[strings.ToLower(m[2])] {
		return FormulaRef{}, false
	}

	ref := FormulaRef{Method: m[1] + m[2]}
	inner := strings.TrimSpace(m[3])
	if inner == "" {
		return FormulaRef{}, false
	}

	if inner[0] == '"' {
		name, end, ok := quotedName(inner)
		if !ok {
			return FormulaRef{}, false
		}
		ref.Table = name
		inner = inner[end:]
	} else {
		stop := len(inner)
		if i := indexFoldWord(inner, "WHERE"); i >= 0 && i < stop {
			stop = i
		}
		if i := strings.IndexByte(inner, '.'); i >= 0 && i < stop {
			stop = i
		}
		ref.Table = strings.TrimSpace(inner[:stop])
		inner = inner[stop:]
	}
	if ref.Table == "" {
		return FormulaRef{}, false
	}

	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, ".") {
		inner = inner[1:]
		stop := len(inner)
		if i := indexFoldWord(inner, "WHERE"); i >= 0 {
			stop = i
		}
		ref.Field = strings.TrimSpace(strings.Trim(inner[:stop], `"`))
		inner = inner[stop:]
	}
	ref.Clause = strings.TrimSpace(inner)

	return ref, true
}
