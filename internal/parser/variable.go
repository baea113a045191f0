package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

var (
	varDeclRe = regexp.MustCompile(`(?s)^\s*"?([^"@]+)"?@(-?\d+)\s*:\s*(.+)$`)
	// Object-typed variables: the tag is one of the object kinds and the
	// payload is a numeric id or a quoted/bare name.
	objectVarRe = regexp.MustCompile(`(?is)^(Record|Codeunit|Page|Form|Report|Query|XMLport)\s+(.+)$`)
	paramRe     = regexp.MustCompile(`(?s)^\s*(VAR\s+)?"?([^"@]+)"?@-?\d+\s*:\s*(.+)$`)
)

// parseVarBlock parses the declarations of a VAR block (or any run of
// variable declarations). Declarations that do not match the grammar are
// skipped silently; an unparseable variable simply contributes nothing.
func parseVarBlock(text string) []types.Variable {
	var vars []types.Variable
	for _, part := range splitParts(text, ';') {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if v, ok := parseVariableDecl(part); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// parseVariableDecl parses one `Name@id : Type` declaration. The type side
// is one of: an object reference (numeric id or quoted/bare name), an
// external-type binding (assembly descriptor plus dotted type path), a
// localized-text constant, or a plain type tag kept verbatim.
func parseVariableDecl(decl string) (types.Variable, bool) {
	m := varDeclRe.FindStringSubmatch(decl)
	if m == nil {
		return types.Variable{}, false
	}

	v := types.Variable{Name: strings.TrimSpace(m[1])}
	if id, err := strconv.Atoi(m[2]); err == nil {
		v.ID = id
	}

	typeText := strings.TrimSpace(m[3])
	if rest, ok := cutWordFold(typeText, "TEMPORARY"); ok {
		v.Temporary = true
		typeText = rest
	}

	switch {
	case hasWordAt(typeText, 0, "TextConst"):
		v.DataType = "TextConst"
		parseTextConst(strings.TrimSpace(typeText[len("TextConst"):]), &v)
	case hasWordAt(typeText, 0, "DotNet"):
		v.DataType = "DotNet"
		parseDotNet(strings.TrimSpace(typeText[len("DotNet"):]), &v)
	default:
		if om := objectVarRe.FindStringSubmatch(typeText); om != nil {
			v.DataType = canonicalKindToken(om[1])
			parseObjectTarget(strings.TrimSpace(om[2]), &v)
		} else {
			v.DataType = typeText
		}
	}

	if v.Name == "" || v.DataType == "" {
		return types.Variable{}, false
	}
	return v, true
}

// parseObjectTarget fills the numeric-id or name payload of an object-typed
// variable. A trailing modifier such as TEMPORARY is tolerated after the id.
func parseObjectTarget(s string, v *types.Variable) {
	if rest, ok := cutWordFold(s, "TEMPORARY"); ok {
		v.Temporary = true
		s = rest
	}
	if s == "" {
		return
	}
	if s[0] == '"' {
		if end := strings.IndexByte(s[1:], '"'); end >= 0 {
			v.Subtype = s[1 : end+1]
		}
		return
	}
	tok := s
	if i := strings.IndexAny(tok, " \t\n"); i >= 0 {
		rest := strings.TrimSpace(tok[i:])
		tok = tok[:i]
		if _, ok := cutWordFold(rest, "TEMPORARY"); ok {
			v.Temporary = true
		}
	}
	if id, err := strconv.Atoi(tok); err == nil {
		v.SubtypeID = id
	} else {
		v.Subtype = tok
	}
}

// parseTextConst parses the quoted payload of a localized-text constant:
// language-tag=text pairs separated by semicolons, where the pseudo-tag @@@
// carries a translator comment instead of a displayed language.
func parseTextConst(s string, v *types.Variable) {
	if s == "" || s[0] != '\'' {
		return
	}
	end := skipQuoted(s, 0, '\'')
	if end < 2 || s[end-1] != '\'' {
		// Unterminated literal, seen on truncated exports.
		return
	}
	payload := s[1 : end-1]
	payload = strings.ReplaceAll(payload, "''", "'")

	for _, pair := range strings.Split(payload, ";") {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			// Single-language shorthand with no tag.
			if len(v.TextConst) == 0 && strings.TrimSpace(pair) != "" {
				if v.TextConst == nil {
					v.TextConst = make(map[string]string)
				}
				v.TextConst["ENU"] = strings.TrimSpace(pair)
			}
			continue
		}
		tag := strings.TrimSpace(pair[:eq])
		text := pair[eq+1:]
		if tag == "@@@" {
			v.TranslatorComment = text
			continue
		}
		if tag == "" {
			continue
		}
		if v.TextConst == nil {
			v.TextConst = make(map[string]string)
		}
		v.TextConst[tag] = text
	}
}

// parseDotNet parses an external-type binding: a double-quoted value whose
// single-quoted prefix is an opaque assembly descriptor followed by a dotted
// type path, e.g. "'mscorlib'.System.Text.StringBuilder".
func parseDotNet(s string, v *types.Variable) {
	if s == "" || s[0] != '"' {
		return
	}
	end := strings.IndexByte(s[1:], '"')
	if end < 0 {
		return
	}
	inner := s[1 : end+1]

	if strings.HasPrefix(inner, "'") {
		if close := strings.Index(inner[1:], "'"); close >= 0 {
			v.Assembly = inner[1 : close+1]
			inner = strings.TrimPrefix(inner[close+2:], ".")
		}
	}
	v.TypeName = inner
}

// parseParameters parses a procedure's parameter list: semicolon-separated
// `[VAR ]Name@id : Type` entries.
func parseParameters(s string) []types.Parameter {
	var params []types.Parameter
	for _, part := range splitParts(s, ';') {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m := paramRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		params = append(params, types.Parameter{
			Name:     strings.TrimSpace(m[2]),
			DataType: strings.TrimSpace(m[3]),
			ByRef:    m[1] != "",
		})
	}
	return params
}

// cutWordFold strips a leading keyword (case-insensitive, word-bounded) and
// following whitespace, reporting whether it was present.
func cutWordFold(s, word string) (string, bool) {
	if !hasWordAt(s, 0, word) {
		return s, false
	}
	return strings.TrimLeft(s[len(word):], " \t\n\r"), true
}

// canonicalKindToken normalizes an object-kind token to its declaration
// spelling regardless of source casing.
func canonicalKindToken(tok string) string {
	if k, ok := types.ParseObjectKind(tok); ok {
		return string(k)
	}
	return tok
}
