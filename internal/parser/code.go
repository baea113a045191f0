package parser

import (
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// codeSection is the parsed form of an object's CODE block: unit-level
// variables, procedures, and the trailing main BEGIN..END. block.
type codeSection struct {
	Variables  []types.Variable
	Procedures []types.Procedure
	MainBody   string
}

// parseCode parses the interior of a CODE section. Procedure bodies stay
// opaque text; only the declaration surface (name, id, parameters, return
// type, locals) is structured. Unrecognized lines are skipped so that
// event wiring and documentation blocks do not abort the parse.
func parseCode(body string) codeSection {
	var cs codeSection
	i := 0
	for i < len(body) {
		start := nextWordStart(body, i)
		if start < 0 {
			break
		}
		i = start

		switch {
		case hasWordAt(body, i, "VAR"):
			stop := findCodeKeyword(body, i+len("VAR"))
			cs.Variables = append(cs.Variables, parseVarBlock(body[i+len("VAR"):stop])...)
			i = stop

		case hasWordAt(body, i, "PROCEDURE") || hasWordAt(body, i, "LOCAL"):
			proc, next, ok := parseProcedure(body, i)
			if !ok {
				i = nextLine(body, i)
				continue
			}
			cs.Procedures = append(cs.Procedures, proc)
			i = next

		case hasWordAt(body, i, "BEGIN"):
			end := skipCodeBlock(body, i)
			if interior, ok := blockInterior(body, i, end); ok {
				cs.MainBody = trimBody(interior)
			}
			i = end

		default:
			i = nextLine(body, i)
		}
	}
	return cs
}

// parseProcedure parses one `[LOCAL ]PROCEDURE Name@id(params)[ : Ret];`
// declaration with optional VAR block and BEGIN..END body, starting at i.
// Returns the index past the procedure on success.
func parseProcedure(body string, i int) (types.Procedure, int, bool) {
	var proc types.Procedure

	if hasWordAt(body, i, "LOCAL") {
		proc.Local = true
		i += len("LOCAL")
		if next := nextWordStart(body, i); next >= 0 {
			i = next
		}
	}
	if !hasWordAt(body, i, "PROCEDURE") {
		return proc, i, false
	}
	i += len("PROCEDURE")

	at := strings.IndexByte(body[i:], '@')
	if at < 0 {
		return proc, i, false
	}
	proc.Name = strings.Trim(strings.TrimSpace(body[i:i+at]), `"`)
	i += at + 1

	numEnd := i
	for numEnd < len(body) && (body[numEnd] == '-' || ('0' <= body[numEnd] && body[numEnd] <= '9')) {
		numEnd++
	}
	proc.ID, _ = strconv.Atoi(body[i:numEnd])
	i = numEnd

	open := strings.IndexByte(body[i:], '(')
	if open < 0 {
		return proc, i, false
	}
	i += open
	close := matchParen(body, i)
	if close < 0 {
		return proc, i, false
	}
	proc.Parameters = parseParameters(body[i+1 : close])
	i = close + 1

	// Optional return type, terminated by the declaration semicolon.
	declEnd := scanValueEnd(body, i)
	tail := strings.TrimSpace(body[i:declEnd])
	if strings.HasPrefix(tail, ":") {
		proc.ReturnType = strings.TrimSpace(tail[1:])
	}
	i = declEnd
	if i < len(body) && body[i] == ';' {
		i++
	}

	if next := nextWordStart(body, i); next >= 0 {
		i = next
	}
	if hasWordAt(body, i, "VAR") {
		stop := findCodeKeyword(body, i+len("VAR"))
		proc.Locals = parseVarBlock(body[i+len("VAR") : stop])
		i = stop
	}
	if next := nextWordStart(body, i); next >= 0 {
		i = next
	}
	if !hasWordAt(body, i, "BEGIN") {
		return proc, i, false
	}
	end := skipCodeBlock(body, i)
	interior, ok := blockInterior(body, i, end)
	if !ok {
		return proc, end, false
	}
	proc.Body = trimBody(interior)
	i = end
	if i < len(body) && body[i] == ';' {
		i++
	}

	return proc, i, true
}

// blockInterior returns the opaque text between a BEGIN at start and the END
// closing it at end. ok is false when the block never closed, which happens
// on truncated exports; callers skip the block instead of slicing past it.
func blockInterior(body string, start, end int) (string, bool) {
	lo := start + len("BEGIN")
	hi := end - len("END")
	if hi < lo || !hasWordAt(body, hi, "END") {
		return "", false
	}
	return body[lo:hi], true
}

// findCodeKeyword scans forward for the next top-level CODE-section keyword
// (PROCEDURE, LOCAL, BEGIN, EVENT), returning len(body) when none follows.
// Quoted runs are opaque.
func findCodeKeyword(body string, i int) int {
	for i < len(body) {
		c := body[i]
		if c == '\'' || c == '"' {
			i = skipQuoted(body, i, c)
			continue
		}
		if hasWordAt(body, i, "PROCEDURE") || hasWordAt(body, i, "LOCAL") ||
			hasWordAt(body, i, "BEGIN") || hasWordAt(body, i, "EVENT") {
			return i
		}
		i++
	}
	return len(body)
}

// nextLine returns the index just past the next newline.
func nextLine(body string, i int) int {
	nl := strings.IndexByte(body[i:], '\n')
	if nl < 0 {
		return len(body)
	}
	return i + nl + 1
}

// trimBody normalizes an opaque body: surrounding blank lines go, interior
// text stays byte-exact.
func trimBody(s string) string {
	return strings.Trim(s, " \t\r\n")
}
