package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

var declarationRe = regexp.MustCompile(`^OBJECT\s+(\S+)\s+(\d+)\s+(.+)$`)

// ParseDeclaration parses the `OBJECT <kind> <id> <name>` line that opens
// every exported object. The returned header has no metadata; callers fill
// it from the OBJECT-PROPERTIES block separately.
func ParseDeclaration(line string) (types.ObjectHeader, error) {
	trimmed := strings.TrimSpace(line)
	m := declarationRe.FindStringSubmatch(trimmed)
	if m == nil {
		return types.ObjectHeader{}, &types.InvalidDeclarationError{Line: trimmed, Reason: "does not match OBJECT <kind> <id> <name>"}
	}

	kind, ok := types.ParseObjectKind(m[1])
	if !ok {
		return types.ObjectHeader{}, &types.InvalidDeclarationError{Line: trimmed, Reason: "unknown object kind " + m[1]}
	}

	id, err := strconv.Atoi(m[2])
	if err != nil || id <= 0 {
		return types.ObjectHeader{}, &types.InvalidDeclarationError{Line: trimmed, Reason: "object id must be a positive integer"}
	}

	name := strings.TrimSpace(m[3])
	if name == "" {
		return types.ObjectHeader{}, &types.InvalidDeclarationError{Line: trimmed, Reason: "object name is empty"}
	}

	return types.ObjectHeader{Kind: kind, ID: id, Name: name}, nil
}

// ParseMetadata extracts the optional OBJECT-PROPERTIES block. Every field
// is independently optional; an absent block yields all-empty metadata and
// never an error.
func ParseMetadata(text string) types.ObjectMetadata {
	var meta types.ObjectMetadata

	section, err := ExtractSection(text, "OBJECT-PROPERTIES")
	if err != nil {
		return meta
	}

	props, err := parsePropertyList(sectionInterior(section))
	if err != nil {
		return meta
	}

	if v, ok := props.Get("Date"); ok {
		meta.Date = unwrapBrackets(v)
	}
	if v, ok := props.Get("Time"); ok {
		meta.Time = unwrapBrackets(v)
	}
	if v, ok := props.Get("Version List"); ok {
		meta.VersionList = strings.TrimSpace(v)
	}

	return meta
}

// unwrapBrackets strips the optional `[ ... ]` wrapping that exports use for
// date and time values with embedded spaces.
func unwrapBrackets(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}
