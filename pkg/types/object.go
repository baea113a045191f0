package types

import "strings"

// ObjectKind identifies one of the eight object kinds found in a C/AL
// flat-text export. The set is closed: every dispatch point in the codebase
// switches exhaustively over these values.
type ObjectKind string

const (
	KindTable     ObjectKind = "Table"
	KindForm      ObjectKind = "Form"
	KindPage      ObjectKind = "Page"
	KindReport    ObjectKind = "Report"
	KindCodeunit  ObjectKind = "Codeunit"
	KindXMLport   ObjectKind = "XMLport"
	KindQuery     ObjectKind = "Query"
	KindMenuSuite ObjectKind = "MenuSuite"
)

// AllKinds lists every recognized object kind in declaration-token order.
var AllKinds = []ObjectKind{
	KindTable, KindForm, KindPage, KindReport,
	KindCodeunit, KindXMLport, KindQuery, KindMenuSuite,
}

// ParseObjectKind resolves a declaration token to its ObjectKind,
// case-insensitively. The second return value is false for unknown tokens.
func ParseObjectKind(token string) (ObjectKind, bool) {
	for _, k := range AllKinds {
		if strings.EqualFold(token, string(k)) {
			return k, true
		}
	}
	return "", false
}

// IsValid reports whether k is one of the eight recognized kinds.
func (k ObjectKind) IsValid() bool {
	_, ok := ParseObjectKind(string(k))
	return ok
}

// ObjectMetadata holds the optional OBJECT-PROPERTIES block of an export.
// All fields are raw strings as found in the source; an absent block leaves
// every field empty.
type ObjectMetadata struct {
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	VersionList string `json:"versionList,omitempty"`
}

// ObjectHeader is the parsed `OBJECT <kind> <id> <name>` declaration line
// plus its metadata block.
type ObjectHeader struct {
	Kind ObjectKind     `json:"kind"`
	ID   int            `json:"id"`
	Name string         `json:"name"`
	Meta ObjectMetadata `json:"meta,omitempty"`
}
