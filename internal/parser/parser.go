package parser

import (
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Parse parses the flat text of one exported object into its typed entity.
// Dispatch is by the declared kind; every recognized kind has a body parser
// and the declaration parser rejects everything else, so the switch is
// exhaustive by construction.
func Parse(text string) (types.Entity, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	head, err := ParseDeclaration(firstLine(text))
	if err != nil {
		return nil, err
	}

	switch head.Kind {
	case types.KindTable:
		return ParseTable(text)
	case types.KindForm, types.KindPage:
		return ParseSurface(text)
	case types.KindReport:
		return ParseReport(text)
	case types.KindCodeunit:
		return ParseCodeunit(text)
	case types.KindXMLport:
		return ParseXMLPort(text)
	case types.KindQuery:
		return ParseQuery(text)
	case types.KindMenuSuite:
		return ParseMenuSuite(text)
	}
	return nil, &types.InvalidDeclarationError{Line: firstLine(text), Reason: "unknown object kind"}
}
