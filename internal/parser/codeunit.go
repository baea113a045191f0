package parser

import (
	"github.com/navkit/calcontext-mcp/pkg/types"
)

// ParseCodeunit parses a codeunit object. CODE is the one required section.
func ParseCodeunit(text string) (*types.CodeunitObject, error) {
	head, err := parseHead(text, types.KindCodeunit)
	if err != nil {
		return nil, err
	}

	obj := &types.CodeunitObject{Head: head}

	if sec, err := ExtractSection(text, "PROPERTIES"); err == nil {
		obj.Properties, _ = parsePropertyList(sectionInterior(sec))
	}

	codeSec, err := ExtractSection(text, "CODE")
	if err != nil {
		return nil, err
	}
	cs := parseCode(sectionInterior(codeSec))
	obj.Variables = cs.Variables
	obj.Procedures = cs.Procedures
	obj.OnRun = cs.MainBody

	return obj, nil
}
