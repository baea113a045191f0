package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// ParseSurface parses a form or page object. CONTROLS is required; the
// control tree's nesting comes from the indentation of each record's
// opening brace.
func ParseSurface(text string) (*types.SurfaceObject, error) {
	head, err := parseHead(text, types.KindForm, types.KindPage)
	if err != nil {
		return nil, err
	}

	obj := &types.SurfaceObject{Head: head}

	if sec, err := ExtractSection(text, "PROPERTIES"); err == nil {
		obj.Properties, _ = parsePropertyList(sectionInterior(sec))
		if v, ok := obj.Properties.Get("SourceTable"); ok {
			obj.SourceTableID = parseTableID(v)
		}
	}

	controlsSec, err := ExtractSection(text, "CONTROLS")
	if err != nil {
		return nil, err
	}
	blocks := itemBlocks(sectionInterior(controlsSec))

	cols := make([]int, len(blocks))
	controls := make([]*types.Control, 0, len(blocks))
	for i, block := range blocks {
		cols[i] = block.col
		c, ok := parseControlRecord(block.text)
		if !ok {
			c = &types.Control{}
		}
		controls = append(controls, c)
	}
	levels, bad := deriveLevels(cols)
	if bad >= 0 {
		return nil, &types.MalformedHierarchyError{Section: "CONTROLS", Item: summarizeItem(blocks[bad].text)}
	}
	for i := range controls {
		controls[i].Level = levels[i]
	}
	obj.Controls = buildTree(controls,
		func(c *types.Control) int { return c.Level },
		func(parent, child *types.Control) { parent.Children = append(parent.Children, child) })

	if sec, err := ExtractSection(text, "ACTIONS"); err == nil {
		for _, block := range itemBlocks(sectionInterior(sec)) {
			if a, ok := parseActionRecord(block.text); ok {
				obj.Actions = append(obj.Actions, a)
			}
		}
	}

	if sec, err := ExtractSection(text, "CODE"); err == nil {
		cs := parseCode(sectionInterior(sec))
		obj.Variables = cs.Variables
		obj.Procedures = cs.Procedures
	}

	return obj, nil
}

// parseControlRecord parses one control row: `{ id ; type ; prop=value;... }`.
func parseControlRecord(text string) (*types.Control, bool) {
	parts := splitParts(text, ';')
	if len(parts) < 2 {
		return nil, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, false
	}

	c := &types.Control{ID: id, Type: strings.TrimSpace(parts[1])}
	for _, p := range recordProperties(parts[2:]) {
		if strings.EqualFold(p.Name, "SourceExpr") {
			c.SourceExpr = p.Value
			continue
		}
		c.Properties = append(c.Properties, p)
	}
	return c, true
}

// parseActionRecord parses one action row: `{ id ; type ; prop=value;... }`.
// Actions stay a flat list; any RunObject property is resolved into a typed
// run target.
func parseActionRecord(text string) (types.Action, bool) {
	parts := splitParts(text, ';')
	if len(parts) < 2 {
		return types.Action{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return types.Action{}, false
	}

	a := types.Action{ID: id, Type: strings.TrimSpace(parts[1])}
	for _, p := range recordProperties(parts[2:]) {
		switch {
		case strings.EqualFold(p.Name, "Name"):
			a.Name = p.Value
		case strings.EqualFold(p.Name, "RunObject"):
			if kind, oid, ok := parseRunObject(p.Value); ok {
				a.RunObjectKind = kind
				a.RunObjectID = oid
			}
		default:
			a.Properties = append(a.Properties, p)
		}
	}
	return a, true
}

var runObjectRe = regexp.MustCompile(`(?i)^\s*([A-Za-z]+)\s+(\d+)\s*$`)

// parseRunObject resolves a `<Kind> <id>` run-target value.
func parseRunObject(v string) (types.ObjectKind, int, bool) {
	m := runObjectRe.FindStringSubmatch(v)
	if m == nil {
		return "", 0, false
	}
	kind, ok := types.ParseObjectKind(m[1])
	if !ok {
		return "", 0, false
	}
	id, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return kind, id, true
}

var tableIDRe = regexp.MustCompile(`(?i)^\s*(?:Table)?\s*(\d+)\s*$`)

// parseTableID resolves a SourceTable-style value: either a bare id or a
// `Table<id>` token. Anything else yields zero.
func parseTableID(v string) int {
	m := tableIDRe.FindStringSubmatch(v)
	if m == nil {
		return 0
	}
	id, _ := strconv.Atoi(m[1])
	return id
}

// summarizeItem returns the first line of a record for error reporting.
func summarizeItem(text string) string {
	s := strings.TrimSpace(firstLine(strings.TrimSpace(text)))
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
