package parser

import (
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// ParseMenuSuite parses a menu-tree object. MENUNODES is required; each node
// is a `MENUITEM(prop=value;...)` call or a bare SEPARATOR token, nested by
// indentation. Folders are menu items without a run target that gather
// children.
func ParseMenuSuite(text string) (*types.MenuSuiteObject, error) {
	head, err := parseHead(text, types.KindMenuSuite)
	if err != nil {
		return nil, err
	}

	obj := &types.MenuSuiteObject{Head: head}

	if sec, err := ExtractSection(text, "PROPERTIES"); err == nil {
		obj.Properties, _ = parsePropertyList(sectionInterior(sec))
	}

	sec, err := ExtractSection(text, "MENUNODES")
	if err != nil {
		return nil, err
	}

	var (
		items []*types.MenuItem
		cols  []int
	)
	for _, line := range strings.Split(sectionInterior(sec), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "{" || trimmed == "}" {
			continue
		}
		item, ok := parseMenuNode(trimmed)
		if !ok {
			continue
		}
		items = append(items, item)
		cols = append(cols, len(line)-len(strings.TrimLeft(line, " \t")))
	}

	levels, bad := deriveLevels(cols)
	if bad >= 0 {
		return nil, &types.MalformedHierarchyError{Section: "MENUNODES", Item: items[bad].Name}
	}
	for i, it := range items {
		it.Level = levels[i]
	}
	obj.Items = buildTree(items,
		func(m *types.MenuItem) int { return m.Level },
		func(parent, child *types.MenuItem) { parent.Children = append(parent.Children, child) })

	return obj, nil
}

// parseMenuNode parses one menu line: `MENUITEM(prop=value;...)` or
// `SEPARATOR`.
func parseMenuNode(line string) (*types.MenuItem, bool) {
	if strings.EqualFold(line, "SEPARATOR") {
		return &types.MenuItem{Separator: true}, true
	}

	if !hasWordAt(line, 0, "MENUITEM") {
		return nil, false
	}
	rest := strings.TrimSpace(line[len("MENUITEM"):])
	if !strings.HasPrefix(rest, "(") {
		return nil, false
	}
	end := matchParen(rest, 0)
	if end < 0 {
		return nil, false
	}

	item := &types.MenuItem{}
	var runKind types.ObjectKind
	runID := 0
	for _, part := range splitParts(rest[1:end], ';') {
		eq := indexTopLevel(part, '=')
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(part[:eq])
		value := strings.Trim(strings.TrimSpace(part[eq+1:]), `"`)
		switch {
		case strings.EqualFold(name, "Name"):
			item.Name = value
		case strings.EqualFold(name, "Caption"):
			item.Caption = value
		case strings.EqualFold(name, "RunObject"):
			if kind, id, ok := parseRunObject(value); ok {
				runKind, runID = kind, id
			}
		case strings.EqualFold(name, "RunObjectType"):
			if kind, ok := types.ParseObjectKind(value); ok {
				runKind = kind
			}
		case strings.EqualFold(name, "RunObjectID"):
			if id, err := strconv.Atoi(value); err == nil {
				runID = id
			}
		}
	}
	if runKind != "" && runID > 0 {
		item.RunObjectKind = runKind
		item.RunObjectID = runID
	}
	if item.Name == "" && item.Caption == "" {
		return nil, false
	}
	return item, true
}
