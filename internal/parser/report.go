package parser

import (
	"regexp"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Reports and queries share one body shape: a tree of data items, each
// binding a record type and carrying columns and filters. Reports export it
// under DATASET, queries under ELEMENTS.

// ParseReport parses a report object. DATASET is required.
func ParseReport(text string) (*types.ReportObject, error) {
	head, err := parseHead(text, types.KindReport)
	if err != nil {
		return nil, err
	}

	obj := &types.ReportObject{Head: head}
	fillCommonSections(text, &obj.Properties, &obj.Variables, &obj.Procedures)

	sec, err := ExtractSection(text, "DATASET")
	if err != nil {
		return nil, err
	}
	obj.DataItems, obj.Columns, err = parseDataItems("DATASET", sectionInterior(sec))
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// ParseQuery parses a query object. ELEMENTS is required.
func ParseQuery(text string) (*types.QueryObject, error) {
	head, err := parseHead(text, types.KindQuery)
	if err != nil {
		return nil, err
	}

	obj := &types.QueryObject{Head: head}
	fillCommonSections(text, &obj.Properties, &obj.Variables, &obj.Procedures)

	sec, err := ExtractSection(text, "ELEMENTS")
	if err != nil {
		return nil, err
	}
	obj.DataItems, obj.Columns, err = parseDataItems("ELEMENTS", sectionInterior(sec))
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// fillCommonSections parses the optional PROPERTIES and CODE sections shared
// by reports and queries.
func fillCommonSections(text string, props *types.Properties, vars *[]types.Variable, procs *[]types.Procedure) {
	if sec, err := ExtractSection(text, "PROPERTIES"); err == nil {
		*props, _ = parsePropertyList(sectionInterior(sec))
	}
	if sec, err := ExtractSection(text, "CODE"); err == nil {
		cs := parseCode(sectionInterior(sec))
		*vars = cs.Variables
		*procs = cs.Procedures
	}
}

var (
	dataItemRe = regexp.MustCompile(`^(\s*)dataitem\(\s*"?([^;"]*)"?\s*;\s*"?([^")]*)"?\s*\)\s*\{?\s*$`)
	columnRe   = regexp.MustCompile(`^\s*(column|filter)\(\s*"?([^;"]*)"?\s*;\s*(.*?)\s*\)\s*\{?\s*$`)
	propLineRe = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 ._\-]*)\s*=\s*(.*?);?\s*$`)
)

// parseDataItems scans a DATASET/ELEMENTS body line by line. Data items are
// flat declarations whose nesting comes from the indentation of the
// `dataitem` keyword; each declaration's brace block holds its columns,
// filters and properties. Returns the reconstructed tree plus the flattened
// column list in source order.
func parseDataItems(section, body string) ([]*types.DataItem, []types.Column, error) {
	var (
		items    []*types.DataItem
		cols     []int
		scopes   []byte // 'c' = inside a column block, 'd' = anything else
		lastDecl byte
	)

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := dataItemRe.FindStringSubmatch(line); m != nil {
			di := &types.DataItem{
				Name:      strings.TrimSpace(m[2]),
				TableName: strings.TrimSpace(m[3]),
			}
			items = append(items, di)
			cols = append(cols, len(m[1]))
			lastDecl = 'd'
			if strings.HasSuffix(trimmed, "{") {
				scopes = append(scopes, 'd')
				lastDecl = 0
			}
			continue
		}

		if m := columnRe.FindStringSubmatch(line); m != nil && len(items) > 0 {
			cur := items[len(items)-1]
			cur.Columns = append(cur.Columns, types.Column{
				Name:       strings.TrimSpace(m[2]),
				SourceExpr: strings.Trim(strings.TrimSpace(m[3]), `"`),
				IsFilter:   strings.EqualFold(m[1], "filter"),
				DataItem:   cur.Name,
			})
			lastDecl = 'c'
			if strings.HasSuffix(trimmed, "{") {
				scopes = append(scopes, 'c')
				lastDecl = 0
			}
			continue
		}

		if trimmed == "{" {
			if lastDecl == 'c' {
				scopes = append(scopes, 'c')
			} else {
				scopes = append(scopes, 'd')
			}
			lastDecl = 0
			continue
		}
		if trimmed == "}" {
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
			continue
		}

		if m := propLineRe.FindStringSubmatch(trimmed); m != nil && len(items) > 0 {
			cur := items[len(items)-1]
			p := types.Property{Name: strings.TrimSpace(m[1]), Value: m[2]}
			if len(scopes) > 0 && scopes[len(scopes)-1] == 'c' && len(cur.Columns) > 0 {
				cur.Columns[len(cur.Columns)-1].Properties = append(cur.Columns[len(cur.Columns)-1].Properties, p)
			} else {
				cur.Properties = append(cur.Properties, p)
			}
		}
	}

	levels, bad := deriveLevels(cols)
	if bad >= 0 {
		return nil, nil, &types.MalformedHierarchyError{Section: section, Item: items[bad].Name}
	}
	for i, di := range items {
		di.Level = levels[i]
		if v, ok := di.Properties.Get("DataItemTable"); ok {
			di.TableID = parseTableID(v)
		}
	}

	var flat []types.Column
	for _, di := range items {
		flat = append(flat, di.Columns...)
	}

	roots := buildTree(items,
		func(d *types.DataItem) int { return d.Level },
		func(parent, child *types.DataItem) { parent.Children = append(parent.Children, child) })

	return roots, flat, nil
}
