package symboldb

import (
	"fmt"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// MemberCategory names one inspectable member list of an object.
type MemberCategory string

const (
	MemberFields     MemberCategory = "fields"
	MemberKeys       MemberCategory = "keys"
	MemberProcedures MemberCategory = "procedures"
	MemberControls   MemberCategory = "controls"
	MemberActions    MemberCategory = "actions"
	MemberVariables  MemberCategory = "variables"
	MemberDataItems  MemberCategory = "dataitems"
	MemberColumns    MemberCategory = "columns"
)

// ParseMemberCategory resolves a category token, case-insensitively.
func ParseMemberCategory(s string) (MemberCategory, bool) {
	switch MemberCategory(strings.ToLower(strings.TrimSpace(s))) {
	case MemberFields:
		return MemberFields, true
	case MemberKeys:
		return MemberKeys, true
	case MemberProcedures:
		return MemberProcedures, true
	case MemberControls:
		return MemberControls, true
	case MemberActions:
		return MemberActions, true
	case MemberVariables:
		return MemberVariables, true
	case MemberDataItems:
		return MemberDataItems, true
	case MemberColumns:
		return MemberColumns, true
	}
	return "", false
}

// MembersRequest selects one member category of one object, optionally
// filtered by a wildcard name pattern and paginated.
type MembersRequest struct {
	Kind     types.ObjectKind
	IDOrName string
	Category MemberCategory
	Pattern  string
	Offset   int
	Limit    int
}

type namedMember struct {
	name  string
	value any
}

// Members returns the requested member page plus the total match count.
// Objects without the category (keys of a codeunit, controls of a table)
// yield an empty list, not an error.
func (db *Database) Members(req MembersRequest) ([]any, int, error) {
	e, err := db.GetByIDOrName(req.Kind, req.IDOrName)
	if err != nil {
		return nil, 0, err
	}
	re, err := CompileWildcard(req.Pattern)
	if err != nil {
		return nil, 0, err
	}

	all, err := collectMembers(e, req.Category)
	if err != nil {
		return nil, 0, err
	}

	var matches []any
	for _, m := range all {
		if re.MatchString(m.name) {
			matches = append(matches, m.value)
		}
	}

	total := len(matches)
	start := req.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if req.Limit > 0 && start+req.Limit < end {
		end = start + req.Limit
	}
	return matches[start:end], total, nil
}

func collectMembers(e types.Entity, cat MemberCategory) ([]namedMember, error) {
	var out []namedMember
	add := func(name string, value any) {
		out = append(out, namedMember{name: name, value: value})
	}

	switch cat {
	case MemberFields:
		if t, ok := e.(*types.TableObject); ok {
			for _, f := range t.Fields {
				add(f.Name, f)
			}
		}
	case MemberKeys:
		if t, ok := e.(*types.TableObject); ok {
			for _, k := range t.Keys {
				add(strings.Join(k.Fields, ","), k)
			}
		}
	case MemberProcedures:
		for _, p := range entityProcedures(e) {
			add(p.Name, p)
		}
	case MemberActions:
		if s, ok := e.(*types.SurfaceObject); ok {
			for _, a := range s.Actions {
				add(a.Name, a)
			}
		}
	case MemberControls:
		if s, ok := e.(*types.SurfaceObject); ok {
			walkControls(s.Controls, func(c *types.Control) {
				add(c.SourceExpr, c)
			})
		}
	case MemberVariables:
		for _, v := range entityVariables(e) {
			add(v.Name, v)
		}
	case MemberDataItems:
		items, _ := entityDataItems(e)
		walkDataItems(items, func(d *types.DataItem) {
			add(d.Name, d)
		})
	case MemberColumns:
		_, cols := entityDataItems(e)
		for _, c := range cols {
			add(c.Name, c)
		}
	default:
		return nil, fmt.Errorf("unknown member category %q", cat)
	}
	return out, nil
}

func walkControls(cs []*types.Control, fn func(*types.Control)) {
	for _, c := range cs {
		fn(c)
		walkControls(c.Children, fn)
	}
}

func walkDataItems(ds []*types.DataItem, fn func(*types.DataItem)) {
	for _, d := range ds {
		fn(d)
		walkDataItems(d.Children, fn)
	}
}

func entityVariables(e types.Entity) []types.Variable {
	switch obj := e.(type) {
	case *types.TableObject:
		return obj.Variables
	case *types.SurfaceObject:
		return obj.Variables
	case *types.CodeunitObject:
		return obj.Variables
	case *types.ReportObject:
		return obj.Variables
	case *types.QueryObject:
		return obj.Variables
	case *types.XMLPortObject:
		return obj.Variables
	}
	return nil
}

func entityDataItems(e types.Entity) ([]*types.DataItem, []types.Column) {
	switch obj := e.(type) {
	case *types.ReportObject:
		return obj.DataItems, obj.Columns
	case *types.QueryObject:
		return obj.DataItems, obj.Columns
	}
	return nil, nil
}
