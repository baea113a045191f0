package refs

import (
	"github.com/navkit/calcontext-mcp/internal/parser"
	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Extract returns every reference edge an entity carries. The dispatch is
// exhaustive over the entity set; unknown entities yield nothing.
func Extract(e types.Entity) []types.Reference {
	switch obj := e.(type) {
	case *types.TableObject:
		return fromTable(obj)
	case *types.SurfaceObject:
		return fromSurface(obj)
	case *types.CodeunitObject:
		return fromCodeunit(obj)
	case *types.ReportObject:
		return fromDataItemCarrier(obj.Header(), obj.DataItems, obj.Variables)
	case *types.QueryObject:
		return fromDataItemCarrier(obj.Header(), obj.DataItems, obj.Variables)
	case *types.XMLPortObject:
		return fromXMLPort(obj)
	case *types.MenuSuiteObject:
		return fromMenuSuite(obj)
	}
	return nil
}

// edgeBuilder accumulates edges for one source object.
type edgeBuilder struct {
	head  types.ObjectHeader
	edges []types.Reference
}

func (b *edgeBuilder) add(location string, kind types.ObjectKind, id int, name string, typ types.ReferenceType) {
	b.edges = append(b.edges, types.Reference{
		SourceKind:     b.head.Kind,
		SourceID:       b.head.ID,
		SourceName:     b.head.Name,
		SourceLocation: location,
		TargetKind:     kind,
		TargetID:       id,
		TargetName:     name,
		Type:           typ,
	})
}

// addVariables mines object-typed variables. Only object references count;
// plain types, external-type bindings and text constants carry no edge.
func (b *edgeBuilder) addVariables(prefix string, vars []types.Variable) {
	for _, v := range vars {
		kind, ok := types.ParseObjectKind(v.DataType)
		if !ok {
			if v.DataType == "Record" {
				kind = types.KindTable
			} else {
				continue
			}
		}
		if kind == "" {
			continue
		}
		if v.SubtypeID == 0 && v.Subtype == "" {
			continue
		}
		b.add(prefix+v.Name, kind, v.SubtypeID, v.Subtype, types.RefVariable)
	}
}

func (b *edgeBuilder) addProcedureLocals(procs []types.Procedure) {
	for _, p := range procs {
		b.addVariables("procedure:"+p.Name+"/", p.Locals)
	}
}

func fromTable(obj *types.TableObject) []types.Reference {
	b := edgeBuilder{head: obj.Head}

	for _, f := range obj.Fields {
		if f.TableRelation != "" {
			if target, ok := parser.ParseTableRelation(f.TableRelation); ok {
				b.add("field:"+f.Name, types.KindTable, 0, target.Table, types.RefTableRelation)
			}
		}
		if f.CalcFormula != "" {
			if ref, ok := parser.ParseCalcFormula(f.CalcFormula); ok {
				b.add("field:"+f.Name, types.KindTable, 0, ref.Table, types.RefCalcFormula)
			}
		}
	}

	b.addVariables("variable:", obj.Variables)
	b.addProcedureLocals(obj.Procedures)
	return b.edges
}

func fromSurface(obj *types.SurfaceObject) []types.Reference {
	b := edgeBuilder{head: obj.Head}

	if obj.SourceTableID > 0 {
		b.add("property:SourceTable", types.KindTable, obj.SourceTableID, "", types.RefSourceTable)
	}
	for _, a := range obj.Actions {
		if a.RunObjectKind != "" && a.RunObjectID > 0 {
			b.add("action:"+a.Name, a.RunObjectKind, a.RunObjectID, "", types.RefRunObject)
		}
	}

	b.addVariables("variable:", obj.Variables)
	b.addProcedureLocals(obj.Procedures)
	return b.edges
}

func fromCodeunit(obj *types.CodeunitObject) []types.Reference {
	b := edgeBuilder{head: obj.Head}
	b.addVariables("variable:", obj.Variables)
	b.addProcedureLocals(obj.Procedures)
	return b.edges
}

func fromDataItemCarrier(head types.ObjectHeader, items []*types.DataItem, vars []types.Variable) []types.Reference {
	b := edgeBuilder{head: head}

	var walk func(ds []*types.DataItem)
	walk = func(ds []*types.DataItem) {
		for _, d := range ds {
			if d.TableID > 0 || d.TableName != "" {
				b.add("dataitem:"+d.Name, types.KindTable, d.TableID, d.TableName, types.RefDataItem)
			}
			walk(d.Children)
		}
	}
	walk(items)

	b.addVariables("variable:", vars)
	return b.edges
}

func fromXMLPort(obj *types.XMLPortObject) []types.Reference {
	b := edgeBuilder{head: obj.Head}

	var walk func(ns []*types.PortNode)
	walk = func(ns []*types.PortNode) {
		for _, n := range ns {
			if n.SourceTableID > 0 {
				b.add("element:"+n.Name, types.KindTable, n.SourceTableID, "", types.RefSourceTable)
			}
			walk(n.Children)
		}
	}
	walk(obj.Nodes)

	b.addVariables("variable:", obj.Variables)
	b.addProcedureLocals(obj.Procedures)
	return b.edges
}

func fromMenuSuite(obj *types.MenuSuiteObject) []types.Reference {
	b := edgeBuilder{head: obj.Head}

	var walk func(items []*types.MenuItem)
	walk = func(items []*types.MenuItem) {
		for _, it := range items {
			if it.RunObjectKind != "" && it.RunObjectID > 0 {
				b.add("menuitem:"+it.Name, it.RunObjectKind, it.RunObjectID, "", types.RefRunObject)
			}
			walk(it.Children)
		}
	}
	walk(obj.Items)
	return b.edges
}
