package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

func TestExtract_Table(t *testing.T) {
	obj := &types.TableObject{
		Head: types.ObjectHeader{Kind: types.KindTable, ID: 18, Name: "Customer"},
		Fields: []types.Field{
			{ID: 1, Name: "No.", DataType: "Code20"},
			{ID: 2, Name: "Payment Terms Code", DataType: "Code10",
				TableRelation: `"Payment Terms"`},
			{ID: 3, Name: "Balance", DataType: "Decimal",
				CalcFormula: `Sum("Cust. Ledger Entry".Amount WHERE (Customer No.=FIELD(No.)))`},
			{ID: 4, Name: "Empty Relation", DataType: "Code10", TableRelation: "   "},
		},
		Variables: []types.Variable{
			{Name: "SalesSetup", DataType: "Record", SubtypeID: 311},
			{Name: "Amount", DataType: "Decimal"},
			{Name: "Builder", DataType: "DotNet", TypeName: "System.Text.StringBuilder"},
		},
		Procedures: []types.Procedure{
			{Name: "CheckCredit", Locals: []types.Variable{
				{Name: "CreditMgt", DataType: "Codeunit", SubtypeID: 312},
			}},
		},
	}

	edges := Extract(obj)
	require.Len(t, edges, 4)

	assert.Equal(t, types.RefTableRelation, edges[0].Type)
	assert.Equal(t, "field:Payment Terms Code", edges[0].SourceLocation)
	assert.Equal(t, "Payment Terms", edges[0].TargetName)
	assert.Equal(t, types.KindTable, edges[0].TargetKind)
	assert.Equal(t, types.KindTable, edges[0].SourceKind)
	assert.Equal(t, 18, edges[0].SourceID)

	assert.Equal(t, types.RefCalcFormula, edges[1].Type)
	assert.Equal(t, "Cust. Ledger Entry", edges[1].TargetName)

	assert.Equal(t, types.RefVariable, edges[2].Type)
	assert.Equal(t, "variable:SalesSetup", edges[2].SourceLocation)
	assert.Equal(t, 311, edges[2].TargetID)
	assert.Equal(t, types.KindTable, edges[2].TargetKind, "record variables target tables")

	assert.Equal(t, "procedure:CheckCredit/CreditMgt", edges[3].SourceLocation)
	assert.Equal(t, types.KindCodeunit, edges[3].TargetKind)
	assert.Equal(t, 312, edges[3].TargetID)
}

func TestExtract_Surface(t *testing.T) {
	obj := &types.SurfaceObject{
		Head:          types.ObjectHeader{Kind: types.KindPage, ID: 21, Name: "Customer Card"},
		SourceTableID: 18,
		Actions: []types.Action{
			{ID: 1, Type: "ActionContainer"},
			{ID: 2, Type: "Action", Name: "Statistics", RunObjectKind: types.KindPage, RunObjectID: 151},
		},
	}

	edges := Extract(obj)
	require.Len(t, edges, 2)
	assert.Equal(t, types.RefSourceTable, edges[0].Type)
	assert.Equal(t, 18, edges[0].TargetID)
	assert.Equal(t, types.RefRunObject, edges[1].Type)
	assert.Equal(t, "action:Statistics", edges[1].SourceLocation)
	assert.Equal(t, 151, edges[1].TargetID)
}

func TestExtract_Report(t *testing.T) {
	child := &types.DataItem{Name: "Cust. Ledger Entry", TableName: "Cust. Ledger Entry", Level: 1}
	obj := &types.ReportObject{
		Head: types.ObjectHeader{Kind: types.KindReport, ID: 101, Name: "Customer - List"},
		DataItems: []*types.DataItem{
			{Name: "Customer", TableName: "Customer", Children: []*types.DataItem{child}},
		},
	}

	edges := Extract(obj)
	require.Len(t, edges, 2)
	assert.Equal(t, types.RefDataItem, edges[0].Type)
	assert.Equal(t, "Customer", edges[0].TargetName)
	assert.Equal(t, "dataitem:Cust. Ledger Entry", edges[1].SourceLocation, "nested items walk too")
}

func TestExtract_XMLPortAndMenuSuite(t *testing.T) {
	port := &types.XMLPortObject{
		Head: types.ObjectHeader{Kind: types.KindXMLport, ID: 9170, Name: "Import Customers"},
		Nodes: []*types.PortNode{
			{Name: "Root", NodeType: types.PortElement, Children: []*types.PortNode{
				{Name: "Customer", NodeType: types.PortElement, SourceTableID: 18},
			}},
		},
	}
	edges := Extract(port)
	require.Len(t, edges, 1)
	assert.Equal(t, "element:Customer", edges[0].SourceLocation)
	assert.Equal(t, 18, edges[0].TargetID)

	menu := &types.MenuSuiteObject{
		Head: types.ObjectHeader{Kind: types.KindMenuSuite, ID: 1010, Name: "Dept - Sales"},
		Items: []*types.MenuItem{
			{Name: "Sales", Children: []*types.MenuItem{
				{Name: "Customers", RunObjectKind: types.KindPage, RunObjectID: 22},
				{Separator: true},
			}},
		},
	}
	edges = Extract(menu)
	require.Len(t, edges, 1)
	assert.Equal(t, types.RefRunObject, edges[0].Type)
	assert.Equal(t, 22, edges[0].TargetID)
}

func TestExtract_NoEdges(t *testing.T) {
	obj := &types.CodeunitObject{
		Head: types.ObjectHeader{Kind: types.KindCodeunit, ID: 80, Name: "Sales-Post"},
		Variables: []types.Variable{
			{Name: "Amount", DataType: "Decimal"},
			{Name: "Text001", DataType: "TextConst", TextConst: map[string]string{"ENU": "x"}},
		},
	}
	assert.Empty(t, Extract(obj))
}
