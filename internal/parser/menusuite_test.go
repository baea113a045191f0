package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

const deptSalesExport = `OBJECT MenuSuite 1010 Dept - Sales
{
  OBJECT-PROPERTIES
  {
    Date=25.10.17;
    Time=12:00:00;
  }
  MENUNODES
  {
    MENUITEM(Name=Sales;Caption=Sales & Marketing)
      MENUITEM(Name=Customers;Caption=Customers;RunObjectType=Page;RunObjectID=22)
      SEPARATOR
      MENUITEM(Name=Orders;Caption=Sales Orders;RunObject=Page 9305)
    MENUITEM(Name=Admin;Caption=Administration)
      MENUITEM(Name=PostingSetup;Caption=Posting Setup;RunObjectType=Page;RunObjectID=459)
  }
}
`

func TestParseMenuSuite(t *testing.T) {
	obj, err := ParseMenuSuite(deptSalesExport)
	require.NoError(t, err)

	assert.Equal(t, types.KindMenuSuite, obj.Header().Kind)
	assert.Equal(t, 1010, obj.Header().ID)

	require.Len(t, obj.Items, 2)
	sales := obj.Items[0]
	assert.Equal(t, "Sales", sales.Name)
	assert.Equal(t, "Sales & Marketing", sales.Caption)
	assert.Empty(t, sales.RunObjectKind, "folders carry no run target")

	require.Len(t, sales.Children, 3)
	cust := sales.Children[0]
	assert.Equal(t, "Customers", cust.Name)
	assert.Equal(t, types.KindPage, cust.RunObjectKind)
	assert.Equal(t, 22, cust.RunObjectID)

	assert.True(t, sales.Children[1].Separator)

	orders := sales.Children[2]
	assert.Equal(t, types.KindPage, orders.RunObjectKind)
	assert.Equal(t, 9305, orders.RunObjectID, "combined RunObject form")

	admin := obj.Items[1]
	require.Len(t, admin.Children, 1)
	assert.Equal(t, 459, admin.Children[0].RunObjectID)
}

func TestParseMenuSuite_MissingMenuNodes(t *testing.T) {
	_, err := ParseMenuSuite("OBJECT MenuSuite 1010 Empty\n{\n}\n")
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "MENUNODES", missing.Section)
}

func TestParseMenuNode(t *testing.T) {
	item, ok := parseMenuNode("SEPARATOR")
	require.True(t, ok)
	assert.True(t, item.Separator)

	item, ok = parseMenuNode(`MENUITEM(Name=Jobs;Caption="Jobs; Planning")`)
	require.True(t, ok)
	assert.Equal(t, "Jobs", item.Name)
	assert.Equal(t, "Jobs; Planning", item.Caption, "semicolons stay inside quoted values")

	_, ok = parseMenuNode("MENUITEM(RunObjectType=Page)")
	assert.False(t, ok, "a node needs a name or caption")

	_, ok = parseMenuNode("random text")
	assert.False(t, ok)
}

func TestParseMenuNode_IncompleteRunTarget(t *testing.T) {
	item, ok := parseMenuNode("MENUITEM(Name=X;RunObjectType=Page)")
	require.True(t, ok)
	assert.Empty(t, item.RunObjectKind, "type without id resolves to no target")

	item, ok = parseMenuNode("MENUITEM(Name=Y;RunObjectID=42)")
	require.True(t, ok)
	assert.Empty(t, item.RunObjectKind)
	assert.Zero(t, item.RunObjectID)
}
