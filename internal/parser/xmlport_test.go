package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

const importCustomersExport = `OBJECT XMLport 9170 Import Customers
{
  OBJECT-PROPERTIES
  {
    Date=25.10.17;
    Time=12:00:00;
  }
  PROPERTIES
  {
    Direction=Import;
    Format=Xml;
  }
  ELEMENTS
  {
    ELEMENT;Root;Element
      ELEMENT;Customer;Element;SourceTable=Table18
        ELEMENT;No;Field;SourceField=Customer::No.
        ELEMENT;Name;Field;SourceField=Customer::Name
        ELEMENT;Blocked;Attribute
      ELEMENT;Trailer;Text
  }
  CODE
  {
    VAR
      ImportCount@1000 : Integer;

    BEGIN
    END.
  }
}
`

func TestParseXMLPort(t *testing.T) {
	obj, err := ParseXMLPort(importCustomersExport)
	require.NoError(t, err)

	assert.Equal(t, types.KindXMLport, obj.Header().Kind)
	assert.Equal(t, 9170, obj.Header().ID)

	v, ok := obj.Properties.Get("Direction")
	require.True(t, ok)
	assert.Equal(t, "Import", v)

	require.Len(t, obj.Nodes, 1)
	root := obj.Nodes[0]
	assert.Equal(t, "Root", root.Name)
	assert.Equal(t, types.PortElement, root.NodeType)
	require.Len(t, root.Children, 2)

	cust := root.Children[0]
	assert.Equal(t, "Customer", cust.Name)
	assert.Equal(t, 18, cust.SourceTableID)
	require.Len(t, cust.Children, 3)
	assert.Equal(t, types.PortField, cust.Children[0].NodeType)
	assert.Equal(t, types.PortAttribute, cust.Children[2].NodeType)

	v, ok = cust.Children[0].Properties.Get("SourceField")
	require.True(t, ok)
	assert.Equal(t, "Customer::No.", v)

	trailer := root.Children[1]
	assert.Equal(t, "Trailer", trailer.Name)
	assert.Equal(t, types.PortText, trailer.NodeType)

	require.Len(t, obj.Variables, 1)
	assert.Equal(t, "ImportCount", obj.Variables[0].Name)
}

func TestParseXMLPort_MissingElements(t *testing.T) {
	_, err := ParseXMLPort("OBJECT XMLport 50000 Empty\n{\n}\n")
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ELEMENTS", missing.Section)
}

func TestParseXMLPort_MalformedHierarchy(t *testing.T) {
	text := "OBJECT XMLport 1 X\n{\n  ELEMENTS\n  {\n    ELEMENT;A;Element\n        ELEMENT;B;Field\n      ELEMENT;C;Field\n  }\n}\n"
	_, err := ParseXMLPort(text)
	var malformed *types.MalformedHierarchyError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "C", malformed.Item)
}

func TestParsePortNode(t *testing.T) {
	node, ok := parsePortNode(`ELEMENT;"Ship-to Address";Element;SourceTable=Table222`)
	require.True(t, ok)
	assert.Equal(t, "Ship-to Address", node.Name)
	assert.Equal(t, 222, node.SourceTableID)

	node, ok = parsePortNode("ELEMENT;NoKind")
	require.True(t, ok)
	assert.Equal(t, types.PortElement, node.NodeType, "missing kind slot defaults to Element")

	_, ok = parsePortNode("NODE;Name;Element")
	assert.False(t, ok)
	_, ok = parsePortNode("ELEMENT;;Element")
	assert.False(t, ok)
}
