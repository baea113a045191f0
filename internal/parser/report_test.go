package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

const customerListReportExport = `OBJECT Report 101 Customer - List
{
  OBJECT-PROPERTIES
  {
    Date=25.10.17;
    Time=12:00:00;
  }
  PROPERTIES
  {
    CaptionML=ENU=Customer - List;
  }
  DATASET
  {
    dataitem(Customer;Customer)
    {
      RequestFilterFields=No.,Search Name;
      column(No_Customer;"No.")
      {
      }
      column(Name_Customer;Name)
      {
        IncludeCaption=Yes;
      }
      dataitem("Cust. Ledger Entry";"Cust. Ledger Entry")
      {
        DataItemLink=Customer No.=FIELD(No.);
        column(Amount_CustLedgerEntry;Amount)
        {
        }
        filter(DateFilter;"Posting Date")
        {
        }
      }
    }
    dataitem(Totals;Integer)
    {
      DataItemTable=Table2000000026;
      column(GrandTotal;TotalAmount)
      {
      }
    }
  }
  CODE
  {
    VAR
      TotalAmount@1000 : Decimal;

    BEGIN
    END.
  }
}
`

func TestParseReport(t *testing.T) {
	obj, err := ParseReport(customerListReportExport)
	require.NoError(t, err)

	assert.Equal(t, types.KindReport, obj.Header().Kind)
	assert.Equal(t, 101, obj.Header().ID)

	require.Len(t, obj.DataItems, 2, "two roots")
	cust := obj.DataItems[0]
	assert.Equal(t, "Customer", cust.Name)
	assert.Equal(t, "Customer", cust.TableName)
	assert.Equal(t, 0, cust.Level)

	v, ok := cust.Properties.Get("RequestFilterFields")
	require.True(t, ok)
	assert.Equal(t, "No.,Search Name", v)

	require.Len(t, cust.Columns, 2)
	assert.Equal(t, "No_Customer", cust.Columns[0].Name)
	assert.Equal(t, "No.", cust.Columns[0].SourceExpr)
	v, ok = cust.Columns[1].Properties.Get("IncludeCaption")
	require.True(t, ok, "properties inside a column block attach to the column")
	assert.Equal(t, "Yes", v)

	require.Len(t, cust.Children, 1)
	ledger := cust.Children[0]
	assert.Equal(t, "Cust. Ledger Entry", ledger.Name)
	assert.Equal(t, 1, ledger.Level)
	_, ok = ledger.Properties.Get("DataItemLink")
	assert.True(t, ok, "properties outside column blocks attach to the data item")
	require.Len(t, ledger.Columns, 2)
	assert.False(t, ledger.Columns[0].IsFilter)
	assert.True(t, ledger.Columns[1].IsFilter)
	assert.Equal(t, "Posting Date", ledger.Columns[1].SourceExpr)

	totals := obj.DataItems[1]
	assert.Equal(t, "Totals", totals.Name)
	assert.Equal(t, 2000000026, totals.TableID)

	require.Len(t, obj.Columns, 5, "flattened columns keep source order")
	assert.Equal(t, "No_Customer", obj.Columns[0].Name)
	assert.Equal(t, "Customer", obj.Columns[0].DataItem)
	assert.Equal(t, "Amount_CustLedgerEntry", obj.Columns[2].Name)
	assert.Equal(t, "Cust. Ledger Entry", obj.Columns[2].DataItem)
	assert.Equal(t, "GrandTotal", obj.Columns[4].Name)

	require.Len(t, obj.Variables, 1)
	assert.Equal(t, "TotalAmount", obj.Variables[0].Name)
}

func TestParseReport_MissingDataset(t *testing.T) {
	_, err := ParseReport("OBJECT Report 50000 Empty\n{\n}\n")
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "DATASET", missing.Section)
}

func TestParseQuery(t *testing.T) {
	text := `OBJECT Query 101 Top Customers
{
  ELEMENTS
  {
    dataitem(Customer;Customer)
    {
      column(No;"No.")
      {
      }
      dataitem(Cust_Ledger_Entry;"Cust. Ledger Entry")
      {
        DataItemLink=Customer No.=Customer."No.";
        column(Amount;Amount)
        {
          Method=Sum;
        }
      }
    }
  }
}
`
	obj, err := ParseQuery(text)
	require.NoError(t, err)
	assert.Equal(t, types.KindQuery, obj.Header().Kind)
	require.Len(t, obj.DataItems, 1)
	require.Len(t, obj.DataItems[0].Children, 1)
	assert.Equal(t, "Cust. Ledger Entry", obj.DataItems[0].Children[0].TableName)
	require.Len(t, obj.Columns, 2)
	v, ok := obj.Columns[1].Properties.Get("Method")
	require.True(t, ok)
	assert.Equal(t, "Sum", v)
}

func TestParseQuery_MissingElements(t *testing.T) {
	_, err := ParseQuery("OBJECT Query 50000 Empty\n{\n}\n")
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ELEMENTS", missing.Section)
}

func TestParseDataItems_MalformedIndentation(t *testing.T) {
	body := "dataitem(A;Customer)\n{\n    dataitem(B;Vendor)\n    {\n  dataitem(C;Item)\n  {\n  }\n  }\n}\n"
	_, _, err := parseDataItems("DATASET", body)
	var malformed *types.MalformedHierarchyError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "C", malformed.Item)
}
