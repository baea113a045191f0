package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

const paymentTermsExport = `OBJECT Table 3 Payment Terms
{
  OBJECT-PROPERTIES
  {
    Date=25.10.17;
    Time=12:00:00;
    Version List=NAVW111.00;
  }
  PROPERTIES
  {
    CaptionML=ENU=Payment Terms;
    LookupPageID=Page4;
    OnDelete=BEGIN
               PaymentTermsTranslation.SETRANGE("Payment Term",Code);
               PaymentTermsTranslation.DELETEALL;
             END;

  }
  FIELDS
  {
    { 1   ;   ;Code                ;Code10        ;CaptionML=ENU=Code;
                                                   NotBlank=Yes }
    { 2   ;   ;Due Date Calculation;DateFormula   ;CaptionML=ENU=Due Date Calculation }
    { 3   ;   ;Discount %          ;Decimal       ;CaptionML=ENU=Discount %;
                                                   DecimalPlaces=0:5;
                                                   MinValue=0;
                                                   MaxValue=100 }
    { 5   ;   ;Description         ;Text50        ;CaptionML=ENU=Description }
    { 8   ;   ;Payment Nos.        ;Integer       ;FieldClass=FlowField;
                                                   CalcFormula=Count("Cust. Ledger Entry" WHERE (Payment Terms Code=FIELD(Code))) }
  }
  KEYS
  {
    {    ;Code                                    ;Clustered=Yes }
    { No ;Description                              }
  }
  FIELDGROUPS
  {
    { 1   ;DropDown  ;Code,Description,"Due Date Calculation" }
  }
  CODE
  {
    VAR
      PaymentTermsTranslation@1000 : Record 462;

    PROCEDURE TranslateDescription@1(VAR PaymentTerms@1001 : Record 3;Language@1002 : Code[10]);
    BEGIN
      IF PaymentTermsTranslation.GET(PaymentTerms.Code,Language) THEN
        PaymentTerms.Description := PaymentTermsTranslation.Description;
    END;

    BEGIN
    END.
  }
}
`

func TestParseTable_PaymentTerms(t *testing.T) {
	obj, err := ParseTable(paymentTermsExport)
	require.NoError(t, err)

	head := obj.Header()
	assert.Equal(t, types.KindTable, head.Kind)
	assert.Equal(t, 3, head.ID)
	assert.Equal(t, "Payment Terms", head.Name)
	assert.Equal(t, "NAVW111.00", head.Meta.VersionList)

	require.Len(t, obj.Fields, 5)

	f := obj.Fields[0]
	assert.Equal(t, 1, f.ID)
	assert.Equal(t, "Code", f.Name)
	assert.Equal(t, "Code10", f.DataType)
	v, ok := f.Properties.Get("NotBlank")
	require.True(t, ok)
	assert.Equal(t, "Yes", v)

	f = obj.Fields[1]
	assert.Equal(t, "Due Date Calculation", f.Name)
	assert.Equal(t, "DateFormula", f.DataType)

	f = obj.Fields[4]
	assert.Equal(t, "Payment Nos.", f.Name)
	require.NotEmpty(t, f.CalcFormula)
	ref, ok := ParseCalcFormula(f.CalcFormula)
	require.True(t, ok)
	assert.Equal(t, "Cust. Ledger Entry", ref.Table)

	require.Len(t, obj.Keys, 2)
	assert.Equal(t, []string{"Code"}, obj.Keys[0].Fields)
	assert.True(t, obj.Keys[0].Clustered)
	assert.True(t, obj.Keys[0].Enabled)
	assert.False(t, obj.Keys[1].Enabled)
	assert.False(t, obj.Keys[1].Clustered)

	require.Len(t, obj.FieldGroups, 1)
	assert.Equal(t, "DropDown", obj.FieldGroups[0].Name)
	assert.Equal(t, []string{"Code", "Description", "Due Date Calculation"}, obj.FieldGroups[0].Fields)

	v, ok = obj.Properties.Get("LookupPageID")
	require.True(t, ok)
	assert.Equal(t, "Page4", v)
	v, ok = obj.Properties.Get("OnDelete")
	require.True(t, ok)
	assert.Contains(t, v, "DELETEALL")

	require.Len(t, obj.Variables, 1)
	assert.Equal(t, 462, obj.Variables[0].SubtypeID)
	require.Len(t, obj.Procedures, 1)
	assert.Equal(t, "TranslateDescription", obj.Procedures[0].Name)
	require.Len(t, obj.Procedures[0].Parameters, 2)
	assert.True(t, obj.Procedures[0].Parameters[0].ByRef)
}

func TestParseTable_MissingFields(t *testing.T) {
	text := "OBJECT Table 50000 Broken\n{\n  KEYS\n  {\n    { ;Code }\n  }\n}\n"
	_, err := ParseTable(text)
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "FIELDS", missing.Section)
}

func TestParseTable_MissingKeys(t *testing.T) {
	text := "OBJECT Table 50000 Broken\n{\n  FIELDS\n  {\n    { 1 ; ;Code ;Code10 }\n  }\n}\n"
	_, err := ParseTable(text)
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "KEYS", missing.Section)
}

func TestParseTable_KindMismatch(t *testing.T) {
	_, err := ParseTable("OBJECT Codeunit 80 Sales-Post\n{\n}\n")
	var mismatch *types.KindMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, types.KindTable, mismatch.Want)
	assert.Equal(t, types.KindCodeunit, mismatch.Got)
}

func TestParseFieldRecord_TriggerStripping(t *testing.T) {
	f, ok := parseFieldRecord(` 2 ; ;Discount % ;Decimal ;OnValidate=BEGIN
                                             TestDiscount;
                                           END;
 MinValue=0`)
	require.True(t, ok)
	assert.Equal(t, "TestDiscount;", f.OnValidate)
	v, ok := f.Properties.Get("MinValue")
	require.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestParseFieldRecord_BareTriggerMarker(t *testing.T) {
	f, ok := parseFieldRecord(" 1 ; ;Code ;Code10 ;OnValidate=BEGIN ")
	require.True(t, ok)
	assert.Equal(t, "Code", f.Name)
	assert.Empty(t, f.OnValidate)
}

func TestParseFieldRecord_Skipped(t *testing.T) {
	_, ok := parseFieldRecord(" x ; ;Code ;Code10 ")
	assert.False(t, ok, "non-numeric id")

	_, ok = parseFieldRecord(" 1 ; ; ;Code10 ")
	assert.False(t, ok, "empty name")

	_, ok = parseFieldRecord(" 1 ; ;Code ")
	assert.False(t, ok, "too few slots")
}

func TestParseKeyRecord_EmptyFieldList(t *testing.T) {
	_, ok := parseKeyRecord("  ;  ")
	assert.False(t, ok)
}
