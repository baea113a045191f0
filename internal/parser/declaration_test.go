package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

func TestParseDeclaration_Valid(t *testing.T) {
	tests := []struct {
		line string
		kind types.ObjectKind
		id   int
		name string
	}{
		{"OBJECT Table 3 Payment Terms", types.KindTable, 3, "Payment Terms"},
		{"OBJECT Page 21 Customer Card", types.KindPage, 21, "Customer Card"},
		{"OBJECT Codeunit 80 Sales-Post", types.KindCodeunit, 80, "Sales-Post"},
		{"OBJECT XMLport 9170 Import Customers", types.KindXMLport, 9170, "Import Customers"},
		{"OBJECT MenuSuite 1010 Dept - Sales", types.KindMenuSuite, 1010, "Dept - Sales"},
		{"  OBJECT Query 101 Top Customers  ", types.KindQuery, 101, "Top Customers"},
	}

	for _, tt := range tests {
		head, err := ParseDeclaration(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.kind, head.Kind)
		assert.Equal(t, tt.id, head.ID)
		assert.Equal(t, tt.name, head.Name)
	}
}

func TestParseDeclaration_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"unknown kind", "OBJECT Widget 3 Payment Terms"},
		{"retired kind", "OBJECT Dataport 100 Export"},
		{"non-numeric id", "OBJECT Table abc Payment Terms"},
		{"missing name", "OBJECT Table 3"},
		{"zero id", "OBJECT Table 0 Foo"},
		{"no OBJECT keyword", "Table 3 Payment Terms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeclaration(tt.line)
			require.Error(t, err)
			var decl *types.InvalidDeclarationError
			assert.ErrorAs(t, err, &decl)
		})
	}
}

func TestParseMetadata(t *testing.T) {
	text := "OBJECT Table 3 Payment Terms\n" +
		"{\n" +
		"  OBJECT-PROPERTIES\n" +
		"  {\n" +
		"    Date=25.10.17;\n" +
		"    Time=[ 12:00:00 ];\n" +
		"    Version List=NAVW111.00;\n" +
		"  }\n" +
		"}\n"

	meta := ParseMetadata(text)
	assert.Equal(t, "25.10.17", meta.Date)
	assert.Equal(t, "12:00:00", meta.Time, "bracket-wrapped values are unwrapped")
	assert.Equal(t, "NAVW111.00", meta.VersionList)
}

func TestParseMetadata_AbsentBlock(t *testing.T) {
	meta := ParseMetadata("OBJECT Table 3 Payment Terms\n{\n}\n")
	assert.Equal(t, types.ObjectMetadata{}, meta, "absent block yields all-empty metadata, never an error")
}

func TestParseMetadata_PartialBlock(t *testing.T) {
	text := "OBJECT Table 3 X\n{\n  OBJECT-PROPERTIES\n  {\n    Date=01.01.20;\n  }\n}\n"
	meta := ParseMetadata(text)
	assert.Equal(t, "01.01.20", meta.Date)
	assert.Empty(t, meta.Time)
	assert.Empty(t, meta.VersionList)
}
