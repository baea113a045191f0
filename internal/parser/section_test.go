package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

func TestExtractSection(t *testing.T) {
	text := "OBJECT Table 3 Payment Terms\n" +
		"{\n" +
		"  OBJECT-PROPERTIES\n" +
		"  {\n" +
		"    Date=25.10.17;\n" +
		"  }\n" +
		"  PROPERTIES\n" +
		"  {\n" +
		"    CaptionML=ENU=Payment Terms;\n" +
		"  }\n" +
		"  FIELDS\n" +
		"  {\n" +
		"    { 1 ; ;Code ;Code10 }\n" +
		"  }\n" +
		"}\n"

	section, err := ExtractSection(text, "PROPERTIES")
	require.NoError(t, err)
	assert.Contains(t, section, "CaptionML")
	assert.NotContains(t, section, "Date=", "PROPERTIES must not match inside OBJECT-PROPERTIES")

	section, err = ExtractSection(text, "OBJECT-PROPERTIES")
	require.NoError(t, err)
	assert.Contains(t, section, "Date=25.10.17")

	section, err = ExtractSection(text, "FIELDS")
	require.NoError(t, err)
	assert.Contains(t, section, "Code10")
}

func TestExtractSection_Missing(t *testing.T) {
	_, err := ExtractSection("OBJECT Table 3 X\n{\n}\n", "KEYS")
	require.Error(t, err)
	var missing *types.MissingSectionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "KEYS", missing.Section)
}

func TestExtractSection_BracesInsideQuotes(t *testing.T) {
	text := "CODE\n{\n  PROCEDURE Foo@1();\n  BEGIN\n    MESSAGE('unbalanced } brace');\n  END;\n}\n"
	section, err := ExtractSection(text, "CODE")
	require.NoError(t, err)
	assert.Contains(t, section, "MESSAGE")
	assert.True(t, len(section) > 10)
	assert.Equal(t, byte('}'), section[len(section)-1])
}

func TestExtractSection_NestedBraces(t *testing.T) {
	text := "FIELDS\n{\n  { 1 ; ;Code ;Code10 }\n  { 2 ; ;Desc ;Text50 }\n}\nKEYS\n{\n  { ;Code ; Clustered=Yes }\n}\n"
	section, err := ExtractSection(text, "FIELDS")
	require.NoError(t, err)
	assert.Contains(t, section, "Text50")
	assert.NotContains(t, section, "Clustered")
}

func TestSkipQuoted_DoubledEscape(t *testing.T) {
	s := "'it''s fine' rest"
	end := skipQuoted(s, 0, '\'')
	assert.Equal(t, len("'it''s fine'"), end)
}

func TestSectionInterior(t *testing.T) {
	assert.Equal(t, "\n  a\n", sectionInterior("FIELDS\n{\n  a\n}"))
	assert.Equal(t, "", sectionInterior("FIELDS"))
}
