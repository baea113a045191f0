package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

func TestParse_DispatchesByKind(t *testing.T) {
	entity, err := Parse(paymentTermsExport)
	require.NoError(t, err)
	assert.Equal(t, types.KindTable, entity.Kind())
	_, ok := entity.(*types.TableObject)
	assert.True(t, ok)

	entity, err = Parse(paymentTermsPageExport)
	require.NoError(t, err)
	assert.Equal(t, types.KindPage, entity.Kind())

	entity, err = Parse(salesPostExport)
	require.NoError(t, err)
	assert.Equal(t, types.KindCodeunit, entity.Kind())

	entity, err = Parse(customerListReportExport)
	require.NoError(t, err)
	assert.Equal(t, types.KindReport, entity.Kind())

	entity, err = Parse(importCustomersExport)
	require.NoError(t, err)
	assert.Equal(t, types.KindXMLport, entity.Kind())

	entity, err = Parse(deptSalesExport)
	require.NoError(t, err)
	assert.Equal(t, types.KindMenuSuite, entity.Kind())
}

func TestParse_StripsByteOrderMark(t *testing.T) {
	entity, err := Parse("\uFEFF" + paymentTermsExport)
	require.NoError(t, err)
	assert.Equal(t, 3, entity.Header().ID)
}

func TestParse_TruncatedCodeBlock(t *testing.T) {
	// A BEGIN whose END was cut off must not take down the whole batch.
	require.NotPanics(t, func() {
		Parse("OBJECT Codeunit 50000 T\n{\n  CODE\n  {\n    BEGIN}\n}")
	})
}

func TestParse_BadDeclaration(t *testing.T) {
	_, err := Parse("OBJECT Dataport 100 Export\n{\n}\n")
	var decl *types.InvalidDeclarationError
	require.ErrorAs(t, err, &decl)

	_, err = Parse("")
	assert.Error(t, err)
}
