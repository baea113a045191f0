package codeindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func testCodeunit() *types.CodeunitObject {
	return &types.CodeunitObject{
		Head:  types.ObjectHeader{Kind: types.KindCodeunit, ID: 80, Name: "Sales-Post"},
		OnRun: "Post(Rec);",
		Procedures: []types.Procedure{
			{ID: 1, Name: "Post", Body: "CheckLines;\nPostLines;\nCommitAndPrint;"},
			{ID: 2, Name: "CheckLines", Body: "IF SalesLine.FINDSET THEN\n  REPEAT\n    TestLine(SalesLine);\n  UNTIL SalesLine.NEXT = 0;"},
		},
	}
}

func TestIndexEntityAndSearch(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.IndexEntity(ctx, testCodeunit()))

	hits, err := ix.Search(ctx, "PostLines", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, types.KindCodeunit, hits[0].SourceKind)
	assert.Equal(t, 80, hits[0].SourceID)
	assert.Equal(t, "Sales-Post", hits[0].SourceName)
	assert.Equal(t, "procedure:Post", hits[0].Container)
	assert.Equal(t, 2, hits[0].LineNo)
	assert.Equal(t, "PostLines;", hits[0].Line)

	hits, err = ix.Search(ctx, "salesline", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3, "matching is case-insensitive")

	hits, err = ix.Search(ctx, "NoSuchCall", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexEntity_TableTriggers(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	table := &types.TableObject{
		Head: types.ObjectHeader{Kind: types.KindTable, ID: 3, Name: "Payment Terms"},
		Fields: []types.Field{
			{ID: 3, Name: "Discount %", OnValidate: "TestDiscount;"},
		},
	}
	require.NoError(t, ix.IndexEntity(ctx, table))

	hits, err := ix.Search(ctx, "TestDiscount", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "trigger:Discount %.OnValidate", hits[0].Container)
}

func TestIndexEntity_ReplacesStaleLines(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	cu := testCodeunit()
	require.NoError(t, ix.IndexEntity(ctx, cu))
	before, err := ix.LineCount(ctx)
	require.NoError(t, err)
	require.NotZero(t, before)

	cu.Procedures = cu.Procedures[:1]
	require.NoError(t, ix.IndexEntity(ctx, cu))

	hits, err := ix.Search(ctx, "TestLine", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "dropped procedures leave no lines behind")

	after, err := ix.LineCount(ctx)
	require.NoError(t, err)
	assert.Less(t, after, before)
}

func TestSearch_LikeMetacharactersAreLiteral(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	cu := &types.CodeunitObject{
		Head: types.ObjectHeader{Kind: types.KindCodeunit, ID: 1, Name: "X"},
		Procedures: []types.Procedure{
			{ID: 1, Name: "A", Body: "Discount := 100 % Rate;\nOther_Line;"},
		},
	}
	require.NoError(t, ix.IndexEntity(ctx, cu))

	hits, err := ix.Search(ctx, "100 % Rate", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = ix.Search(ctx, "r_Line", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1, "underscore matches itself, not any character")
	assert.Equal(t, "Other_Line;", hits[0].Line)
}

func TestSearch_EmptyQuery(t *testing.T) {
	ix := newTestIndex(t)
	_, err := ix.Search(context.Background(), "   ", 10)
	assert.Error(t, err)
}

func TestSearch_Limit(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, ix.IndexEntity(ctx, testCodeunit()))

	hits, err := ix.Search(ctx, "SalesLine", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestDeleteAndClear(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, ix.IndexEntity(ctx, testCodeunit()))

	require.NoError(t, ix.Delete(ctx, types.KindCodeunit, 80))
	n, err := ix.LineCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, ix.IndexEntity(ctx, testCodeunit()))
	require.NoError(t, ix.Clear(ctx))
	n, err = ix.LineCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
