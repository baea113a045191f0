package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLevels(t *testing.T) {
	tests := []struct {
		name   string
		cols   []int
		levels []int
	}{
		{"empty", nil, nil},
		{"single", []int{4}, []int{0}},
		{"flat siblings", []int{4, 4, 4}, []int{0, 0, 0}},
		{"one deep", []int{4, 6, 6}, []int{0, 1, 1}},
		{"pop to root", []int{4, 6, 8, 4}, []int{0, 1, 2, 0}},
		{"multi-level drop", []int{2, 4, 6, 8, 2}, []int{0, 1, 2, 3, 0}},
		{"irregular widths", []int{0, 3, 10, 3, 0}, []int{0, 1, 2, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels, bad := deriveLevels(tt.cols)
			assert.Equal(t, -1, bad)
			assert.Equal(t, tt.levels, levels)
		})
	}
}

func TestDeriveLevels_Malformed(t *testing.T) {
	// 5 pops past 6 but matches no open column.
	levels, bad := deriveLevels([]int{4, 6, 8, 5})
	assert.Nil(t, levels)
	assert.Equal(t, 3, bad)

	// Narrower than the first item.
	_, bad = deriveLevels([]int{4, 2})
	assert.Equal(t, 1, bad)
}

type testNode struct {
	name     string
	level    int
	children []*testNode
}

func TestBuildTree(t *testing.T) {
	nodes := []*testNode{
		{name: "a", level: 0},
		{name: "b", level: 1},
		{name: "c", level: 2},
		{name: "d", level: 2},
		{name: "e", level: 1},
		{name: "f", level: 0},
	}

	roots := buildTree(nodes, func(n *testNode) int { return n.level }, func(p, c *testNode) {
		p.children = append(p.children, c)
	})

	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].name)
	assert.Equal(t, "f", roots[1].name)
	require.Len(t, roots[0].children, 2)
	assert.Equal(t, "b", roots[0].children[0].name)
	assert.Equal(t, "e", roots[0].children[1].name)
	require.Len(t, roots[0].children[0].children, 2)
	assert.Equal(t, "c", roots[0].children[0].children[0].name)
	assert.Equal(t, "d", roots[0].children[0].children[1].name)
}

// A preorder walk of the built tree must recover the original flat sequence.
func TestBuildTree_PreorderRecoversInput(t *testing.T) {
	levels := []int{0, 1, 2, 2, 3, 1, 1, 0, 1}
	nodes := make([]*testNode, len(levels))
	for i, lv := range levels {
		nodes[i] = &testNode{name: string(rune('a' + i)), level: lv}
	}

	roots := buildTree(nodes, func(n *testNode) int { return n.level }, func(p, c *testNode) {
		p.children = append(p.children, c)
	})

	var walked []*testNode
	var walk func(ns []*testNode)
	walk = func(ns []*testNode) {
		for _, n := range ns {
			walked = append(walked, n)
			walk(n.children)
		}
	}
	walk(roots)

	require.Len(t, walked, len(nodes))
	for i, n := range walked {
		assert.Same(t, nodes[i], n, "preorder position %d", i)
	}
}

func TestBuildTree_DeepDropClosesSeveralScopes(t *testing.T) {
	nodes := []*testNode{
		{name: "a", level: 0},
		{name: "b", level: 1},
		{name: "c", level: 2},
		{name: "d", level: 0},
	}
	roots := buildTree(nodes, func(n *testNode) int { return n.level }, func(p, c *testNode) {
		p.children = append(p.children, c)
	})
	require.Len(t, roots, 2)
	assert.Empty(t, roots[1].children)
}
