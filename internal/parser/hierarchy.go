package parser

// The tree-shaped sections (surface controls, report/query data items, port
// nodes, menu nodes) are exported flat, with nesting expressed through
// indentation. Reconstruction happens in two steps: deriveLevels turns
// indentation columns into integer levels, and buildTree links the flat
// (level, item) list into parent-child trees.

// deriveLevels converts indentation columns into nesting levels using only
// relative column changes between consecutive items: a wider column opens a
// new level, an equal column stays on the current level, and a narrower
// column pops back to the open level with that exact column. The second
// return value is the index of the first item whose narrower column matches
// no open level, or -1 when the sequence is well formed.
func deriveLevels(cols []int) ([]int, int) {
	if len(cols) == 0 {
		return nil, -1
	}

	levels := make([]int, len(cols))
	type open struct{ col, level int }
	stack := []open{{col: cols[0], level: 0}}
	levels[0] = 0

	for i := 1; i < len(cols); i++ {
		c := cols[i]
		top := stack[len(stack)-1]
		switch {
		case c > top.col:
			stack = append(stack, open{col: c, level: top.level + 1})
		case c == top.col:
			// Sibling of the current top.
		default:
			for len(stack) > 0 && stack[len(stack)-1].col > c {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 || stack[len(stack)-1].col != c {
				return nil, i
			}
		}
		levels[i] = stack[len(stack)-1].level
	}
	return levels, -1
}

// buildTree links items into trees by level: a single left-to-right pass
// with a stack, popping while the stack top's level is >= the incoming
// item's level. Items left on an empty stack become roots. Source order
// among siblings is preserved, identical-level runs become siblings, and a
// level drop of more than one closes several scopes at once.
func buildTree[T any](items []T, level func(T) int, addChild func(parent, child T)) []T {
	var roots []T
	var stack []T
	for _, item := range items {
		for len(stack) > 0 && level(stack[len(stack)-1]) >= level(item) {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, item)
		} else {
			addChild(stack[len(stack)-1], item)
		}
		stack = append(stack, item)
	}
	return roots
}
