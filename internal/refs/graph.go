package refs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Direction selects which edges a dependency lookup returns.
type Direction string

const (
	DirIncoming Direction = "incoming"
	DirOutgoing Direction = "outgoing"
	DirBoth     Direction = "both"
)

// ParseDirection resolves a direction token; the empty string means both.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirIncoming:
		return DirIncoming, true
	case DirOutgoing:
		return DirOutgoing, true
	case DirBoth, "":
		return DirBoth, true
	}
	return "", false
}

type sourceKey struct {
	kind types.ObjectKind
	id   int
}

// Index stores every extracted edge, looked up by source or by target.
// Like the symbol database it leaves synchronization to its callers.
type Index struct {
	bySource map[sourceKey][]types.Reference
	order    []sourceKey
}

// NewIndex creates an empty reference index.
func NewIndex() *Index {
	return &Index{bySource: make(map[sourceKey][]types.Reference)}
}

// Put extracts and stores the edges of one entity, replacing any previous
// edges with the same source.
func (ix *Index) Put(e types.Entity) {
	head := e.Header()
	key := sourceKey{kind: head.Kind, id: head.ID}
	if _, ok := ix.bySource[key]; !ok {
		ix.order = append(ix.order, key)
	}
	ix.bySource[key] = Extract(e)
}

// Outgoing returns the edges leaving one object.
func (ix *Index) Outgoing(kind types.ObjectKind, id int) []types.Reference {
	return ix.bySource[sourceKey{kind: kind, id: id}]
}

// Incoming returns the edges pointing at one object, matched by target id or
// case-insensitive target name.
func (ix *Index) Incoming(head types.ObjectHeader) []types.Reference {
	var in []types.Reference
	for _, key := range ix.order {
		for _, r := range ix.bySource[key] {
			if r.TargetKind != head.Kind {
				continue
			}
			if (r.TargetID != 0 && r.TargetID == head.ID) ||
				(r.TargetName != "" && strings.EqualFold(r.TargetName, head.Name)) {
				in = append(in, r)
			}
		}
	}
	return in
}

// All returns every stored edge in source insertion order.
func (ix *Index) All() []types.Reference {
	var out []types.Reference
	for _, key := range ix.order {
		out = append(out, ix.bySource[key]...)
	}
	return out
}

// Len returns the total edge count.
func (ix *Index) Len() int {
	n := 0
	for _, key := range ix.order {
		n += len(ix.bySource[key])
	}
	return n
}

// Clear drops every edge.
func (ix *Index) Clear() {
	ix.bySource = make(map[sourceKey][]types.Reference)
	ix.order = nil
}

// DependencyGraph is the neighborhood of one object.
type DependencyGraph struct {
	Object   types.ObjectHeader `json:"object"`
	Incoming []types.Reference  `json:"incoming,omitempty"`
	Outgoing []types.Reference  `json:"outgoing,omitempty"`
}

// Graph assembles the dependency neighborhood of one object in the requested
// direction, optionally keeping only edges whose far end has one of the
// given kinds.
func (ix *Index) Graph(head types.ObjectHeader, dir Direction, kinds []types.ObjectKind) DependencyGraph {
	g := DependencyGraph{Object: head}
	if dir == DirIncoming || dir == DirBoth {
		g.Incoming = filterByKind(ix.Incoming(head), kinds, func(r types.Reference) types.ObjectKind { return r.SourceKind })
	}
	if dir == DirOutgoing || dir == DirBoth {
		g.Outgoing = filterByKind(ix.Outgoing(head.Kind, head.ID), kinds, func(r types.Reference) types.ObjectKind { return r.TargetKind })
	}
	return g
}

func filterByKind(edges []types.Reference, kinds []types.ObjectKind, kindOf func(types.Reference) types.ObjectKind) []types.Reference {
	if len(kinds) == 0 {
		return edges
	}
	want := make(map[types.ObjectKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []types.Reference
	for _, r := range edges {
		if want[kindOf(r)] {
			out = append(out, r)
		}
	}
	return out
}

// RelationGroup is every edge landing on one target table.
type RelationGroup struct {
	Table string            `json:"table"`
	Edges []types.Reference `json:"edges"`
}

// RelationFilter narrows RelationMap output. The zero value keeps every
// table-targeting edge.
type RelationFilter struct {
	// SourceKind keeps only edges originating from this object kind.
	SourceKind types.ObjectKind
	// TableID keeps only edges targeting this table id. Edges that name
	// their target without an id never match a non-zero TableID.
	TableID int
	// SkipFormulas drops aggregate-formula edges, leaving relation
	// constraints and variable bindings.
	SkipFormulas bool
}

// RelationMap groups all table-targeting edges by their target table,
// sorted by table label. Targets named only by id group under "#<id>".
func (ix *Index) RelationMap(f RelationFilter) []RelationGroup {
	groups := make(map[string][]types.Reference)
	for _, key := range ix.order {
		for _, r := range ix.bySource[key] {
			if r.TargetKind != types.KindTable {
				continue
			}
			if f.SourceKind != "" && r.SourceKind != f.SourceKind {
				continue
			}
			if f.TableID != 0 && r.TargetID != f.TableID {
				continue
			}
			if f.SkipFormulas && r.Type == types.RefCalcFormula {
				continue
			}
			label := r.TargetName
			if label == "" {
				label = "#" + strconv.Itoa(r.TargetID)
			}
			groups[label] = append(groups[label], r)
		}
	}

	out := make([]RelationGroup, 0, len(groups))
	for table, edges := range groups {
		out = append(out, RelationGroup{Table: table, Edges: edges})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}
