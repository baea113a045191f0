package symboldb

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// searchCacheSize bounds the memoized search pages.
const searchCacheSize = 512

// summaryPrefix is how many member names a summary carries per category;
// counts stay exact.
const summaryPrefix = 10

// Key identifies an object: ids are unique per kind, not globally.
type Key struct {
	Kind types.ObjectKind
	ID   int
}

// searchPage is one cached search result.
type searchPage struct {
	entities []types.Entity
	total    int
}

// Database is the in-memory symbol store.
type Database struct {
	byKey  map[Key]types.Entity
	byName map[types.ObjectKind]map[string]types.Entity
	order  []Key

	fields map[Key][]types.Field
	procs  map[Key][]types.Procedure

	searches *lru.Cache[[32]byte, searchPage]
}

// New creates an empty database.
func New() *Database {
	cache, err := lru.New[[32]byte, searchPage](searchCacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create search cache: %v", err))
	}
	return &Database{
		byKey:    make(map[Key]types.Entity),
		byName:   make(map[types.ObjectKind]map[string]types.Entity),
		fields:   make(map[Key][]types.Field),
		procs:    make(map[Key][]types.Procedure),
		searches: cache,
	}
}

// Insert stores an entity, fully replacing any previous object with the same
// kind and id: the old name entry and secondary indices are dropped in the
// same step, so no stale entry survives. A replaced object keeps its
// original insertion-order position.
func (db *Database) Insert(e types.Entity) {
	head := e.Header()
	key := Key{Kind: head.Kind, ID: head.ID}

	if old, ok := db.byKey[key]; ok {
		db.dropNameEntry(old)
	} else {
		db.order = append(db.order, key)
	}
	db.byKey[key] = e

	names := db.byName[head.Kind]
	if names == nil {
		names = make(map[string]types.Entity)
		db.byName[head.Kind] = names
	}
	names[strings.ToLower(head.Name)] = e

	db.fields[key] = entityFields(e)
	db.procs[key] = entityProcedures(e)

	db.searches.Purge()
}

func (db *Database) dropNameEntry(e types.Entity) {
	head := e.Header()
	if names := db.byName[head.Kind]; names != nil {
		lower := strings.ToLower(head.Name)
		// Another object of the same kind may have claimed the name since.
		if cur, ok := names[lower]; ok && cur.Header().ID == head.ID {
			delete(names, lower)
		}
	}
}

// Get returns the object with the given kind and id.
func (db *Database) Get(kind types.ObjectKind, id int) (types.Entity, error) {
	e, ok := db.byKey[Key{Kind: kind, ID: id}]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", kind, id, types.ErrNotFound)
	}
	return e, nil
}

// GetByIDOrName resolves an object by numeric id first, then by
// case-insensitive name.
func (db *Database) GetByIDOrName(kind types.ObjectKind, idOrName string) (types.Entity, error) {
	s := strings.TrimSpace(idOrName)
	if id, err := strconv.Atoi(s); err == nil {
		if e, ok := db.byKey[Key{Kind: kind, ID: id}]; ok {
			return e, nil
		}
	}
	if e, ok := db.byName[kind][strings.ToLower(s)]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%s %q: %w", kind, idOrName, types.ErrNotFound)
}

// SearchRequest scopes a wildcard name search. An empty pattern matches
// everything; an empty kind list means all kinds.
type SearchRequest struct {
	Pattern string
	Kinds   []types.ObjectKind
	Offset  int
	Limit   int
}

// Search returns the page of objects whose names match the request's
// wildcard pattern, in insertion order, plus the total match count. An
// offset beyond the matches yields an empty page.
func (db *Database) Search(req SearchRequest) ([]types.Entity, int, error) {
	re, err := CompileWildcard(req.Pattern)
	if err != nil {
		return nil, 0, err
	}

	key := req.cacheKey()
	if page, ok := db.searches.Get(key); ok {
		return page.entities, page.total, nil
	}

	kinds := make(map[types.ObjectKind]bool, len(req.Kinds))
	for _, k := range req.Kinds {
		kinds[k] = true
	}

	var matches []types.Entity
	for _, k := range db.order {
		if len(kinds) > 0 && !kinds[k.Kind] {
			continue
		}
		e := db.byKey[k]
		if re.MatchString(e.Header().Name) {
			matches = append(matches, e)
		}
	}

	total := len(matches)
	start := req.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if req.Limit > 0 && start+req.Limit < end {
		end = start + req.Limit
	}
	page := searchPage{entities: matches[start:end], total: total}
	db.searches.Add(key, page)
	return page.entities, page.total, nil
}

func (req SearchRequest) cacheKey() [32]byte {
	var b strings.Builder
	b.WriteString(req.Pattern)
	for _, k := range req.Kinds {
		b.WriteByte('|')
		b.WriteString(string(k))
	}
	fmt.Fprintf(&b, "|%d|%d", req.Offset, req.Limit)
	return sha256.Sum256([]byte(b.String()))
}

// CompileWildcard turns a `*`-wildcard pattern into an anchored,
// case-insensitive regexp. Everything except `*` matches literally.
func CompileWildcard(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = "*"
	}
	var b strings.Builder
	b.WriteString("(?i)^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// FieldsOf returns the indexed fields of a table object.
func (db *Database) FieldsOf(kind types.ObjectKind, id int) []types.Field {
	return db.fields[Key{Kind: kind, ID: id}]
}

// ProceduresOf returns the indexed procedures of an object.
func (db *Database) ProceduresOf(kind types.ObjectKind, id int) []types.Procedure {
	return db.procs[Key{Kind: kind, ID: id}]
}

// Summary is a compact view of one object: exact member counts plus a name
// prefix per category.
type Summary struct {
	Header         types.ObjectHeader `json:"header"`
	FieldCount     int                `json:"fieldCount"`
	Fields         []string           `json:"fields,omitempty"`
	KeyCount       int                `json:"keyCount,omitempty"`
	ProcedureCount int                `json:"procedureCount"`
	Procedures     []string           `json:"procedures,omitempty"`
	ControlCount   int                `json:"controlCount,omitempty"`
	ActionCount    int                `json:"actionCount,omitempty"`
	VariableCount  int                `json:"variableCount,omitempty"`
	DataItemCount  int                `json:"dataItemCount,omitempty"`
	ColumnCount    int                `json:"columnCount,omitempty"`
}

// Summarize builds the summary of one stored object.
func (db *Database) Summarize(kind types.ObjectKind, idOrName string) (Summary, error) {
	e, err := db.GetByIDOrName(kind, idOrName)
	if err != nil {
		return Summary{}, err
	}

	head := e.Header()
	key := Key{Kind: head.Kind, ID: head.ID}
	s := Summary{Header: head}

	fields := db.fields[key]
	s.FieldCount = len(fields)
	for _, f := range fields[:min(len(fields), summaryPrefix)] {
		s.Fields = append(s.Fields, f.Name)
	}
	procs := db.procs[key]
	s.ProcedureCount = len(procs)
	for _, p := range procs[:min(len(procs), summaryPrefix)] {
		s.Procedures = append(s.Procedures, p.Name)
	}

	switch obj := e.(type) {
	case *types.TableObject:
		s.KeyCount = len(obj.Keys)
		s.VariableCount = len(obj.Variables)
	case *types.SurfaceObject:
		s.ControlCount = countControls(obj.Controls)
		s.ActionCount = len(obj.Actions)
		s.VariableCount = len(obj.Variables)
	case *types.CodeunitObject:
		s.VariableCount = len(obj.Variables)
	case *types.ReportObject:
		s.DataItemCount = countDataItems(obj.DataItems)
		s.ColumnCount = len(obj.Columns)
		s.VariableCount = len(obj.Variables)
	case *types.QueryObject:
		s.DataItemCount = countDataItems(obj.DataItems)
		s.ColumnCount = len(obj.Columns)
		s.VariableCount = len(obj.Variables)
	case *types.XMLPortObject:
		s.VariableCount = len(obj.Variables)
	}
	return s, nil
}

// Stats are per-kind and total object counts.
type Stats struct {
	Total  int                      `json:"total"`
	ByKind map[types.ObjectKind]int `json:"byKind"`
}

// Stats returns index-wide counts.
func (db *Database) Stats() Stats {
	s := Stats{ByKind: make(map[types.ObjectKind]int)}
	for _, k := range db.order {
		s.ByKind[k.Kind]++
		s.Total++
	}
	return s
}

// All returns every stored object in insertion order.
func (db *Database) All() []types.Entity {
	out := make([]types.Entity, 0, len(db.order))
	for _, k := range db.order {
		out = append(out, db.byKey[k])
	}
	return out
}

// Len returns the number of stored objects.
func (db *Database) Len() int { return len(db.order) }

// Clear drops every object and index.
func (db *Database) Clear() {
	db.byKey = make(map[Key]types.Entity)
	db.byName = make(map[types.ObjectKind]map[string]types.Entity)
	db.order = nil
	db.fields = make(map[Key][]types.Field)
	db.procs = make(map[Key][]types.Procedure)
	db.searches.Purge()
}

func countControls(cs []*types.Control) int {
	n := 0
	for _, c := range cs {
		n += 1 + countControls(c.Children)
	}
	return n
}

func countDataItems(ds []*types.DataItem) int {
	n := 0
	for _, d := range ds {
		n += 1 + countDataItems(d.Children)
	}
	return n
}

func entityFields(e types.Entity) []types.Field {
	if t, ok := e.(*types.TableObject); ok {
		return t.Fields
	}
	return nil
}

func entityProcedures(e types.Entity) []types.Procedure {
	switch obj := e.(type) {
	case *types.TableObject:
		return obj.Procedures
	case *types.SurfaceObject:
		return obj.Procedures
	case *types.CodeunitObject:
		return obj.Procedures
	case *types.ReportObject:
		return obj.Procedures
	case *types.QueryObject:
		return obj.Procedures
	case *types.XMLPortObject:
		return obj.Procedures
	}
	return nil
}
