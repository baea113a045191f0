package types

// Property is a single name/value pair from a property list. Values are kept
// raw: booleans, numbers, bracketed multi-language captions and embedded
// trigger bodies all stay as source text.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Properties is an ordered property bag.
type Properties []Property

// Get returns the value of the first property with the given name
// (case-insensitive) and whether it was present.
func (ps Properties) Get(name string) (string, bool) {
	for _, p := range ps {
		if equalFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// equalFold is a tiny ASCII-only fold; property names never contain
// non-ASCII letters.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Field is one field of a table object.
type Field struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	DataType      string     `json:"dataType"`
	Properties    Properties `json:"properties,omitempty"`
	CalcFormula   string     `json:"calcFormula,omitempty"`
	TableRelation string     `json:"tableRelation,omitempty"`
	OnValidate    string     `json:"onValidate,omitempty"`
	OnLookup      string     `json:"onLookup,omitempty"`
}

// Key is one key of a table object: an ordered field-name list plus flags.
type Key struct {
	Fields     []string   `json:"fields"`
	Enabled    bool       `json:"enabled"`
	Clustered  bool       `json:"clustered"`
	Unique     bool       `json:"unique"`
	Properties Properties `json:"properties,omitempty"`
}

// FieldGroup is a named subset of a table's fields.
type FieldGroup struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// Parameter is a single procedure parameter.
type Parameter struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
	ByRef    bool   `json:"byRef"`
}

// Variable is a typed variable declaration from a VAR block or a parameter
// list. Exactly one payload group is populated depending on the declared
// type: SubtypeID for numeric object references (`Record 18`), Subtype for
// quoted or bare name references, Assembly/TypeName for external-type
// bindings, TextConst/TranslatorComment for localized-text constants.
type Variable struct {
	Name     string `json:"name"`
	ID       int    `json:"id,omitempty"`
	DataType string `json:"dataType"`

	SubtypeID int    `json:"subtypeId,omitempty"`
	Subtype   string `json:"subtype,omitempty"`

	Assembly string `json:"assembly,omitempty"`
	TypeName string `json:"typeName,omitempty"`

	TextConst         map[string]string `json:"textConst,omitempty"`
	TranslatorComment string            `json:"translatorComment,omitempty"`

	Temporary bool `json:"temporary,omitempty"`
}

// Procedure is a named procedure with an opaque body.
type Procedure struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters,omitempty"`
	ReturnType string      `json:"returnType,omitempty"`
	Locals     []Variable  `json:"locals,omitempty"`
	Body       string      `json:"body,omitempty"`
	Local      bool        `json:"local,omitempty"`
}

// Control is one node of a surface's control tree.
type Control struct {
	ID         int        `json:"id"`
	Type       string     `json:"type"`
	Level      int        `json:"level"`
	SourceExpr string     `json:"sourceExpr,omitempty"`
	Properties Properties `json:"properties,omitempty"`
	Children   []*Control `json:"children,omitempty"`
}

// Action is one entry of a surface's flat action list.
type Action struct {
	ID            int        `json:"id"`
	Type          string     `json:"type"`
	Name          string     `json:"name,omitempty"`
	RunObjectKind ObjectKind `json:"runObjectKind,omitempty"`
	RunObjectID   int        `json:"runObjectId,omitempty"`
	Properties    Properties `json:"properties,omitempty"`
}

// Column is one column or filter of a report/query data item.
type Column struct {
	Name       string     `json:"name"`
	SourceExpr string     `json:"sourceExpr"`
	IsFilter   bool       `json:"isFilter,omitempty"`
	Properties Properties `json:"properties,omitempty"`
	DataItem   string     `json:"dataItem,omitempty"`
}

// DataItem is one node of a report or query data-item tree.
type DataItem struct {
	Name       string      `json:"name"`
	TableName  string      `json:"tableName,omitempty"`
	TableID    int         `json:"tableId,omitempty"`
	Level      int         `json:"level"`
	Columns    []Column    `json:"columns,omitempty"`
	Properties Properties  `json:"properties,omitempty"`
	Children   []*DataItem `json:"children,omitempty"`
}

// PortNodeType classifies a data-port node.
type PortNodeType string

const (
	PortElement   PortNodeType = "Element"
	PortField     PortNodeType = "Field"
	PortText      PortNodeType = "Text"
	PortAttribute PortNodeType = "Attribute"
)

// PortNode is one node of a data port's element tree.
type PortNode struct {
	Name          string       `json:"name"`
	NodeType      PortNodeType `json:"nodeType"`
	SourceTableID int          `json:"sourceTableId,omitempty"`
	Level         int          `json:"level"`
	Properties    Properties   `json:"properties,omitempty"`
	Children      []*PortNode  `json:"children,omitempty"`
}

// MenuItem is one node of a menu suite's item tree. Folders carry children;
// leaf items carry a run target.
type MenuItem struct {
	Name          string      `json:"name"`
	Caption       string      `json:"caption,omitempty"`
	Separator     bool        `json:"separator,omitempty"`
	RunObjectKind ObjectKind  `json:"runObjectKind,omitempty"`
	RunObjectID   int         `json:"runObjectId,omitempty"`
	Level         int         `json:"level"`
	Children      []*MenuItem `json:"children,omitempty"`
}

// Entity is a parsed object of any kind. Concrete implementations form a
// closed set mirroring ObjectKind; dispatch points type-switch over them
// exhaustively. Entities are immutable once produced.
type Entity interface {
	Header() ObjectHeader
	Kind() ObjectKind
}

// TableObject is a parsed table: schema fields, keys, field groups and
// server-side code.
type TableObject struct {
	Head        ObjectHeader `json:"header"`
	Fields      []Field      `json:"fields"`
	Keys        []Key        `json:"keys"`
	FieldGroups []FieldGroup `json:"fieldGroups,omitempty"`
	Properties  Properties   `json:"properties,omitempty"`
	Permissions string       `json:"permissions,omitempty"`
	Variables   []Variable   `json:"variables,omitempty"`
	Procedures  []Procedure  `json:"procedures,omitempty"`
}

func (t *TableObject) Header() ObjectHeader { return t.Head }
func (t *TableObject) Kind() ObjectKind     { return t.Head.Kind }

// SurfaceObject is a parsed form or page: a control tree, a flat action
// list, and an optional bound source table.
type SurfaceObject struct {
	Head          ObjectHeader `json:"header"`
	SourceTableID int          `json:"sourceTableId,omitempty"`
	Controls      []*Control   `json:"controls"`
	Actions       []Action     `json:"actions,omitempty"`
	Properties    Properties   `json:"properties,omitempty"`
	Variables     []Variable   `json:"variables,omitempty"`
	Procedures    []Procedure  `json:"procedures,omitempty"`
}

func (s *SurfaceObject) Header() ObjectHeader { return s.Head }
func (s *SurfaceObject) Kind() ObjectKind     { return s.Head.Kind }

// CodeunitObject is a parsed codeunit: variables and procedures only.
type CodeunitObject struct {
	Head       ObjectHeader `json:"header"`
	Properties Properties   `json:"properties,omitempty"`
	Variables  []Variable   `json:"variables,omitempty"`
	Procedures []Procedure  `json:"procedures,omitempty"`
	OnRun      string       `json:"onRun,omitempty"`
}

func (c *CodeunitObject) Header() ObjectHeader { return c.Head }
func (c *CodeunitObject) Kind() ObjectKind     { return c.Head.Kind }

// ReportObject is a parsed report: a data-item tree plus the flattened
// column list mirroring every tree column in source order.
type ReportObject struct {
	Head       ObjectHeader `json:"header"`
	DataItems  []*DataItem  `json:"dataItems"`
	Columns    []Column     `json:"columns,omitempty"`
	Properties Properties   `json:"properties,omitempty"`
	Variables  []Variable   `json:"variables,omitempty"`
	Procedures []Procedure  `json:"procedures,omitempty"`
}

func (r *ReportObject) Header() ObjectHeader { return r.Head }
func (r *ReportObject) Kind() ObjectKind     { return r.Head.Kind }

// QueryObject is a parsed query. It shares the report's data-item shape but
// remains a distinct kind for dispatch.
type QueryObject struct {
	Head       ObjectHeader `json:"header"`
	DataItems  []*DataItem  `json:"dataItems"`
	Columns    []Column     `json:"columns,omitempty"`
	Properties Properties   `json:"properties,omitempty"`
	Variables  []Variable   `json:"variables,omitempty"`
	Procedures []Procedure  `json:"procedures,omitempty"`
}

func (q *QueryObject) Header() ObjectHeader { return q.Head }
func (q *QueryObject) Kind() ObjectKind     { return q.Head.Kind }

// XMLPortObject is a parsed data port: a typed node tree plus code.
type XMLPortObject struct {
	Head       ObjectHeader `json:"header"`
	Nodes      []*PortNode  `json:"nodes"`
	Properties Properties   `json:"properties,omitempty"`
	Variables  []Variable   `json:"variables,omitempty"`
	Procedures []Procedure  `json:"procedures,omitempty"`
}

func (x *XMLPortObject) Header() ObjectHeader { return x.Head }
func (x *XMLPortObject) Kind() ObjectKind     { return x.Head.Kind }

// MenuSuiteObject is a parsed menu suite: a folder/item tree.
type MenuSuiteObject struct {
	Head       ObjectHeader `json:"header"`
	Items      []*MenuItem  `json:"items"`
	Properties Properties   `json:"properties,omitempty"`
}

func (m *MenuSuiteObject) Header() ObjectHeader { return m.Head }
func (m *MenuSuiteObject) Kind() ObjectKind     { return m.Head.Kind }
