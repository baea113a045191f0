package parser

import (
	"strconv"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// ParseTable parses a table object: FIELDS and KEYS are required, field
// groups, properties and code are optional.
func ParseTable(text string) (*types.TableObject, error) {
	head, err := parseHead(text, types.KindTable)
	if err != nil {
		return nil, err
	}

	obj := &types.TableObject{Head: head}

	fieldsSec, err := ExtractSection(text, "FIELDS")
	if err != nil {
		return nil, err
	}
	for _, block := range itemBlocks(sectionInterior(fieldsSec)) {
		if f, ok := parseFieldRecord(block.text); ok {
			obj.Fields = append(obj.Fields, f)
		}
	}

	keysSec, err := ExtractSection(text, "KEYS")
	if err != nil {
		return nil, err
	}
	for _, block := range itemBlocks(sectionInterior(keysSec)) {
		if k, ok := parseKeyRecord(block.text); ok {
			obj.Keys = append(obj.Keys, k)
		}
	}

	if sec, err := ExtractSection(text, "FIELDGROUPS"); err == nil {
		for _, block := range itemBlocks(sectionInterior(sec)) {
			if g, ok := parseFieldGroupRecord(block.text); ok {
				obj.FieldGroups = append(obj.FieldGroups, g)
			}
		}
	}

	if sec, err := ExtractSection(text, "PROPERTIES"); err == nil {
		obj.Properties, _ = parsePropertyList(sectionInterior(sec))
		if v, ok := obj.Properties.Get("Permissions"); ok {
			obj.Permissions = v
		}
	}

	if sec, err := ExtractSection(text, "CODE"); err == nil {
		cs := parseCode(sectionInterior(sec))
		obj.Variables = cs.Variables
		obj.Procedures = cs.Procedures
	}

	return obj, nil
}

// parseFieldRecord parses one field row: `{ id ; class ; name ; type ;
// prop=value;... }`. The class slot is unused legacy ballast. Rows without
// a parseable id or name are skipped.
func parseFieldRecord(text string) (types.Field, bool) {
	parts := splitParts(text, ';')
	if len(parts) < 4 {
		return types.Field{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return types.Field{}, false
	}

	f := types.Field{
		ID:       id,
		Name:     strings.TrimSpace(parts[2]),
		DataType: strings.TrimSpace(parts[3]),
	}
	if f.Name == "" {
		return types.Field{}, false
	}

	for _, p := range recordProperties(parts[4:]) {
		switch {
		case strings.EqualFold(p.Name, "CalcFormula"):
			f.CalcFormula = p.Value
		case strings.EqualFold(p.Name, "TableRelation"):
			f.TableRelation = p.Value
		case strings.EqualFold(p.Name, "OnValidate"):
			f.OnValidate = trimBody(trimCodeMarkers(p.Value))
		case strings.EqualFold(p.Name, "OnLookup"):
			f.OnLookup = trimBody(trimCodeMarkers(p.Value))
		default:
			f.Properties = append(f.Properties, p)
		}
	}
	return f, true
}

// parseKeyRecord parses one key row: `{ enabled ; field,list ; prop=... }`.
// A blank enabled slot means enabled.
func parseKeyRecord(text string) (types.Key, bool) {
	parts := splitParts(text, ';')
	if len(parts) < 2 {
		return types.Key{}, false
	}

	k := types.Key{Enabled: true}
	if strings.EqualFold(strings.TrimSpace(parts[0]), "No") {
		k.Enabled = false
	}

	for _, name := range strings.Split(parts[1], ",") {
		name = strings.Trim(strings.TrimSpace(name), `"`)
		if name != "" {
			k.Fields = append(k.Fields, name)
		}
	}
	if len(k.Fields) == 0 {
		return types.Key{}, false
	}

	for _, p := range recordProperties(parts[2:]) {
		switch {
		case strings.EqualFold(p.Name, "Clustered"):
			k.Clustered = isYes(p.Value)
		case strings.EqualFold(p.Name, "Unique"):
			k.Unique = isYes(p.Value)
		case strings.EqualFold(p.Name, "Enabled"):
			k.Enabled = isYes(p.Value)
		default:
			k.Properties = append(k.Properties, p)
		}
	}
	return k, true
}

// parseFieldGroupRecord parses one field-group row: `{ id ; name ;
// field,list }`.
func parseFieldGroupRecord(text string) (types.FieldGroup, bool) {
	parts := splitParts(text, ';')
	if len(parts) < 3 {
		return types.FieldGroup{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return types.FieldGroup{}, false
	}

	g := types.FieldGroup{ID: id, Name: strings.TrimSpace(parts[1])}
	for _, name := range strings.Split(parts[2], ",") {
		name = strings.Trim(strings.TrimSpace(name), `"`)
		if name != "" {
			g.Fields = append(g.Fields, name)
		}
	}
	return g, g.Name != ""
}

// recordProperties converts the trailing `Name=Value` parts of a record row
// into a property bag. Parts with no `=` are skipped.
func recordProperties(parts []string) types.Properties {
	var props types.Properties
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		eq := indexTopLevel(part, '=')
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(part[:eq])
		if name == "" {
			continue
		}
		props = append(props, types.Property{Name: name, Value: strings.TrimSpace(part[eq+1:])})
	}
	return props
}

// trimCodeMarkers strips the BEGIN/END wrapper from an embedded trigger
// value, leaving the opaque body.
func trimCodeMarkers(v string) string {
	s := strings.TrimSpace(v)
	if start := nextWordStart(s, 0); start >= 0 && hasWordAt(s, start, "VAR") {
		// Keep the local declarations with the body; the whole trigger
		// stays opaque.
		return s
	}
	if hasWordAt(s, 0, "BEGIN") {
		s = s[len("BEGIN"):]
		if len(s) >= len("END") && hasWordAt(s, len(s)-len("END"), "END") {
			s = s[:len(s)-len("END")]
		}
	}
	return s
}

func isYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "Yes")
}

// parseHead parses the declaration line and metadata, enforcing that the
// declared kind is one of those the calling body parser handles.
func parseHead(text string, want ...types.ObjectKind) (types.ObjectHeader, error) {
	head, err := ParseDeclaration(firstLine(text))
	if err != nil {
		return types.ObjectHeader{}, err
	}
	for _, w := range want {
		if head.Kind == w {
			head.Meta = ParseMetadata(text)
			return head, nil
		}
	}
	return types.ObjectHeader{}, &types.KindMismatchError{Want: want[0], Got: head.Kind}
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
