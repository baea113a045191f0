package parser

import (
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// ParseXMLPort parses a data-port object. ELEMENTS is required; each node is
// one `ELEMENT;name;kind;prop=value;...` line whose nesting comes from its
// indentation.
func ParseXMLPort(text string) (*types.XMLPortObject, error) {
	head, err := parseHead(text, types.KindXMLport)
	if err != nil {
		return nil, err
	}

	obj := &types.XMLPortObject{Head: head}

	if sec, err := ExtractSection(text, "PROPERTIES"); err == nil {
		obj.Properties, _ = parsePropertyList(sectionInterior(sec))
	}

	sec, err := ExtractSection(text, "ELEMENTS")
	if err != nil {
		return nil, err
	}

	var (
		nodes []*types.PortNode
		cols  []int
	)
	for _, line := range strings.Split(sectionInterior(sec), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "{" || trimmed == "}" {
			continue
		}
		node, ok := parsePortNode(trimmed)
		if !ok {
			continue
		}
		nodes = append(nodes, node)
		cols = append(cols, len(line)-len(strings.TrimLeft(line, " \t")))
	}

	levels, bad := deriveLevels(cols)
	if bad >= 0 {
		return nil, &types.MalformedHierarchyError{Section: "ELEMENTS", Item: nodes[bad].Name}
	}
	for i, n := range nodes {
		n.Level = levels[i]
	}
	obj.Nodes = buildTree(nodes,
		func(n *types.PortNode) int { return n.Level },
		func(parent, child *types.PortNode) { parent.Children = append(parent.Children, child) })

	if sec, err := ExtractSection(text, "CODE"); err == nil {
		cs := parseCode(sectionInterior(sec))
		obj.Variables = cs.Variables
		obj.Procedures = cs.Procedures
	}

	return obj, nil
}

// parsePortNode parses one node line. The leading token must be ELEMENT;
// the third slot types the node as Element, Field, Text or Attribute
// (defaulting to Element); remaining slots are properties.
func parsePortNode(line string) (*types.PortNode, bool) {
	parts := splitParts(strings.TrimSuffix(line, ";"), ';')
	if len(parts) < 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "ELEMENT") {
		return nil, false
	}

	node := &types.PortNode{
		Name:     strings.Trim(strings.TrimSpace(parts[1]), `"`),
		NodeType: types.PortElement,
	}
	if node.Name == "" {
		return nil, false
	}

	rest := parts[2:]
	if len(rest) > 0 {
		switch strings.ToLower(strings.TrimSpace(rest[0])) {
		case "element":
			node.NodeType = types.PortElement
			rest = rest[1:]
		case "field":
			node.NodeType = types.PortField
			rest = rest[1:]
		case "text":
			node.NodeType = types.PortText
			rest = rest[1:]
		case "attribute":
			node.NodeType = types.PortAttribute
			rest = rest[1:]
		}
	}

	node.Properties = recordProperties(rest)
	if v, ok := node.Properties.Get("SourceTable"); ok {
		node.SourceTableID = parseTableID(v)
	}
	return node, true
}
