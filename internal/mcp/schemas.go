package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func kindProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum": []string{
			"Table", "Form", "Page", "Report",
			"Codeunit", "XMLport", "Query", "MenuSuite",
		},
	}
}

func objectProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Object id (numeric string) or object name (case-insensitive)",
	}
}

func directionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Edge direction to include",
		"enum":        []string{"incoming", "outgoing", "both"},
		"default":     "both",
	}
}

func limitProperty(def, max int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of results to return",
		"default":     def,
		"minimum":     1,
		"maximum":     max,
	}
}

// loadObjectsTool returns the tool definition for load_objects
func loadObjectsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "load_objects",
		Description: "Load object export files into the index. Directories are walked for *.txt; files may hold multiple concatenated objects.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"paths": map[string]interface{}{
					"type":        "array",
					"description": "Export files or directories to ingest",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"paths"},
		},
	}
}

// searchObjectsTool returns the tool definition for search_objects
func searchObjectsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_objects",
		Description: "Search loaded objects by name wildcard, optionally scoped to object kinds",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive name pattern; * matches any run of characters (e.g. 'Sales*')",
					"default":     "*",
				},
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Restrict matches to these object kinds",
					"items":       kindProperty("Object kind"),
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Results to skip, in insertion order",
					"default":     0,
					"minimum":     0,
				},
				"limit": limitProperty(20, 200),
			},
		},
	}
}

// getObjectTool returns the tool definition for get_object
func getObjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_object",
		Description: "Fetch one parsed object in full, addressed by kind plus id or name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind":   kindProperty("Object kind"),
				"object": objectProperty(),
			},
			Required: []string{"kind", "object"},
		},
	}
}

// getSummaryTool returns the tool definition for get_summary
func getSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_summary",
		Description: "Fetch a compact summary of one object: header, leading member names and true member counts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind":   kindProperty("Object kind"),
				"object": objectProperty(),
			},
			Required: []string{"kind", "object"},
		},
	}
}

// getMembersTool returns the tool definition for get_members
func getMembersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_members",
		Description: "List one member category of an object (fields, keys, procedures, controls, actions, variables, dataitems, columns) with wildcard filtering and pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind":   kindProperty("Object kind"),
				"object": objectProperty(),
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Member category to list",
					"enum": []string{
						"fields", "keys", "procedures", "controls",
						"actions", "variables", "dataitems", "columns",
					},
				},
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "Optional member-name wildcard filter",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Members to skip",
					"default":     0,
					"minimum":     0,
				},
				"limit": limitProperty(50, 500),
			},
			Required: []string{"kind", "object", "category"},
		},
	}
}

// findReferencesTool returns the tool definition for find_references
func findReferencesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_references",
		Description: "List the reference edges of one object: outgoing (what it points at), incoming (what points at it), or both",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind":      kindProperty("Object kind"),
				"object":    objectProperty(),
				"direction": directionProperty(),
			},
			Required: []string{"kind", "object"},
		},
	}
}

// getDependencyGraphTool returns the tool definition for get_dependency_graph
func getDependencyGraphTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_dependency_graph",
		Description: "Assemble the dependency neighborhood of one object, optionally filtered by far-end object kinds",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind":      kindProperty("Object kind"),
				"object":    objectProperty(),
				"direction": directionProperty(),
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Keep only edges whose far end has one of these kinds",
					"items":       kindProperty("Object kind"),
				},
			},
			Required: []string{"kind", "object"},
		},
	}
}

// getRelationMapTool returns the tool definition for get_relation_map
func getRelationMapTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_relation_map",
		Description: "Group every table-targeting reference edge by its target table",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": kindProperty("Keep only edges originating from objects of this kind"),
				"table_id": map[string]interface{}{
					"type":        "integer",
					"description": "Keep only edges targeting this table id",
					"minimum":     1,
				},
				"include_formula_refs": map[string]interface{}{
					"type":        "boolean",
					"description": "Include aggregate-formula edges alongside relation constraints",
					"default":     true,
				},
			},
		},
	}
}

// searchCodeTool returns the tool definition for search_code
func searchCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_code",
		Description: "Search procedure and trigger bodies line-by-line for a substring (case-insensitive)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Substring to find in code lines",
				},
				"limit": limitProperty(20, 200),
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report index statistics: per-kind object counts, reference edges, code-index lines and the last load batch",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// clearIndexTool returns the tool definition for clear_index
func clearIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_index",
		Description: "Drop every loaded object, reference edge and indexed code line",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
