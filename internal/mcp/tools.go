package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/navkit/calcontext-mcp/internal/refs"
	"github.com/navkit/calcontext-mcp/internal/symboldb"
	"github.com/navkit/calcontext-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeObjectNotFound    = -32001 // No object matches kind + id/name
	ErrorCodeUnknownKind       = -32002 // Kind token is not one of the eight object kinds
	ErrorCodeEmptyQuery        = -32004 // Query parameter is empty
	ErrorCodeCodeIndexDisabled = -32005 // Code index not enabled in config
)

const maxFailuresInResponse = 5

// handleLoadObjects handles the load_objects tool invocation
func (s *Server) handleLoadObjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	paths := getStringSlice(args, "paths")
	if len(paths) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "paths parameter is required", map[string]interface{}{
			"param":  "paths",
			"reason": "missing or empty",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.loader.LoadPaths(ctx, paths)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "load failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.lastReport = report

	response := map[string]interface{}{
		"batch_id":    report.BatchID,
		"files":       report.Files,
		"objects":     report.Objects,
		"loaded":      report.Loaded,
		"failed":      report.Failed,
		"duration_ms": report.Duration.Milliseconds(),
	}
	if len(report.Failures) > 0 {
		response["failure_count"] = len(report.Failures)
		failures := report.Failures
		if len(failures) > maxFailuresInResponse {
			failures = failures[:maxFailuresInResponse]
		}
		response["failures"] = failures
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchObjects handles the search_objects tool invocation
func (s *Server) handleSearchObjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	pattern := getStringDefault(args, "pattern", "*")
	kinds, err := parseKinds(getStringSlice(args, "kinds"))
	if err != nil {
		return nil, err
	}

	offset := getIntDefault(args, "offset", 0)
	if offset < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "offset must not be negative", map[string]interface{}{
			"param": "offset",
			"value": offset,
		})
	}
	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 200 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 200", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entities, total, err := s.db.Search(symboldb.SearchRequest{
		Pattern: pattern,
		Kinds:   kinds,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid pattern", map[string]interface{}{
			"param": "pattern",
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(entities))
	for _, e := range entities {
		head := e.Header()
		results = append(results, map[string]interface{}{
			"kind": head.Kind,
			"id":   head.ID,
			"name": head.Name,
		})
	}

	response := map[string]interface{}{
		"total":   total,
		"count":   len(results),
		"offset":  offset,
		"results": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetObject handles the get_object tool invocation
func (s *Server) handleGetObject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, idOrName, err := entityParams(request)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, err := s.db.GetByIDOrName(kind, idOrName)
	if err != nil {
		return nil, notFoundError(kind, idOrName, err)
	}
	return mcp.NewToolResultText(formatJSON(entity)), nil
}

// handleGetSummary handles the get_summary tool invocation
func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, idOrName, err := entityParams(request)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, err := s.db.Summarize(kind, idOrName)
	if err != nil {
		return nil, notFoundError(kind, idOrName, err)
	}
	return mcp.NewToolResultText(formatJSON(summary)), nil
}

// handleGetMembers handles the get_members tool invocation
func (s *Server) handleGetMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, idOrName, err := entityParams(request)
	if err != nil {
		return nil, err
	}
	args, _ := request.Params.Arguments.(map[string]interface{})

	categoryToken := getStringDefault(args, "category", "")
	category, ok := symboldb.ParseMemberCategory(categoryToken)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid member category", map[string]interface{}{
			"param": "category",
			"value": categoryToken,
			"allowed": []string{
				"fields", "keys", "procedures", "controls",
				"actions", "variables", "dataitems", "columns",
			},
		})
	}

	offset := getIntDefault(args, "offset", 0)
	limit := getIntDefault(args, "limit", 50)
	if limit < 1 || limit > 500 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 500", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	members, total, err := s.db.Members(symboldb.MembersRequest{
		Kind:     kind,
		IDOrName: idOrName,
		Category: category,
		Pattern:  getStringDefault(args, "pattern", ""),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, notFoundError(kind, idOrName, err)
	}

	response := map[string]interface{}{
		"category": category,
		"total":    total,
		"count":    len(members),
		"offset":   offset,
		"members":  members,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindReferences handles the find_references tool invocation
func (s *Server) handleFindReferences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, idOrName, err := entityParams(request)
	if err != nil {
		return nil, err
	}
	args, _ := request.Params.Arguments.(map[string]interface{})

	dir, err := directionParam(args)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, err := s.db.GetByIDOrName(kind, idOrName)
	if err != nil {
		return nil, notFoundError(kind, idOrName, err)
	}
	head := entity.Header()

	response := map[string]interface{}{
		"object": head,
	}
	if dir == refs.DirOutgoing || dir == refs.DirBoth {
		out := s.refIdx.Outgoing(head.Kind, head.ID)
		response["outgoing"] = out
		response["outgoing_count"] = len(out)
	}
	if dir == refs.DirIncoming || dir == refs.DirBoth {
		in := s.refIdx.Incoming(head)
		response["incoming"] = in
		response["incoming_count"] = len(in)
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetDependencyGraph handles the get_dependency_graph tool invocation
func (s *Server) handleGetDependencyGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, idOrName, err := entityParams(request)
	if err != nil {
		return nil, err
	}
	args, _ := request.Params.Arguments.(map[string]interface{})

	dir, err := directionParam(args)
	if err != nil {
		return nil, err
	}
	kinds, err := parseKinds(getStringSlice(args, "kinds"))
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, err := s.db.GetByIDOrName(kind, idOrName)
	if err != nil {
		return nil, notFoundError(kind, idOrName, err)
	}

	graph := s.refIdx.Graph(entity.Header(), dir, kinds)
	return mcp.NewToolResultText(formatJSON(graph)), nil
}

// handleGetRelationMap handles the get_relation_map tool invocation
func (s *Server) handleGetRelationMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Every parameter is optional, so a nil argument map is fine here.
	args, _ := request.Params.Arguments.(map[string]interface{})

	var filter refs.RelationFilter
	if token := getStringDefault(args, "kind", ""); token != "" {
		kind, ok := types.ParseObjectKind(token)
		if !ok {
			return nil, newMCPError(ErrorCodeUnknownKind, "unknown object kind", map[string]interface{}{
				"param":   "kind",
				"value":   token,
				"allowed": kindNames(),
			})
		}
		filter.SourceKind = kind
	}
	filter.TableID = getIntDefault(args, "table_id", 0)
	filter.SkipFormulas = !getBoolDefault(args, "include_formula_refs", true)

	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := s.refIdx.RelationMap(filter)
	response := map[string]interface{}{
		"tables": len(groups),
		"groups": groups,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchCode handles the search_code tool invocation
func (s *Server) handleSearchCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	if s.codeIdx == nil {
		return nil, newMCPError(ErrorCodeCodeIndexDisabled, "code index is disabled", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 200 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 200", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, err := s.codeIdx.Search(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "code search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"count": len(hits),
		"hits":  hits,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.db.Stats()
	response := map[string]interface{}{
		"objects":    stats.Total,
		"by_kind":    stats.ByKind,
		"references": s.refIdx.Len(),
	}

	if s.codeIdx != nil {
		lines, err := s.codeIdx.LineCount(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to count code lines", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response["code_lines"] = lines
	}

	if s.lastReport != nil {
		response["last_load"] = map[string]interface{}{
			"batch_id":    s.lastReport.BatchID,
			"files":       s.lastReport.Files,
			"objects":     s.lastReport.Objects,
			"loaded":      s.lastReport.Loaded,
			"failed":      s.lastReport.Failed,
			"started":     s.lastReport.Started.Format("2006-01-02T15:04:05Z07:00"),
			"duration_ms": s.lastReport.Duration.Milliseconds(),
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleClearIndex handles the clear_index tool invocation
func (s *Server) handleClearIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.db.Len()
	s.db.Clear()
	s.refIdx.Clear()
	if s.codeIdx != nil {
		if err := s.codeIdx.Clear(ctx); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to clear code index", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	s.lastReport = nil

	response := map[string]interface{}{
		"cleared": true,
		"removed": removed,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// entityParams extracts and validates the kind + object parameters shared by
// the object-addressed tools.
func entityParams(request mcp.CallToolRequest) (types.ObjectKind, string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	kindToken, ok := args["kind"].(string)
	if !ok || kindToken == "" {
		return "", "", newMCPError(ErrorCodeInvalidParams, "kind parameter is required", map[string]interface{}{
			"param":  "kind",
			"reason": "missing or empty",
		})
	}
	kind, ok := types.ParseObjectKind(kindToken)
	if !ok {
		return "", "", newMCPError(ErrorCodeUnknownKind, "unknown object kind", map[string]interface{}{
			"param":   "kind",
			"value":   kindToken,
			"allowed": kindNames(),
		})
	}

	idOrName, ok := args["object"].(string)
	if !ok || idOrName == "" {
		return "", "", newMCPError(ErrorCodeInvalidParams, "object parameter is required", map[string]interface{}{
			"param":  "object",
			"reason": "missing or empty",
		})
	}

	return kind, idOrName, nil
}

// directionParam extracts the optional direction parameter, defaulting to both.
func directionParam(args map[string]interface{}) (refs.Direction, error) {
	token := getStringDefault(args, "direction", "")
	dir, ok := refs.ParseDirection(token)
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid direction", map[string]interface{}{
			"param":   "direction",
			"value":   token,
			"allowed": []string{"incoming", "outgoing", "both"},
		})
	}
	return dir, nil
}

// parseKinds resolves kind tokens, rejecting unknown ones.
func parseKinds(tokens []string) ([]types.ObjectKind, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	kinds := make([]types.ObjectKind, 0, len(tokens))
	for _, token := range tokens {
		kind, ok := types.ParseObjectKind(token)
		if !ok {
			return nil, newMCPError(ErrorCodeUnknownKind, "unknown object kind", map[string]interface{}{
				"param":   "kinds",
				"value":   token,
				"allowed": kindNames(),
			})
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func kindNames() []string {
	names := make([]string, len(types.AllKinds))
	for i, k := range types.AllKinds {
		names[i] = string(k)
	}
	return names
}

// notFoundError maps a lookup failure to the right MCP error code.
func notFoundError(kind types.ObjectKind, idOrName string, err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return newMCPError(ErrorCodeObjectNotFound, "object not found", map[string]interface{}{
			"kind":   kind,
			"object": idOrName,
		})
	}
	return newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
		"error": err.Error(),
	})
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string-array parameter; a bare string counts as a
// one-element array.
func getStringSlice(args map[string]interface{}, key string) []string {
	switch val := args[key].(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []interface{}:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
