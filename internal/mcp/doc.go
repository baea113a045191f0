// Package mcp implements the Model Context Protocol (MCP) server for
// calcontext.
//
// The server exposes the index over stdio as JSON-RPC 2.0 tool calls:
//   - load_objects: Ingest export files or directories into the index
//   - search_objects: Wildcard search over loaded objects
//   - get_object: Fetch one parsed object in full
//   - get_summary: Compact per-object summary with member counts
//   - get_members: Paginated listing of one member category
//   - find_references: Incoming/outgoing reference edges of one object
//   - get_dependency_graph: Reference neighborhood with kind filters
//   - get_relation_map: Table-centric grouping of all relation edges
//   - search_code: Line search over procedure and trigger bodies
//   - get_status: Index statistics and the last load report
//   - clear_index: Drop everything
//
// stdout carries the protocol; logging goes to stderr. The underlying
// indexes are not goroutine-safe, so every handler takes the server lock,
// which may be shared with the HTTP shell.
package mcp
