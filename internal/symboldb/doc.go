// Package symboldb holds the in-memory symbol database: every parsed object,
// indexed by (kind,id), by lowercase name within kind, and by insertion
// order for stable pagination. Secondary indices map owning tables to their
// fields and owning objects to their procedures.
//
// The database itself is not goroutine-safe; callers that share one across
// goroutines serialize access (the MCP and HTTP shells hold a RWMutex).
// Search results are memoized in an LRU cache that is purged on every
// mutation.
package symboldb
