package codeindex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Index is the in-memory line index over object code bodies.
type Index struct {
	db *sql.DB
}

// New opens a fresh in-memory index and applies the schema.
func New(ctx context.Context) (*Index, error) {
	db, err := sql.Open(DriverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open code index: %w", err)
	}

	// A single connection keeps the in-memory database alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database; the indexed lines go with it.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// codeLine is one line queued for insertion.
type codeLine struct {
	container string
	lineNo    int
	text      string
}

// IndexEntity replaces the indexed lines of one object with the code the
// entity currently carries.
func (ix *Index) IndexEntity(ctx context.Context, e types.Entity) error {
	head := e.Header()
	lines := collectLines(e)

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM code_lines WHERE source_kind = ? AND source_id = ?",
		string(head.Kind), head.ID); err != nil {
		return fmt.Errorf("failed to drop stale lines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO code_lines (source_kind, source_id, source_name, container, line_no, line) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ln := range lines {
		if _, err := stmt.ExecContext(ctx,
			string(head.Kind), head.ID, head.Name, ln.container, ln.lineNo, ln.text); err != nil {
			return fmt.Errorf("failed to insert line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// LineHit is one matching indexed line.
type LineHit struct {
	SourceKind types.ObjectKind `json:"sourceKind"`
	SourceID   int              `json:"sourceId"`
	SourceName string           `json:"sourceName"`
	Container  string           `json:"container"`
	LineNo     int              `json:"lineNo"`
	Line       string           `json:"line"`
}

// Search returns lines containing the query substring, case-insensitively,
// capped at limit.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]LineHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty code search query")
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := ix.db.QueryContext(ctx, `
		SELECT source_kind, source_id, source_name, container, line_no, line
		FROM code_lines
		WHERE line LIKE ? ESCAPE '\'
		ORDER BY source_kind, source_id, container, line_no
		LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("code search failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []LineHit
	for rows.Next() {
		var h LineHit
		var kind string
		if err := rows.Scan(&kind, &h.SourceID, &h.SourceName, &h.Container, &h.LineNo, &h.Line); err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}
		h.SourceKind = types.ObjectKind(kind)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("code search failed: %w", err)
	}
	return hits, nil
}

// Delete drops the indexed lines of one object.
func (ix *Index) Delete(ctx context.Context, kind types.ObjectKind, id int) error {
	if _, err := ix.db.ExecContext(ctx,
		"DELETE FROM code_lines WHERE source_kind = ? AND source_id = ?", string(kind), id); err != nil {
		return fmt.Errorf("failed to delete lines: %w", err)
	}
	return nil
}

// Clear drops every indexed line.
func (ix *Index) Clear(ctx context.Context) error {
	if _, err := ix.db.ExecContext(ctx, "DELETE FROM code_lines"); err != nil {
		return fmt.Errorf("failed to clear code index: %w", err)
	}
	return nil
}

// LineCount returns the number of indexed lines.
func (ix *Index) LineCount(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM code_lines").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lines: %w", err)
	}
	return n, nil
}

// escapeLike escapes the LIKE metacharacters so queries match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// collectLines gathers every code body of an entity: procedure bodies,
// field triggers and the main block, each under a container label.
func collectLines(e types.Entity) []codeLine {
	var lines []codeLine
	add := func(container, body string) {
		for i, text := range strings.Split(body, "\n") {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			lines = append(lines, codeLine{container: container, lineNo: i + 1, text: text})
		}
	}

	switch obj := e.(type) {
	case *types.TableObject:
		for _, f := range obj.Fields {
			if f.OnValidate != "" {
				add("trigger:"+f.Name+".OnValidate", f.OnValidate)
			}
			if f.OnLookup != "" {
				add("trigger:"+f.Name+".OnLookup", f.OnLookup)
			}
		}
		addProcedures(add, obj.Procedures)
	case *types.SurfaceObject:
		addProcedures(add, obj.Procedures)
	case *types.CodeunitObject:
		if obj.OnRun != "" {
			add("trigger:OnRun", obj.OnRun)
		}
		addProcedures(add, obj.Procedures)
	case *types.ReportObject:
		addProcedures(add, obj.Procedures)
	case *types.QueryObject:
		addProcedures(add, obj.Procedures)
	case *types.XMLPortObject:
		addProcedures(add, obj.Procedures)
	}
	return lines
}

func addProcedures(add func(container, body string), procs []types.Procedure) {
	for _, p := range procs {
		if p.Body != "" {
			add("procedure:"+p.Name, p.Body)
		}
	}
}
