// Package httpapi serves a read-only JSON mirror of the query surface for
// browsers and scripts that do not speak MCP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/navkit/calcontext-mcp/internal/codeindex"
	"github.com/navkit/calcontext-mcp/internal/refs"
	"github.com/navkit/calcontext-mcp/internal/symboldb"
	"github.com/navkit/calcontext-mcp/pkg/types"
)

// Options carries the API's dependencies. Code may be nil; Lock may be shared
// with the MCP shell and defaults to a private mutex.
type Options struct {
	DB   *symboldb.Database
	Refs *refs.Index
	Code *codeindex.Index
	Log  *zap.SugaredLogger
	Lock *sync.RWMutex
}

// API exposes the symbol database over HTTP. All routes are GETs; mutation
// stays with the MCP tools.
type API struct {
	mu      *sync.RWMutex
	db      *symboldb.Database
	refIdx  *refs.Index
	codeIdx *codeindex.Index
	log     *zap.SugaredLogger
}

func New(opts Options) *API {
	lock := opts.Lock
	if lock == nil {
		lock = &sync.RWMutex{}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &API{
		mu:      lock,
		db:      opts.DB,
		refIdx:  opts.Refs,
		codeIdx: opts.Code,
		log:     log,
	}
}

// Router builds the gin engine with all routes registered.
func (a *API) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/objects", a.listObjects)
		apiGroup.GET("/objects/:kind/:object", a.getObject)
		apiGroup.GET("/objects/:kind/:object/summary", a.getSummary)
		apiGroup.GET("/objects/:kind/:object/members", a.getMembers)
		apiGroup.GET("/references", a.findReferences)
		apiGroup.GET("/relations", a.relationMap)
		apiGroup.GET("/code", a.searchCode)
		apiGroup.GET("/status", a.status)
	}
	return r
}

// GET /api/objects?pattern=&kind=&offset=&limit=
func (a *API) listObjects(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "*")
	kinds, ok := queryKinds(c)
	if !ok {
		return
	}
	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", 20)
	if offset < 0 || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be >= 0 and limit in 1..200"})
		return
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	entities, total, err := a.db.Search(symboldb.SearchRequest{
		Pattern: pattern,
		Kinds:   kinds,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]types.ObjectHeader, 0, len(entities))
	for _, e := range entities {
		results = append(results, e.Header())
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"offset":  offset,
		"results": results,
	})
}

// GET /api/objects/:kind/:object
func (a *API) getObject(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	entity, err := a.db.GetByIDOrName(kind, c.Param("object"))
	if err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// GET /api/objects/:kind/:object/summary
func (a *API) getSummary(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	summary, err := a.db.Summarize(kind, c.Param("object"))
	if err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/objects/:kind/:object/members?category=&pattern=&offset=&limit=
func (a *API) getMembers(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}
	category, ok := symboldb.ParseMemberCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown member category: " + c.Query("category")})
		return
	}
	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", 50)
	if offset < 0 || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be >= 0 and limit in 1..500"})
		return
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	members, total, err := a.db.Members(symboldb.MembersRequest{
		Kind:     kind,
		IDOrName: c.Param("object"),
		Category: category,
		Pattern:  c.Query("pattern"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"total":    total,
		"offset":   offset,
		"members":  members,
	})
}

// GET /api/references?kind=&object=&direction=
func (a *API) findReferences(c *gin.Context) {
	kind, ok := types.ParseObjectKind(c.Query("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown object kind: " + c.Query("kind")})
		return
	}
	idOrName := c.Query("object")
	if idOrName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object query parameter is required"})
		return
	}
	dir, ok := refs.ParseDirection(c.Query("direction"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be incoming, outgoing or both"})
		return
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	entity, err := a.db.GetByIDOrName(kind, idOrName)
	if err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, a.refIdx.Graph(entity.Header(), dir, nil))
}

// GET /api/relations?kind=&table_id=&include_formulas=
func (a *API) relationMap(c *gin.Context) {
	var filter refs.RelationFilter
	if token := c.Query("kind"); token != "" {
		kind, ok := types.ParseObjectKind(token)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown object kind: " + token})
			return
		}
		filter.SourceKind = kind
	}
	filter.TableID = intQuery(c, "table_id", 0)
	filter.SkipFormulas = c.Query("include_formulas") == "false"

	a.mu.RLock()
	defer a.mu.RUnlock()

	groups := a.refIdx.RelationMap(filter)
	c.JSON(http.StatusOK, gin.H{
		"tables": len(groups),
		"groups": groups,
	})
}

// GET /api/code?q=&limit=
func (a *API) searchCode(c *gin.Context) {
	if a.codeIdx == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "code index is disabled"})
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}
	limit := intQuery(c, "limit", 20)
	if limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be in 1..200"})
		return
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	hits, err := a.codeIdx.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(hits),
		"hits":  hits,
	})
}

// GET /api/status
func (a *API) status(c *gin.Context) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := a.db.Stats()
	response := gin.H{
		"objects":    stats.Total,
		"byKind":     stats.ByKind,
		"references": a.refIdx.Len(),
	}
	if a.codeIdx != nil {
		lines, err := a.codeIdx.LineCount(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response["codeLines"] = lines
	}
	c.JSON(http.StatusOK, response)
}

// Serve runs the API on addr until ctx is canceled.
func (a *API) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.Router()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func pathKind(c *gin.Context) (types.ObjectKind, bool) {
	kind, ok := types.ParseObjectKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown object kind: " + c.Param("kind")})
		return "", false
	}
	return kind, true
}

func queryKinds(c *gin.Context) ([]types.ObjectKind, bool) {
	tokens := c.QueryArray("kind")
	if len(tokens) == 0 {
		return nil, true
	}
	kinds := make([]types.ObjectKind, 0, len(tokens))
	for _, token := range tokens {
		kind, ok := types.ParseObjectKind(token)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown object kind: " + token})
			return nil, false
		}
		kinds = append(kinds, kind)
	}
	return kinds, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func notFound(c *gin.Context, err error) {
	if errors.Is(err, types.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
