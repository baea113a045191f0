package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/navkit/calcontext-mcp/internal/codeindex"
	"github.com/navkit/calcontext-mcp/internal/config"
	"github.com/navkit/calcontext-mcp/internal/loader"
	"github.com/navkit/calcontext-mcp/internal/refs"
	"github.com/navkit/calcontext-mcp/internal/symboldb"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "calcontext",
	Short: "calcontext — C/AL object export index served over MCP",
	Long:  "Parses flat-text C/AL object exports into a searchable in-memory symbol database with reference tracking and code search.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds a stderr logger. stdout stays free for the MCP protocol.
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// engine is the wired set of indexes every command works against.
type engine struct {
	db      *symboldb.Database
	refIdx  *refs.Index
	codeIdx *codeindex.Index
	loader  *loader.Loader
	log     *zap.SugaredLogger
}

func buildEngine(ctx context.Context, cfg config.Config) (*engine, error) {
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var codeIdx *codeindex.Index
	if cfg.CodeIndex {
		codeIdx, err = codeindex.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to open code index: %w", err)
		}
	}

	db := symboldb.New()
	refIdx := refs.NewIndex()
	ld := loader.New(db, refIdx, codeIdx, log, loader.Config{Workers: cfg.Workers})

	return &engine{
		db:      db,
		refIdx:  refIdx,
		codeIdx: codeIdx,
		loader:  ld,
		log:     log,
	}, nil
}

func (e *engine) close() {
	if e.codeIdx != nil {
		_ = e.codeIdx.Close()
	}
	_ = e.log.Sync()
}
