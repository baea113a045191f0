package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/navkit/calcontext-mcp/internal/config"
	"github.com/navkit/calcontext-mcp/internal/httpapi"
	"github.com/navkit/calcontext-mcp/internal/mcp"
)

var (
	serveHTTPAddr string
	servePreload  []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP server on stdio",
	Long:  "Serves MCP tool calls on stdio. With --http or httpAddr config, a read-only JSON API runs alongside.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "Also serve the read-only JSON API on this address (e.g. :8490)")
	serveCmd.Flags().StringArrayVar(&servePreload, "load", nil, "Export file or directory to load before serving (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveHTTPAddr != "" {
		cfg.HTTPAddr = serveHTTPAddr
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	eng.log.Infow("starting",
		"version", version,
		"sqliteDriver", sqliteDriver(cfg),
		"codeIndex", cfg.CodeIndex,
		"httpAddr", cfg.HTTPAddr)

	if len(servePreload) > 0 {
		if _, err := eng.loader.LoadPaths(ctx, servePreload); err != nil {
			return err
		}
	}

	// Both shells read the same indexes; they share one lock.
	lock := &sync.RWMutex{}

	server := mcp.NewServer(mcp.Options{
		DB:     eng.db,
		Refs:   eng.refIdx,
		Code:   eng.codeIdx,
		Loader: eng.loader,
		Log:    eng.log,
		Lock:   lock,
	})

	if cfg.HTTPAddr != "" {
		api := httpapi.New(httpapi.Options{
			DB:   eng.db,
			Refs: eng.refIdx,
			Code: eng.codeIdx,
			Log:  eng.log,
			Lock: lock,
		})
		go func() {
			if err := api.Serve(ctx, cfg.HTTPAddr); err != nil {
				eng.log.Errorw("http api stopped", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		eng.log.Info("mcp server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		eng.log.Infow("shutting down", "signal", sig.String())
		cancel()
		return nil
	case err := <-errChan:
		return err
	}
}
