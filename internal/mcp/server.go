// Package mcp exposes the structural search engine over the Model
// Context Protocol on stdio.
package mcp

// Implementation Plan:
// 1. Server struct owning the engine and the mcp-go server
// 2. NewServer - creates engine, registers every tool
// 3. Serve - stdio transport with graceful shutdown
// 4. Graceful shutdown on SIGTERM/SIGINT

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/JavierFrauca/mcp-code-manager/internal/config"
	"github.com/JavierFrauca/mcp-code-manager/internal/search"
)

// ServerName identifies this server to MCP clients.
const ServerName = "mcp-code-manager"

// Server manages the MCP server lifecycle.
type Server struct {
	cfg    *config.Config
	engine *search.Engine
	mcp    *server.MCPServer
}

// NewServer creates an MCP server with every structural tool
// registered.
func NewServer(cfg *config.Config, version string) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	engine, err := search.NewEngine(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search engine: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	AddFindClassTool(mcpServer, engine)
	AddFindElementsTool(mcpServer, engine)
	AddGetFileWithAnalysisTool(mcpServer, engine)
	AddGetSolutionStructureTool(mcpServer, engine)
	AddSearchSymbolsTool(mcpServer, engine)

	return &Server{
		cfg:    cfg,
		engine: engine,
		mcp:    mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the engine and its cache.
func (s *Server) Close() error {
	if s.engine != nil {
		return s.engine.Close()
	}
	return nil
}
