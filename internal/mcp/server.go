// Package mcp exposes the structural index over the Model Context
// Protocol so coding assistants can query symbol outlines without
// shelling out to the CLI.
package mcp

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/structmap/structmap/internal/parse"
	"github.com/structmap/structmap/internal/storage"
)

// Server manages the MCP server lifecycle.
type Server struct {
	rootDir string
	parser  *parse.Parser
	reader  *storage.Reader
	db      *sql.DB
	mcp     *server.MCPServer
}

// NewServer creates an MCP server rooted at rootDir. If dbPath names an
// existing index database the outline tool answers from it; otherwise
// every request parses the file fresh.
func NewServer(rootDir, dbPath string) (*Server, error) {
	s := &Server{
		rootDir: rootDir,
		parser:  parse.NewParser(),
	}

	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			db, err := storage.Open(dbPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open index database: %w", err)
			}
			s.db = db
			s.reader = storage.NewReader(db)
		}
	}

	mcpServer := server.NewMCPServer(
		"structmap-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddParseTool(mcpServer, s)
	AddOutlineTool(mcpServer, s)
	AddLanguagesTool(mcpServer)
	if s.reader != nil {
		AddFindTool(mcpServer, s)
	}

	s.mcp = mcpServer
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

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
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the index database if one was opened.
func (s *Server) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
