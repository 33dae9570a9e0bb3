package main

import (
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"todotracker/internal/config"
	"todotracker/internal/mcp"
	"todotracker/internal/repository"
)

func main() {
	cfg := config.Load()

	userEmail := os.Getenv("MCP_USER_EMAIL")
	if userEmail == "" {
		log.Fatal("❌ MCP_USER_EMAIL must be set")
	}

	db, err := repository.NewDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}

	s, err := mcp.New(db, userEmail)
	if err != nil {
		log.Fatalf("❌ MCP server initialization failed: %v", err)
	}

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("❌ MCP server stopped: %v", err)
	}
}
