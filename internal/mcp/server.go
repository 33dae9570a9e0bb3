// Package mcp exposes the task tracker to assistant clients over the Model
// Context Protocol. The server speaks stdio and acts for a single user,
// resolved by email at startup.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"gorm.io/gorm"

	"todotracker/internal/repository"
	"todotracker/internal/service"
)

const serverName = "todotracker"

// Version is set at build time via ldflags.
var Version = "dev"

// New builds the MCP server with all tools registered. userEmail selects
// the account the tools act for; it must already exist.
func New(db *gorm.DB, userEmail string) (*server.MCPServer, error) {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	analytics := service.NewAnalyticsService(taskRepo, completionRepo)

	user, err := userRepo.FindByEmail(context.Background(), userEmail)
	if err != nil {
		return nil, fmt.Errorf("looking up user %s: %w", userEmail, err)
	}
	if user == nil {
		return nil, fmt.Errorf("no user with email %s, register through the web app first", userEmail)
	}

	s := server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tools := NewTools(user.ID, taskRepo, categoryRepo, analytics)
	s.AddTool(tools.GetDashboardTool(), tools.HandleGetDashboard)
	s.AddTool(tools.ListTasksTool(), tools.HandleListTasks)
	s.AddTool(tools.CreateTaskTool(), tools.HandleCreateTask)
	s.AddTool(tools.CompleteTaskTool(), tools.HandleCompleteTask)
	s.AddTool(tools.GetAnalyticsTool(), tools.HandleGetAnalytics)
	s.AddTool(tools.ListCategoriesTool(), tools.HandleListCategories)

	return s, nil
}
