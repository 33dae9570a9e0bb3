package main

import (
	"log"

	_ "todotracker/docs"
	"todotracker/internal/config"
	"todotracker/internal/server"
)

// @title           TodoTracker API
// @version         1.0
// @description     Personal task tracking with effort point analytics.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
