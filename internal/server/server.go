package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todotracker/internal/config"
	"todotracker/internal/handler"
	"todotracker/internal/middleware"
	"todotracker/internal/repository"
	"todotracker/internal/service"
	"todotracker/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	db, err := repository.NewDB(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	log.Println("✅ Connected to database")

	// Setup Gin
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "web/static")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	completionRepo := repository.NewCompletionRepository(db)

	// Initialize services
	analyticsService := service.NewAnalyticsService(taskRepo, completionRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, categoryRepo, noteRepo)
	categoryHandler := handler.NewCategoryHandler(categoryRepo, taskRepo)
	noteHandler := handler.NewNoteHandler(noteRepo, taskRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	webHandler := web.NewHandler(userRepo, taskRepo, categoryRepo, noteRepo, analyticsService)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// JSON API - requires a Bearer token or the auth cookie
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Task routes
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/search", taskHandler.Search)
		api.GET("/tasks/:id", taskHandler.GetByID)
		api.PUT("/tasks/:id", taskHandler.Update)
		api.DELETE("/tasks/:id", taskHandler.Delete)
		api.POST("/tasks/:id/complete", taskHandler.Complete)
		api.POST("/tasks/:id/reopen", taskHandler.Reopen)

		// Category routes
		api.POST("/categories", categoryHandler.Create)
		api.GET("/categories", categoryHandler.GetAll)
		api.GET("/categories/:id", categoryHandler.GetByID)
		api.PUT("/categories/:id", categoryHandler.Update)
		api.DELETE("/categories/:id", categoryHandler.Delete)
		api.GET("/categories/:id/tasks", categoryHandler.Tasks)

		// Note routes
		api.POST("/notes", noteHandler.Create)
		api.GET("/notes", noteHandler.List)
		api.GET("/notes/:id", noteHandler.GetByID)
		api.DELETE("/notes/:id", noteHandler.Delete)

		// Analytics routes
		api.GET("/analytics/dashboard", analyticsHandler.Dashboard)
		api.GET("/analytics/effort-points", analyticsHandler.EffortPoints)
		api.GET("/analytics/category-breakdown", analyticsHandler.CategoryBreakdown)
		api.GET("/analytics/completion-history", analyticsHandler.CompletionHistory)
	}

	// Server-rendered UI - cookie auth with redirect to /login
	r.GET("/login", webHandler.LoginPage)
	r.POST("/login-form", webHandler.Login)
	r.GET("/logout", webHandler.Logout)

	ui := r.Group("/")
	ui.Use(middleware.WebAuthMiddleware(cfg.JWTSecret))
	{
		ui.GET("/", webHandler.Dashboard)
		ui.GET("/analytics", webHandler.Analytics)
		ui.GET("/tasks", webHandler.TaskList)
		ui.GET("/tasks/new", webHandler.TaskForm)
		ui.POST("/tasks", webHandler.TaskCreate)
		ui.GET("/tasks/:id", webHandler.TaskDetail)
		ui.GET("/tasks/:id/edit", webHandler.TaskForm)
		ui.POST("/tasks/:id", webHandler.TaskUpdate)
		ui.POST("/tasks/:id/delete", webHandler.TaskDelete)
		ui.POST("/tasks/:id/complete", webHandler.TaskComplete)
		ui.POST("/tasks/:id/notes", webHandler.NoteCreate)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
