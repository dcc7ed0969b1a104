package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FIFI1803/threadflow-studio/pkg/config"
	"github.com/FIFI1803/threadflow-studio/pkg/db"
	"github.com/FIFI1803/threadflow-studio/pkg/handlers"
	"github.com/FIFI1803/threadflow-studio/pkg/llm"
	"github.com/FIFI1803/threadflow-studio/pkg/lock"
	"github.com/FIFI1803/threadflow-studio/pkg/middleware"
	"github.com/FIFI1803/threadflow-studio/pkg/services"
	"github.com/FIFI1803/threadflow-studio/pkg/workflow"
	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetOutput(gin.DefaultWriter)
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.LoadConfig()

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.Info("Starting ThreadFlow Studio API...")

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	llmClient, err := llm.NewService(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	defer llmClient.Close()

	sessionLock := lock.NewSessionLock(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer sessionLock.Close()
	if err := sessionLock.Ping(context.Background()); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	tokens := services.NewTokenService(cfg.JwtSecret)
	projects, profiles := workflow.NewDBStores()
	controller := workflow.NewController(llmClient, projects, profiles, sessionLock)
	apiHandlers := handlers.NewHandlers(cfg, tokens, controller)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Client-Info", "Apikey"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", handlers.HealthCheck)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", apiHandlers.RegisterUser)
		authRoutes.POST("/login", apiHandlers.LoginUser)
	}

	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(middleware.AuthMiddleware(tokens))
	{
		protectedRoutes.POST("/generate-script", apiHandlers.GenerateScript)

		protectedRoutes.GET("/profile", apiHandlers.GetProfile)
		protectedRoutes.PATCH("/profile", apiHandlers.UpdateProfile)
		protectedRoutes.POST("/account/delete", apiHandlers.DeleteAccount)

		projectsRoutes := protectedRoutes.Group("/projects")
		{
			projectsRoutes.GET("", apiHandlers.GetUserProjects)
			projectsRoutes.GET("/:id", apiHandlers.GetProjectByID)
			projectsRoutes.DELETE("/:id", apiHandlers.DeleteProject)
		}

		protectedRoutes.GET("/videos", apiHandlers.GetVideos)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully.")
}
