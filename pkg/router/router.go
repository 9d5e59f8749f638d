package router

import (
	"sync"
	"time"

	"island-npc-engine/backend/conversation/ws"
	"island-npc-engine/backend/internal/api"
	"island-npc-engine/backend/pkg/config"
	"island-npc-engine/backend/pkg/di"
	"island-npc-engine/backend/pkg/errors"
	"island-npc-engine/backend/pkg/health"
	"island-npc-engine/backend/pkg/logger"
	"island-npc-engine/backend/pkg/middleware"
	"island-npc-engine/backend/pkg/resilience"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Hub       *ws.Hub
	Config    *config.Config
	Checker   *health.Checker

	// engineMu serializes all directory and orchestrator access across
	// HTTP handlers and websocket clients; the engine assumes a single
	// logical caller.
	engineMu *sync.Mutex
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	cfg := container.Config

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := gin.New()

	// Use the logger middleware first to capture all requests
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	// Rate limit from configuration
	limiterOpts := middleware.DefaultRateLimiterOptions()
	limiterOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	limiterOpts.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, limiterOpts)
	engine.Use(rateLimiter.Middleware())

	// Initialize WebSocket hub for streaming dialogue
	engineMu := &sync.Mutex{}
	hub := ws.NewHub(container.Orchestrator, container.Directory, engineMu, container.Logger)
	go hub.Run()

	// Periodic component checks backing the health endpoint
	checker := health.NewChecker(container.Logger, 30*time.Second)
	if container.DB != nil {
		checker.RegisterDatabaseCheck(func() error {
			return config.TestConnection(container.DB)
		})
	}
	checker.RegisterCheck("ai-service", func() (health.Status, string, error) {
		if container.AIService.State() == resilience.StateOpen {
			return health.StatusDegraded, "AI service circuit open", nil
		}
		return health.StatusUp, "AI service reachable", nil
	})
	checker.Start()

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Hub:       hub,
		Config:    cfg,
		Checker:   checker,
		engineMu:  engineMu,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	// Add CORS middleware
	r.Engine.Use(corsMiddleware())

	characterHandler := api.NewCharacterHandler(r.engineMu, r.Container.Directory, r.Container.AIService, r.Container.Profiles, r.Container.Metrics)
	dialogueHandler := api.NewDialogueHandler(r.engineMu, r.Container.Orchestrator, r.Container.Directory, r.Container.Profiles, r.Container.Metrics)
	worldHandler := api.NewWorldHandler(r.engineMu, r.Container.Directory, r.Container.Saves, r.Container.Profiles)
	healthHandler := api.NewHealthHandler(r.Checker)

	// API version 1 routes
	v1 := r.Engine.Group("/api/v1")

	v1.GET("/health", healthHandler.Health)

	characterRoutes := v1.Group("/characters")
	{
		characterRoutes.POST("", characterHandler.Spawn)
		characterRoutes.GET("", characterHandler.List)
		characterRoutes.GET("/:id", characterHandler.Get)
		characterRoutes.DELETE("/:id", characterHandler.Despawn)
		characterRoutes.POST("/:id/kill", characterHandler.Kill)
		characterRoutes.POST("/:id/portrait", characterHandler.Portrait)

		characterRoutes.POST("/:id/dialogue", dialogueHandler.Talk)
		characterRoutes.POST("/:id/relationship", dialogueHandler.AdjustRelationship)
		characterRoutes.POST("/:id/memories", dialogueHandler.RecordMemory)
		characterRoutes.GET("/:id/memories", dialogueHandler.RelevantMemories)
	}

	v1.POST("/rumors", dialogueHandler.SpreadRumor)

	worldRoutes := v1.Group("/world")
	{
		worldRoutes.GET("/export", worldHandler.Export)
		worldRoutes.POST("/import", worldHandler.Import)
		worldRoutes.GET("/saves", worldHandler.ListSlots)
		worldRoutes.POST("/saves", worldHandler.SaveSlot)
		worldRoutes.POST("/saves/:name/load", worldHandler.LoadSlot)
		worldRoutes.DELETE("/saves/:name", worldHandler.DeleteSlot)
	}

	// WebSocket route
	r.Engine.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(r.Hub, c)
	})
}

// Enhance CORS middleware to explicitly allow WebSocket-specific headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		if origin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
