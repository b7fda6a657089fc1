package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"partyround/backend/internal/config"
	"partyround/backend/internal/handler"
	"partyround/backend/internal/hub"
	"partyround/backend/internal/leaderboard"
	"partyround/backend/internal/session"
	"partyround/backend/internal/store"

	// Swagger imports
	_ "partyround/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Partyround API
// @version         1.0
// @description     Party-game session coordinator: lobbies, rounds, lives, scores and presence.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	cfg := config.AppConfig

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var st store.Store
	switch cfg.StorageDriver {
	case "postgres":
		gs, err := store.OpenGorm(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open postgres store", zap.Error(err))
		}
		st = gs
		logger.Info("using postgres store")
	default:
		st = store.NewMemoryStore()
		logger.Info("using in-memory store")
	}

	broadcaster := hub.NewHub(logger)
	boards := leaderboard.NewMirror(cfg.RedisAddr, logger)

	svc := session.NewService(st, broadcaster, boards, logger, session.Options{
		MaxPlayers:    cfg.MaxPlayers,
		RejoinPolicy:  cfg.RejoinPolicy,
		PresenceTTL:   cfg.PresenceTTL,
		SweepInterval: cfg.PresenceSweepInterval,
	})
	go svc.RunSweeper(context.Background())

	h := handler.New(svc, broadcaster, cfg.SSEKeepaliveInterval)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		lobbyRoutes := apiV1.Group("/lobbies")
		{
			lobbyRoutes.POST("", h.CreateLobby)
			lobbyRoutes.GET("", h.ListLobbies)
			lobbyRoutes.GET("/:id", h.GetLobby)
			lobbyRoutes.DELETE("/:id", h.DeleteLobby)
			lobbyRoutes.DELETE("/by-name/:name", h.DeleteLobbyByName)
			lobbyRoutes.POST("/:id/join-or-rejoin", h.JoinOrRejoin)
			lobbyRoutes.GET("/:id/rounds/current", h.CurrentRound)
			lobbyRoutes.GET("/:id/leaderboard", h.Leaderboard)
		}

		roundRoutes := apiV1.Group("/rounds")
		{
			roundRoutes.POST("/start", h.StartRound)
			roundRoutes.PATCH("/:id/life", h.UpdateLife)
			roundRoutes.POST("/:id/finish", h.FinishRound)
		}

		apiV1.POST("/presence/heartbeat", h.Heartbeat)
		apiV1.GET("/events", h.Events)
	}

	logger.Info("server listening", zap.String("addr", cfg.ServerAddr))
	if err := router.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
