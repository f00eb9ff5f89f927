package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/groupsync/groupsync/pkg/groupsync/auth"
	"github.com/groupsync/groupsync/pkg/groupsync/availability"
	"github.com/groupsync/groupsync/pkg/groupsync/config"
	"github.com/groupsync/groupsync/pkg/groupsync/database"
	"github.com/groupsync/groupsync/pkg/groupsync/events"
	"github.com/groupsync/groupsync/pkg/groupsync/groups"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"github.com/groupsync/groupsync/pkg/groupsync/polls"
	"github.com/groupsync/groupsync/pkg/groupsync/routines"
)

// @title GroupSync API
// @version 1.0
// @description Group time coordination: shared routines with collision detection, dated events and event polls.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	availabilityClient := availability.NewClient(cfg.AvailabilityURL, cfg.AvailabilityTimeout)

	r := gin.Default()
	r.Use(cors.Default())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "groupsync",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Groups routes (protected), with routines and events nested under them
		groupsHandler := groups.NewHandler(db)
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(auth.AuthMiddleware())
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterMemberRoutes(groupsGroup)

		routinesHandler := routines.NewHandler(db, availabilityClient)
		routinesHandler.RegisterRoutes(groupsGroup)

		eventsHandler := events.NewHandler(db)
		eventsHandler.RegisterRoutes(groupsGroup)

		// Polls routes (protected)
		pollsHandler := polls.NewHandler(db, cfg.RequireVoterMembership)
		pollsGroup := api.Group("/polls")
		pollsGroup.Use(auth.AuthMiddleware())
		pollsHandler.RegisterRoutes(pollsGroup)
	}

	log.Printf("Starting GroupSync server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
