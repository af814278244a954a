package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/ManuelBanchero/roadmap-sh-projects/internal/config"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/database"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/handlers"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/middleware"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/models"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/monitoring"
	"github.com/ManuelBanchero/roadmap-sh-projects/internal/session"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	database.CreateTables(db)
	createDefaultAdmin(db, cfg)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal("Failed to ping session store:", err)
	}
	log.Println("Connected to session store successfully")

	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	monitor := monitoring.NewService(db, time.Now())

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.RequestMetrics())

	authHandler := handlers.NewAuthHandler(db, sessions)
	postHandler := handlers.NewPostHandler(db)
	statusHandler := handlers.NewStatusHandler(monitor)

	router.GET("/health", statusHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/status", statusHandler.Status)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.RequireAuth(sessions), authHandler.Logout)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.GetAll)
			posts.GET("/:id", postHandler.GetOne)

			admin := middleware.RequireAdmin(db, sessions)
			posts.POST("", admin, postHandler.Create)
			posts.PUT("/:id", admin, postHandler.Update)
			posts.DELETE("/:id", admin, postHandler.Delete)
		}
	}

	log.Printf("Starting server on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// createDefaultAdmin seeds an admin account the first time the server starts
// against an empty users table. Role changes afterwards happen only by direct
// administrative action against the store.
func createDefaultAdmin(db *sql.DB, cfg *config.Config) {
	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		log.Fatal("Failed to count users:", err)
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	_, err = db.Exec(
		`INSERT INTO users (name, email, username, password, role) VALUES ($1, $2, $3, $4, $5)`,
		cfg.AdminName, cfg.AdminEmail, cfg.AdminUsername, string(hashed), models.RoleAdmin,
	)
	if err != nil {
		log.Fatal("Failed to create default admin user:", err)
	}

	log.Println("Created default admin user:")
	log.Printf("Username: %s", cfg.AdminUsername)
	log.Println("Please change these credentials after first login!")
}
