package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"unilib/internal/config"
	"unilib/internal/handlers"
	"unilib/internal/models"
	"unilib/internal/repositories"
	"unilib/internal/services"
)

// offlineResponder stands in for the external chatbot collaborator when no
// provider is wired up.
type offlineResponder struct{}

func (offlineResponder) Reply(_ context.Context, _, _ string) (string, error) {
	return "The librarian assistant is offline right now. Please browse the catalog or ask at the desk.", nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get generic DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.LibraryCard{},
		&models.BorrowRecord{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	cardRepo := repositories.NewCardRepository(db)
	borrowRepo := repositories.NewBorrowRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	catalogService := services.NewCatalogService(userRepo, bookRepo, borrowRepo)
	cardService := services.NewCardService(cardRepo)
	borrowService := services.NewBorrowService(db, bookRepo, cardRepo, borrowRepo)
	chatService := services.NewChatService(bookRepo, borrowRepo, cardRepo, offlineResponder{})

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.Default())

	handlers.RegisterRoutes(router, cfg.JWTSecret,
		authService, catalogService, cardService, borrowService, chatService)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
