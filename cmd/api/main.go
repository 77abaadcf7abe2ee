package main

import (
	"fmt"
	"log"

	"docuchat/internal/adapter/cohere"
	"docuchat/internal/adapter/groq"
	"docuchat/internal/adapter/repository/postgres"
	"docuchat/internal/delivery/http/handler"
	"docuchat/internal/delivery/http/middleware"
	"docuchat/internal/usecase/auth"
	"docuchat/internal/usecase/chat"
	"docuchat/internal/usecase/rag"
	"docuchat/pkg/config"
	"docuchat/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	// connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.EmbeddingDim)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("connected to database")

	// external capability clients, constructed once and injected
	embeddingClient := cohere.NewEmbeddingClient(cfg.CohereAPIKey, cfg.CohereBaseURL, cfg.CohereEmbeddingModel)
	chatClient := groq.NewChatClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.Temperature, cfg.MaxTokens)

	// initialize repositories
	userRepo := postgres.NewUserRepository(db)
	chunkRepo := postgres.NewChunkRepository(db)
	chatRepo := postgres.NewChatRepository(db)

	// initialize usecases
	authUsecase := auth.NewAuthUsecase(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	ragUsecase, err := rag.NewRAGUsecase(
		chunkRepo,
		embeddingClient,
		chatClient,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
		cfg.TopKResults,
	)
	if err != nil {
		log.Fatalf("invalid RAG configuration: %v", err)
	}
	chatUsecase := chat.NewChatUsecase(chatRepo, ragUsecase)

	// initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase)
	docHandler := handler.NewDocumentHandler(ragUsecase, cfg.MaxUploadFiles)
	chatHandler := handler.NewChatHandler(chatUsecase)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	app.Use(logger.New())

	// Public routes
	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/me", authHandler.Update)

	// document routes
	protected.Post("/documents/upload", docHandler.Upload)
	protected.Post("/documents/query", docHandler.Query)

	// chat routes
	protected.Post("/chats", chatHandler.Create)
	protected.Get("/chats", chatHandler.List)
	protected.Get("/chats/:id", chatHandler.Get)
	protected.Post("/chats/:id/messages", chatHandler.SendMessage)
	protected.Patch("/chats/:id", chatHandler.Rename)
	protected.Delete("/chats/:id", chatHandler.Delete)

	log.Printf("Server starting on port %d", cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
