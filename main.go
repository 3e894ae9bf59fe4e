package main

import (
	"context"
	"log"

	api "ava-backend/cmd/api"
	emaildomain "ava-backend/internal/email/domain"
	emailRepo "ava-backend/internal/email/repository"
	emailUsecase "ava-backend/internal/email/usecase"
	"ava-backend/internal/settings"
	"ava-backend/pkg/ai"
	"ava-backend/pkg/chroma"
	"ava-backend/pkg/config"
	"ava-backend/pkg/database"
	"ava-backend/pkg/openai"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database for ingest accounting. Optional: the pipeline runs
	// without it, batches just go unrecorded.
	var ingestRunRepo emailRepo.IngestRunRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&emaildomain.IngestRun{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		ingestRunRepo = emailRepo.NewIngestRunRepository(db)
	} else {
		log.Println("[WARN] DATABASE_URL not set, ingest runs will not be recorded")
	}

	// Initialize vector store
	store, err := chroma.NewStore(context.Background(), cfg.ChromaURL, cfg.ChromaCollection)
	if err != nil {
		log.Fatal("Failed to initialize vector store:", err)
	}
	defer store.Close()

	// Embeddings always go through OpenAI; completions go through the
	// configured provider chain.
	openaiClient := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIChatModel, cfg.OpenAIEmbeddingModel)

	completionService, err := ai.NewCompletionService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIChatModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI service:", err)
	}
	log.Printf("AI service initialized with provider: %s", cfg.AIProvider)

	// Settings store feeds categorization preference hints
	settingsStore := settings.NewStore(cfg.SettingsFile)

	// Initialize use case (dependency injection)
	assistantUc := emailUsecase.NewAssistantUsecase(
		store,
		openaiClient,
		completionService,
		settingsStore,
		ingestRunRepo,
		cfg.RetrievalTopK,
		cfg.DigestBatchSize,
		cfg.DigestTTL,
	)

	// Initialize HTTP handler
	handler := api.NewHandler(assistantUc, settingsStore, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
