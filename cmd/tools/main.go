// Command tools is the maintenance CLI for the email record store:
// seeding sample data, wiping the collection and checking stored vectors.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ava-backend/internal/email/domain"
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
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()

	store, err := chroma.NewStore(ctx, cfg.ChromaURL, cfg.ChromaCollection)
	if err != nil {
		log.Fatal("Failed to initialize vector store:", err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "seed":
		runSeed(ctx, cfg, store)
	case "deleteall":
		runDeleteAll(ctx, store)
	case "recreate":
		runRecreate(ctx, store)
	case "checkvector":
		if len(os.Args) < 3 {
			log.Fatal("checkvector requires a record id")
		}
		runCheckVector(ctx, store, os.Args[2])
	case "count":
		count, err := store.Count(ctx)
		if err != nil {
			log.Fatal("Failed to count records:", err)
		}
		fmt.Printf("%d records in collection %s\n", count, cfg.ChromaCollection)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: tools <command>

commands:
  seed              ingest a batch of sample emails
  deleteall         delete every record (asks for confirmation)
  recreate          drop and recreate the collection
  checkvector <id>  report whether a record exists and has a vector
  count             print the number of stored records`)
}

func runSeed(ctx context.Context, cfg *config.Config, store *chroma.Store) {
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

	var ingestRunRepo emailRepo.IngestRunRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&domain.IngestRun{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		ingestRunRepo = emailRepo.NewIngestRunRepository(db)
	}

	assistant := emailUsecase.NewAssistantUsecase(
		store,
		openaiClient,
		completionService,
		settings.NewStore(cfg.SettingsFile),
		ingestRunRepo,
		cfg.RetrievalTopK,
		cfg.DigestBatchSize,
		cfg.DigestTTL,
	)

	succeeded, failed, err := assistant.Ingest(ctx, sampleEmails(), "seed")
	if err != nil {
		log.Fatal("Seed failed:", err)
	}
	fmt.Printf("Seeded %d emails (%d failed)\n", succeeded, failed)
}

func runDeleteAll(ctx context.Context, store *chroma.Store) {
	count, err := store.Count(ctx)
	if err != nil {
		log.Fatal("Failed to count records:", err)
	}
	if count == 0 {
		fmt.Println("Collection is already empty")
		return
	}

	fmt.Printf("This will delete all %d records. Type 'yes' to continue: ", count)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Println("Aborted")
		return
	}

	deleted, failed, err := store.DeleteAll(ctx)
	if err != nil {
		log.Fatal("Delete failed:", err)
	}
	fmt.Printf("Deleted %d records (%d failed)\n", deleted, failed)
}

func runRecreate(ctx context.Context, store *chroma.Store) {
	if err := store.Recreate(ctx); err != nil {
		log.Fatal("Recreate failed:", err)
	}
	fmt.Println("Collection recreated")
}

func runCheckVector(ctx context.Context, store *chroma.Store, id string) {
	found, hasVector, err := store.HasEmbedding(ctx, id)
	if err != nil {
		log.Fatal("Check failed:", err)
	}
	switch {
	case !found:
		fmt.Printf("Record %s not found\n", id)
	case !hasVector:
		fmt.Printf("Record %s exists but has NO embedding vector\n", id)
	default:
		fmt.Printf("Record %s exists and has an embedding vector\n", id)
	}
}

func sampleEmails() []domain.IncomingEmail {
	now := time.Now()
	date := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	}
	return []domain.IncomingEmail{
		{
			Sender:       "sarah.chen@acme.example",
			Subject:      "Q3 budget review needs your sign-off by Friday",
			Body:         "Hi, finance needs your approval on the Q3 budget before Friday EOD or we miss the board deadline. The spreadsheet is in the shared drive. Can you review today?",
			ReceivedDate: date(0),
		},
		{
			Sender:       "it-support@acme.example",
			Subject:      "Scheduled maintenance this weekend",
			Body:         "The VPN will be unavailable Saturday 02:00-06:00 UTC for scheduled maintenance. No action needed.",
			ReceivedDate: date(1),
		},
		{
			Sender:       "mike.torres@acme.example",
			Subject:      "Re: vendor contract renewal",
			Body:         "Still waiting on legal to get back to us on the liability clause. I'll ping them again Monday if we haven't heard anything.",
			ReceivedDate: date(1),
		},
		{
			Sender:       "recruiting@acme.example",
			Subject:      "Interview panel for backend engineer role",
			Body:         "We need two more panelists for next week's onsite loops. Could someone from your team take the system design slot on Wednesday?",
			ReceivedDate: date(2),
		},
		{
			Sender:       "anna.kovacs@partner.example",
			Subject:      "Draft proposal attached",
			Body:         "Attached is the draft integration proposal we discussed. No rush, but I'd love your comments before our call on the 15th.",
			ReceivedDate: date(3),
		},
		{
			Sender:       "noreply@statuspage.example",
			Subject:      "Incident resolved: API latency",
			Body:         "The elevated API latency reported earlier today has been resolved. Root cause analysis will follow within 5 business days.",
			ReceivedDate: date(3),
		},
		{
			Sender:       "david.lin@acme.example",
			Subject:      "Expense report approval pending",
			Body:         "My March expense report has been sitting in your queue for two weeks. Could you approve or reject it so I can close the month?",
			ReceivedDate: date(4),
		},
		{
			Sender:       "events@conference.example",
			Subject:      "Your speaker slot is confirmed",
			Body:         "You are confirmed for the 14:00 slot on day two. Please send your final slides by the end of next week.",
			ReceivedDate: date(5),
		},
	}
}
