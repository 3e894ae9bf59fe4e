package usecase

import (
	"context"

	"ava-backend/internal/email/domain"
)

// AssistantUsecase is the core retrieval-and-grounding pipeline exposed to
// the HTTP layer and the maintenance CLI.
type AssistantUsecase interface {
	// Ask answers a natural-language question from the stored emails and
	// attributes the answer back to the records that produced it.
	Ask(ctx context.Context, question string) (*domain.ChatAnswer, error)
	// GetDigest returns the categorized homescreen digest, served from the
	// single-slot cache unless it is stale or forceRefresh is set.
	GetDigest(ctx context.Context, forceRefresh bool) (*domain.HomescreenDigest, error)
	// CachedDigest returns the last successfully produced digest, if any,
	// regardless of freshness. Used to serve stale data on refresh failure.
	CachedDigest() (*domain.HomescreenDigest, bool)
	// Ingest embeds and stores a batch of emails. Each record succeeds or
	// fails independently; the counts always add up to len(emails).
	Ingest(ctx context.Context, emails []domain.IncomingEmail, source string) (succeeded, failed int, err error)
	// IngestRaw parses raw RFC 822 messages and ingests them. A message that
	// fails to parse counts as one failure.
	IngestRaw(ctx context.Context, messages [][]byte) (succeeded, failed int, err error)
	// Delete removes a record. Deleting a nonexistent id is not an error.
	Delete(ctx context.Context, id string) error
}

// RecordStore is the persistence collaborator: point lookup, bulk fetch,
// vector search and deletion over email records.
type RecordStore interface {
	Insert(ctx context.Context, email domain.Email, vector []float32) (string, error)
	FetchByID(ctx context.Context, id string) (*domain.Email, error)
	FetchBatch(ctx context.Context, limit int) ([]domain.Email, error)
	SearchByVector(ctx context.Context, vector []float32, k int) ([]domain.RetrievedEmail, error)
	DeleteByID(ctx context.Context, id string) error
}

// Embedder maps free text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionService is the generation collaborator, prompt in, text out.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PreferenceSource supplies the user's categorization hints per invocation.
// The pipeline does not own or persist them.
type PreferenceSource interface {
	Current() domain.UserSettings
}
