package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ava-backend/internal/email/domain"
	"ava-backend/internal/email/repository"
)

const dontKnowAnswer = "I don't have any emails that can answer that question."

type assistantService struct {
	store     RecordStore
	embedder  Embedder
	llm       CompletionService
	prefs     PreferenceSource
	history   repository.IngestRunRepository
	topK      int
	batchSize int
	cache     *digestCache
}

// NewAssistantUsecase wires the retrieval pipeline. history may be nil when
// no database is configured; ingest accounting is then skipped.
func NewAssistantUsecase(
	store RecordStore,
	embedder Embedder,
	llm CompletionService,
	prefs PreferenceSource,
	history repository.IngestRunRepository,
	topK, batchSize int,
	digestTTL time.Duration,
) AssistantUsecase {
	if topK <= 0 {
		topK = 5
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	return &assistantService{
		store:     store,
		embedder:  embedder,
		llm:       llm,
		prefs:     prefs,
		history:   history,
		topK:      topK,
		batchSize: batchSize,
		cache:     newDigestCache(digestTTL),
	}
}

func (s *assistantService) Ask(ctx context.Context, question string) (*domain.ChatAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %v", ErrUnavailable, err)
	}

	retrieved, err := s.store.SearchByVector(ctx, vector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: searching records: %v", ErrUnavailable, err)
	}

	if len(retrieved) == 0 {
		return &domain.ChatAnswer{Answer: dontKnowAnswer, References: []domain.EmailReference{}}, nil
	}

	emails := make([]domain.Email, 0, len(retrieved))
	for _, r := range retrieved {
		emails = append(emails, r.Email)
	}
	grounding := FormatGrounding(emails)

	answer, err := s.llm.Complete(ctx, buildAnswerPrompt(grounding, question))
	if err != nil {
		return nil, fmt.Errorf("%w: generating answer: %v", ErrUnavailable, err)
	}
	answer = strings.TrimSpace(answer)

	refs := s.attributeReferences(ctx, grounding, question, answer, retrieved)

	return &domain.ChatAnswer{Answer: answer, References: refs}, nil
}

func buildAnswerPrompt(grounding, question string) string {
	return fmt.Sprintf(`You are a personal email assistant. Answer the user's question using ONLY the emails below. If the emails do not contain the answer, say you don't know; do not guess.

Emails:
%s

Question: %s

Answer:`, grounding, question)
}

func (s *assistantService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is empty")
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%w: deleting record: %v", ErrUnavailable, err)
	}
	log.Printf("[Email] Deleted record %s", id)
	return nil
}
