package chroma

import (
	"context"
	"fmt"
	"log"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"

	"ava-backend/internal/email/domain"
)

// Store is the email record store backed by a Chroma collection. Vectors are
// supplied by the caller at insert time; the collection itself has no
// embedding function, so retrieval is a pure function of the query vector.
type Store struct {
	client         chroma.Client
	collection     chroma.Collection
	collectionName string
}

func NewStore(ctx context.Context, url, collectionName string) (*Store, error) {
	if collectionName == "" {
		collectionName = "emails"
	}

	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(url))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("[Chroma] Initialized store with collection: %s", collectionName)

	return &Store{
		client:         client,
		collection:     collection,
		collectionName: collectionName,
	}, nil
}

// Insert stores one email with its embedding vector and returns the assigned
// identifier.
func (s *Store) Insert(ctx context.Context, email domain.Email, vector []float32) (string, error) {
	id := uuid.New().String()

	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"sender":        email.Sender,
		"subject":       email.Subject,
		"received_date": email.ReceivedDate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create metadata: %w", err)
	}

	err = s.collection.Add(
		ctx,
		chroma.WithIDs(chroma.DocumentID(id)),
		chroma.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(email.Body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to add email record: %w", err)
	}

	return id, nil
}

// FetchByID returns the email with the given id, or (nil, nil) if it does not
// exist. Absence is a normal outcome, not an error.
func (s *Store) FetchByID(ctx context.Context, id string) (*domain.Email, error) {
	result, err := s.collection.Get(ctx, chroma.WithIDsGet(chroma.DocumentID(id)))
	if err != nil {
		return nil, fmt.Errorf("failed to get email record: %w", err)
	}

	records := resultToEmails(result)
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// FetchBatch returns up to limit emails in store-defined order.
func (s *Store) FetchBatch(ctx context.Context, limit int) ([]domain.Email, error) {
	result, err := s.collection.Get(ctx, chroma.WithLimitGet(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch email batch: %w", err)
	}
	return resultToEmails(result), nil
}

// SearchByVector returns up to k emails ordered by similarity to the query
// vector, most similar first. Fewer than k results are possible.
func (s *Store) SearchByVector(ctx context.Context, vector []float32, k int) ([]domain.RetrievedEmail, error) {
	results, err := s.collection.Query(
		ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	if results == nil || results.CountGroups() == 0 {
		return []domain.RetrievedEmail{}, nil
	}

	idGroups := results.GetIDGroups()
	documentGroups := results.GetDocumentsGroups()
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()

	if len(idGroups) == 0 || len(idGroups[0]) == 0 {
		return []domain.RetrievedEmail{}, nil
	}

	retrieved := make([]domain.RetrievedEmail, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		record := domain.Email{ID: string(id)}
		if len(documentGroups) > 0 && i < len(documentGroups[0]) {
			record.Body = documentGroups[0][i].ContentString()
		}
		if len(metadataGroups) > 0 && i < len(metadataGroups[0]) {
			fillFromMetadata(&record, metadataGroups[0][i])
		}

		score := 0.0
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			// Chroma reports distances, smaller is closer
			score = 1 - float64(distanceGroups[0][i])
		}

		retrieved = append(retrieved, domain.RetrievedEmail{Email: record, Score: score})
	}

	return retrieved, nil
}

// DeleteByID removes the email with the given id. Deleting a nonexistent id
// is not an error.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	err := s.collection.Delete(ctx, chroma.WithIDsDelete(chroma.DocumentID(id)))
	if err != nil {
		return fmt.Errorf("failed to delete email record: %w", err)
	}
	return nil
}

// HasEmbedding reports whether the record exists and carries a non-empty
// vector. Used by the maintenance CLI to diagnose failed ingestions.
func (s *Store) HasEmbedding(ctx context.Context, id string) (found, hasVector bool, err error) {
	result, err := s.collection.Get(
		ctx,
		chroma.WithIDsGet(chroma.DocumentID(id)),
		chroma.WithIncludeGet(chroma.IncludeEmbeddings),
	)
	if err != nil {
		return false, false, fmt.Errorf("failed to get email record: %w", err)
	}

	ids := result.GetIDs()
	if len(ids) == 0 {
		return false, false, nil
	}

	embs := result.GetEmbeddings()
	if len(embs) == 0 || embs[0] == nil || embs[0].Len() == 0 {
		return true, false, nil
	}
	return true, true, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// DeleteAll removes every record one by one and returns how many were
// deleted. Per-id deletion keeps the accounting when some deletes fail.
func (s *Store) DeleteAll(ctx context.Context) (deleted int, failed int, err error) {
	result, err := s.collection.Get(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list records: %w", err)
	}

	for _, id := range result.GetIDs() {
		if delErr := s.collection.Delete(ctx, chroma.WithIDsDelete(id)); delErr != nil {
			log.Printf("[Chroma] Error deleting record %s: %v", id, delErr)
			failed++
			continue
		}
		deleted++
	}

	return deleted, failed, nil
}

// Recreate drops and recreates the collection, removing all records.
func (s *Store) Recreate(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collectionName); err != nil {
		log.Printf("[Chroma] Error deleting collection (may not exist): %v", err)
	}

	collection, err := s.client.GetOrCreateCollection(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}

	s.collection = collection
	return nil
}

// Close releases the underlying HTTP client.
func (s *Store) Close() error {
	return s.client.Close()
}

func resultToEmails(result chroma.GetResult) []domain.Email {
	if result == nil {
		return []domain.Email{}
	}

	ids := result.GetIDs()
	documents := result.GetDocuments()
	metadatas := result.GetMetadatas()

	records := make([]domain.Email, 0, len(ids))
	for i, id := range ids {
		record := domain.Email{ID: string(id)}
		if i < len(documents) {
			record.Body = documents[i].ContentString()
		}
		if i < len(metadatas) {
			fillFromMetadata(&record, metadatas[i])
		}
		records = append(records, record)
	}
	return records
}

func fillFromMetadata(record *domain.Email, metadata chroma.DocumentMetadata) {
	if metadata == nil {
		return
	}
	if sender, ok := metadata.GetString("sender"); ok {
		record.Sender = sender
	}
	if subject, ok := metadata.GetString("subject"); ok {
		record.Subject = subject
	}
	if date, ok := metadata.GetString("received_date"); ok {
		record.ReceivedDate = date
	}
}
