package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ava-backend/internal/email/domain"
)

// GetDigest returns the homescreen digest, producing a fresh one when the
// cached slot is stale or forceRefresh is set. Concurrent refreshes collapse
// into a single categorizer call.
func (s *assistantService) GetDigest(ctx context.Context, forceRefresh bool) (*domain.HomescreenDigest, error) {
	if !forceRefresh {
		if digest, ok := s.cache.fresh(); ok {
			return digest, nil
		}
	}
	return s.cache.refresh(ctx, s.produceDigest)
}

// CachedDigest exposes the last good digest regardless of age, so the
// delivery layer can serve stale data when a refresh fails.
func (s *assistantService) CachedDigest() (*domain.HomescreenDigest, bool) {
	return s.cache.last()
}

func (s *assistantService) produceDigest(ctx context.Context) (*domain.HomescreenDigest, error) {
	batch, err := s.store.FetchBatch(ctx, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching digest batch: %v", ErrUnavailable, err)
	}
	if len(batch) == 0 {
		return &domain.HomescreenDigest{
			Urgent:    []domain.CategorizedEmail{},
			Delegate:  []domain.CategorizedEmail{},
			WaitingOn: []domain.CategorizedEmail{},
		}, nil
	}

	prefs := domain.UserSettings{}
	if s.prefs != nil {
		prefs = s.prefs.Current()
	}

	raw, err := s.llm.Complete(ctx, buildDigestPrompt(batch, prefs))
	if err != nil {
		return nil, fmt.Errorf("%w: categorizing batch: %v", ErrUnavailable, err)
	}

	digest, err := parseDigest(raw, batch)
	if err != nil {
		return nil, err
	}
	return digest, nil
}

// parseDigest decodes the categorizer output and enforces its contract:
// entries must point at batch records, buckets are truncated to their caps,
// entries naming unknown ids are dropped. A response that cannot be decoded
// at all is a schema failure.
func parseDigest(raw string, batch []domain.Email) (*domain.HomescreenDigest, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDigestSchema, err)
	}

	var digest domain.HomescreenDigest
	if err := json.Unmarshal([]byte(obj), &digest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDigestSchema, err)
	}

	batchIDs := make(map[string]bool, len(batch))
	byID := make(map[string]domain.Email, len(batch))
	for _, e := range batch {
		batchIDs[e.ID] = true
		byID[e.ID] = e
	}

	digest.Urgent = sanitizeBucket(digest.Urgent, domain.MaxUrgent, byID)
	digest.Delegate = sanitizeBucket(digest.Delegate, domain.MaxDelegate, byID)
	digest.WaitingOn = sanitizeBucket(digest.WaitingOn, domain.MaxWaitingOn, byID)

	if err := digest.Validate(batchIDs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDigestSchema, err)
	}
	return &digest, nil
}

func sanitizeBucket(bucket []domain.CategorizedEmail, limit int, byID map[string]domain.Email) []domain.CategorizedEmail {
	out := make([]domain.CategorizedEmail, 0, len(bucket))
	for _, entry := range bucket {
		source, ok := byID[entry.ID]
		if !ok {
			log.Printf("[Digest] Dropping entry with unknown id %q", entry.ID)
			continue
		}
		// Sender and subject come from the record, not the model.
		entry.Sender = source.Sender
		entry.Subject = source.Subject
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out
}

func buildDigestPrompt(batch []domain.Email, prefs domain.UserSettings) string {
	urgentHint := prefs.UrgentContext
	if urgentHint == "" {
		urgentHint = "Emails that need my attention or a reply soon."
	}
	delegateHint := prefs.DelegateContext
	if delegateHint == "" {
		delegateHint = "Emails someone else on my team could handle."
	}

	return fmt.Sprintf(`You are a personal email assistant triaging an inbox. Categorize the emails below into three buckets:

- "urgent" (at most %d): %s
- "delegate" (at most %d): %s
- "waiting_on" (at most %d): emails where I am waiting on someone else to act or reply.

An email that fits no bucket is left out. Each entry needs the email's id, a short heading, and one sentence of reasoning.

Emails:
%s

Reply with a single JSON object, no other text:
{"urgent": [{"id": "...", "heading": "...", "reasoning": "..."}], "delegate": [...], "waiting_on": [...]}`,
		domain.MaxUrgent, urgentHint,
		domain.MaxDelegate, delegateHint,
		domain.MaxWaitingOn,
		FormatGrounding(batch),
	)
}
