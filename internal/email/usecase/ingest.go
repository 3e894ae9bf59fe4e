package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/emersion/go-message/mail"
	"golang.org/x/sync/errgroup"

	"ava-backend/internal/email/domain"
)

// ingestConcurrency bounds parallel embedding calls per batch.
const ingestConcurrency = 4

// canonicalText is the text that gets embedded for a record. Subject and
// sender are folded in so retrieval can match on them, not just the body.
func canonicalText(e domain.IncomingEmail) string {
	return fmt.Sprintf("Subject: %s\nSender: %s\n\n%s", e.Subject, e.Sender, e.Body)
}

// Ingest embeds and stores each email in the batch. Records fail
// independently: an embedding or storage error drops that record and the
// rest proceed. A record is never stored without its vector.
func (s *assistantService) Ingest(ctx context.Context, emails []domain.IncomingEmail, source string) (int, int, error) {
	if len(emails) == 0 {
		return 0, 0, nil
	}

	startedAt := time.Now()

	var mu sync.Mutex
	succeeded, failed := 0, 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)

	for _, email := range emails {
		email := email
		g.Go(func() error {
			vector, err := s.embedder.Embed(gctx, canonicalText(email))
			if err == nil && len(vector) == 0 {
				err = fmt.Errorf("embedder returned empty vector")
			}
			if err != nil {
				log.Printf("[Ingest] Embedding failed for %q: %v", email.Subject, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			record := domain.Email{
				Sender:       email.Sender,
				Subject:      email.Subject,
				Body:         email.Body,
				ReceivedDate: email.ReceivedDate,
			}
			if record.ReceivedDate == "" {
				record.ReceivedDate = time.Now().Format(time.RFC3339)
			}

			if _, err := s.store.Insert(gctx, record, vector); err != nil {
				log.Printf("[Ingest] Store insert failed for %q: %v", email.Subject, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			succeeded++
			mu.Unlock()
			return nil
		})
	}

	// Workers report failures through the counters, never through errors.
	_ = g.Wait()

	s.recordRun(source, succeeded, failed, startedAt)

	if succeeded == 0 {
		return succeeded, failed, fmt.Errorf("%w: all %d records in the batch failed", ErrUnavailable, failed)
	}
	return succeeded, failed, nil
}

// IngestRaw parses raw RFC 822 messages and ingests the results. A message
// that cannot be parsed counts as one failed record.
func (s *assistantService) IngestRaw(ctx context.Context, messages [][]byte) (int, int, error) {
	parsed := make([]domain.IncomingEmail, 0, len(messages))
	unparseable := 0

	for i, raw := range messages {
		email, err := parseRawMessage(raw)
		if err != nil {
			log.Printf("[Ingest] Message %d failed to parse: %v", i, err)
			unparseable++
			continue
		}
		parsed = append(parsed, email)
	}

	succeeded, failed, err := s.Ingest(ctx, parsed, "raw")
	failed += unparseable

	if err == nil && succeeded == 0 && failed > 0 {
		err = fmt.Errorf("%w: all %d messages in the batch failed", ErrUnavailable, failed)
	}
	return succeeded, failed, err
}

func parseRawMessage(raw []byte) (domain.IncomingEmail, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return domain.IncomingEmail{}, fmt.Errorf("failed to read message: %w", err)
	}

	var email domain.IncomingEmail

	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		email.Sender = addrs[0].Address
		if addrs[0].Name != "" {
			email.Sender = fmt.Sprintf("%s <%s>", addrs[0].Name, addrs[0].Address)
		}
	} else {
		email.Sender = mr.Header.Get("From")
	}

	email.Subject, _ = mr.Header.Subject()

	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		email.ReceivedDate = date.Format(time.RFC3339)
	} else {
		email.ReceivedDate = time.Now().Format(time.RFC3339)
	}

	// First inline text part wins as the body.
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.IncomingEmail{}, fmt.Errorf("failed to read message part: %w", err)
		}
		if _, ok := part.Header.(*mail.InlineHeader); ok {
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return domain.IncomingEmail{}, fmt.Errorf("failed to read message body: %w", err)
			}
			email.Body = string(body)
			break
		}
	}

	if email.Sender == "" && email.Subject == "" && email.Body == "" {
		return domain.IncomingEmail{}, fmt.Errorf("message has no usable content")
	}
	return email, nil
}

func (s *assistantService) recordRun(source string, succeeded, failed int, startedAt time.Time) {
	if s.history == nil {
		return
	}
	run := &domain.IngestRun{
		Source:     source,
		Succeeded:  succeeded,
		Failed:     failed,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if err := s.history.Record(run); err != nil {
		log.Printf("[Ingest] Failed to record ingest run: %v", err)
	}
	log.Printf("[Ingest] Batch from %q done: %d succeeded, %d failed", source, succeeded, failed)
}
