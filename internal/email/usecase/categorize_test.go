package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ava-backend/internal/email/domain"
)

func digestBatch(n int) []domain.Email {
	batch := make([]domain.Email, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, domain.Email{
			ID:      fmt.Sprintf("e%d", i),
			Sender:  fmt.Sprintf("sender%d@example.com", i),
			Subject: fmt.Sprintf("Subject %d", i),
			Body:    "body",
		})
	}
	return batch
}

func TestGetDigestHappyPath(t *testing.T) {
	store := newFakeStore()
	store.batch = digestBatch(3)
	llm := &fakeLLM{responses: []string{`{
		"urgent": [{"id": "e0", "heading": "Sign-off needed", "reasoning": "deadline Friday"}],
		"delegate": [{"id": "e1", "heading": "Panel slot", "reasoning": "team can cover"}],
		"waiting_on": [{"id": "e2", "heading": "Legal review", "reasoning": "blocked on legal"}]
	}`}}
	svc := newTestService(store, &fakeEmbedder{}, llm, &fakePrefs{})

	digest, err := svc.GetDigest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(digest.Urgent) != 1 || digest.Urgent[0].ID != "e0" {
		t.Fatalf("unexpected urgent bucket: %v", digest.Urgent)
	}
	// Sender and subject are filled from the record, not trusted from the model.
	if digest.Urgent[0].Sender != "sender0@example.com" || digest.Urgent[0].Subject != "Subject 0" {
		t.Fatalf("entry not backfilled from record: %+v", digest.Urgent[0])
	}
	if len(digest.Delegate) != 1 || len(digest.WaitingOn) != 1 {
		t.Fatalf("unexpected buckets: %+v", digest)
	}
}

func TestGetDigestUsesPreferenceHints(t *testing.T) {
	store := newFakeStore()
	store.batch = digestBatch(1)
	llm := &fakeLLM{responses: []string{`{"urgent": [], "delegate": [], "waiting_on": []}`}}
	prefs := &fakePrefs{settings: domain.UserSettings{
		UrgentContext:   "anything from my manager Dana",
		DelegateContext: "routine vendor questions",
	}}
	svc := newTestService(store, &fakeEmbedder{}, llm, prefs)

	if _, err := svc.GetDigest(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if len(llm.prompts) != 1 {
		t.Fatalf("expected one categorizer call, got %d", llm.calls)
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "anything from my manager Dana") {
		t.Fatal("urgent hint missing from categorizer prompt")
	}
	if !strings.Contains(prompt, "routine vendor questions") {
		t.Fatal("delegate hint missing from categorizer prompt")
	}
}

func TestGetDigestEmptyStore(t *testing.T) {
	store := newFakeStore()
	llm := &fakeLLM{}
	svc := newTestService(store, &fakeEmbedder{}, llm, &fakePrefs{})

	digest, err := svc.GetDigest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(digest.Urgent) != 0 || len(digest.Delegate) != 0 || len(digest.WaitingOn) != 0 {
		t.Fatalf("expected empty digest, got %+v", digest)
	}
	if llm.calls != 0 {
		t.Fatal("categorizer should not be called for an empty store")
	}
}

func TestParseDigestTruncatesOverfullBuckets(t *testing.T) {
	batch := digestBatch(10)
	entries := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		entries = append(entries, fmt.Sprintf(`{"id": "e%d", "heading": "h", "reasoning": "r"}`, i))
	}
	raw := fmt.Sprintf(`{"urgent": [%s], "delegate": [], "waiting_on": []}`, strings.Join(entries, ","))

	digest, err := parseDigest(raw, batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(digest.Urgent) != domain.MaxUrgent {
		t.Fatalf("urgent bucket has %d entries, want cap %d", len(digest.Urgent), domain.MaxUrgent)
	}
	// Truncation keeps the model's ordering.
	if digest.Urgent[0].ID != "e0" || digest.Urgent[domain.MaxUrgent-1].ID != fmt.Sprintf("e%d", domain.MaxUrgent-1) {
		t.Fatalf("truncation reordered entries: %v", digest.Urgent)
	}
}

func TestParseDigestDropsUnknownIDs(t *testing.T) {
	batch := digestBatch(2)
	raw := `{"urgent": [{"id": "made-up", "heading": "h", "reasoning": "r"}, {"id": "e1", "heading": "h", "reasoning": "r"}], "delegate": [], "waiting_on": []}`

	digest, err := parseDigest(raw, batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(digest.Urgent) != 1 || digest.Urgent[0].ID != "e1" {
		t.Fatalf("unknown id not dropped: %v", digest.Urgent)
	}
}

func TestParseDigestToleratesCodeFences(t *testing.T) {
	batch := digestBatch(1)
	raw := "```json\n{\"urgent\": [{\"id\": \"e0\", \"heading\": \"h\", \"reasoning\": \"r\"}], \"delegate\": [], \"waiting_on\": []}\n```"

	digest, err := parseDigest(raw, batch)
	if err != nil {
		t.Fatal(err)
	}
	if len(digest.Urgent) != 1 {
		t.Fatalf("fenced response not parsed: %+v", digest)
	}
}

func TestParseDigestToleratesDuplicateAcrossBuckets(t *testing.T) {
	batch := digestBatch(1)
	raw := `{"urgent": [{"id": "e0", "heading": "h", "reasoning": "r"}], "delegate": [{"id": "e0", "heading": "h", "reasoning": "r"}], "waiting_on": []}`

	digest, err := parseDigest(raw, batch)
	if err != nil {
		t.Fatalf("same id in two buckets should be tolerated, got %v", err)
	}
	if len(digest.Urgent) != 1 || len(digest.Delegate) != 1 {
		t.Fatalf("unexpected buckets: %+v", digest)
	}
}

func TestParseDigestSchemaFailure(t *testing.T) {
	batch := digestBatch(1)

	for _, raw := range []string{
		"I'm sorry, I can't categorize these emails.",
		`{"urgent": "not an array"}`,
	} {
		_, err := parseDigest(raw, batch)
		if !errors.Is(err, ErrDigestSchema) {
			t.Fatalf("raw %q: got %v, want ErrDigestSchema", raw, err)
		}
	}
}

func TestGetDigestSchemaErrorSurfaced(t *testing.T) {
	store := newFakeStore()
	store.batch = digestBatch(1)
	llm := &fakeLLM{responses: []string{"no json here"}}
	svc := newTestService(store, &fakeEmbedder{}, llm, &fakePrefs{})

	_, err := svc.GetDigest(context.Background(), false)
	if !errors.Is(err, ErrDigestSchema) {
		t.Fatalf("got %v, want ErrDigestSchema", err)
	}
}

func TestGetDigestStoreDownIsUnavailable(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = fmt.Errorf("chroma down")
	svc := newTestService(store, &fakeEmbedder{}, &fakeLLM{}, &fakePrefs{})

	_, err := svc.GetDigest(context.Background(), false)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}
