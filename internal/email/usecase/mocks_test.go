package usecase

import (
	"context"
	"fmt"
	"sync"

	"ava-backend/internal/email/domain"
)

type fakeStore struct {
	mu         sync.Mutex
	records    map[string]domain.Email
	nextID     int
	searchHits []domain.RetrievedEmail
	batch      []domain.Email

	insertErr error
	searchErr error
	fetchErr  error
	deleteErr error

	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]domain.Email{}}
}

func (f *fakeStore) Insert(_ context.Context, email domain.Email, vector []float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	id := fmt.Sprintf("rec-%d", f.nextID)
	email.ID = id
	f.records[id] = email
	return id, nil
}

func (f *fakeStore) FetchByID(_ context.Context, id string) (*domain.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeStore) FetchBatch(_ context.Context, limit int) ([]domain.Email, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.batch) > limit {
		return f.batch[:limit], nil
	}
	return f.batch, nil
}

func (f *fakeStore) SearchByVector(_ context.Context, _ []float32, k int) ([]domain.RetrievedEmail, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.searchHits) > k {
		return f.searchHits[:k], nil
	}
	return f.searchHits, nil
}

func (f *fakeStore) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.records, id)
	return nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	// failFor marks texts whose embedding should fail
	failFor map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failFor[text] {
		return nil, fmt.Errorf("embedding failed")
	}
	if f.vector == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return f.vector, nil
}

type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	err       error
	calls     int
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

type fakePrefs struct {
	settings domain.UserSettings
}

func (f *fakePrefs) Current() domain.UserSettings { return f.settings }

type fakeHistory struct {
	mu   sync.Mutex
	runs []domain.IngestRun
}

func (f *fakeHistory) Record(run *domain.IngestRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeHistory) Recent(limit int) ([]domain.IngestRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.runs) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func newTestService(store *fakeStore, embedder *fakeEmbedder, llm *fakeLLM, prefs *fakePrefs) *assistantService {
	svc := NewAssistantUsecase(store, embedder, llm, prefs, nil, 5, 20, 0)
	return svc.(*assistantService)
}
