package ai

import (
	"context"
	"fmt"
	"testing"
)

type scriptedProvider struct {
	reply string
	err   error
	calls int
}

func (s *scriptedProvider) Complete(context.Context, string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestFallbackUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &scriptedProvider{reply: "from primary"}
	secondary := &scriptedProvider{reply: "from secondary"}
	chain := NewFallbackService(primary, secondary, nil)

	got, err := chain.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from primary" {
		t.Fatalf("got %q, want primary's reply", got)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary called while primary was healthy")
	}
}

func TestFallbackAdvancesOnQuotaError(t *testing.T) {
	primary := &scriptedProvider{err: fmt.Errorf("API error 429: rate limit exceeded")}
	secondary := &scriptedProvider{reply: "from secondary"}
	chain := NewFallbackService(primary, secondary, nil)

	got, err := chain.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from secondary" {
		t.Fatalf("got %q, want secondary's reply", got)
	}
}

func TestFallbackAdvancesToLocal(t *testing.T) {
	primary := &scriptedProvider{err: fmt.Errorf("dial tcp 1.2.3.4:443: connection refused")}
	secondary := &scriptedProvider{err: fmt.Errorf("quota exceeded for project")}
	local := &scriptedProvider{reply: "from local"}
	chain := NewFallbackService(primary, secondary, local)

	got, err := chain.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from local" {
		t.Fatalf("got %q, want local's reply", got)
	}
}

func TestFallbackAllProvidersDown(t *testing.T) {
	primary := &scriptedProvider{err: fmt.Errorf("connection refused")}
	local := &scriptedProvider{err: fmt.Errorf("connection refused")}
	chain := NewFallbackService(primary, nil, local)

	if _, err := chain.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		err        error
		connection bool
		quota      bool
	}{
		{fmt.Errorf("dial tcp: connection refused"), true, false},
		{fmt.Errorf("lookup api.example: no such host"), true, false},
		{fmt.Errorf("API error (429): too many requests"), false, true},
		{fmt.Errorf("resource exhausted"), false, true},
		{fmt.Errorf("invalid request body"), false, false},
		{nil, false, false},
	}

	for _, tc := range cases {
		if got := isConnectionError(tc.err); got != tc.connection {
			t.Errorf("isConnectionError(%v) = %v, want %v", tc.err, got, tc.connection)
		}
		if got := isQuotaError(tc.err); got != tc.quota {
			t.Errorf("isQuotaError(%v) = %v, want %v", tc.err, got, tc.quota)
		}
	}
}
