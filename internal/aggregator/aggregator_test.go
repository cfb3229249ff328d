package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"llmpanel/internal/models"
	"llmpanel/internal/providers"
)

// --- minimal stubs ---

type stubProvider struct {
	name   string
	answer string
	raw    json.RawMessage
	err    error
	panics bool
	block  bool // wait for ctx cancellation instead of answering
	calls  atomic.Int64
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Complete(ctx context.Context, prompt string, _ models.ProviderOverrides) (string, json.RawMessage, error) {
	p.calls.Add(1)
	if p.panics {
		panic("stub exploded")
	}
	if p.block {
		<-ctx.Done()
		return "", nil, ctx.Err()
	}
	if p.err != nil {
		return "", nil, p.err
	}
	return p.answer, p.raw, nil
}

var _ providers.Provider = (*stubProvider)(nil)

func newTestAggregator(timeout time.Duration, stubs ...*stubProvider) *Aggregator {
	reg := providers.NewRegistry()
	for _, s := range stubs {
		reg.Register(s)
	}
	return New(reg, timeout)
}

// --- tests ---

func TestAggregate_OneEntryPerRequestedProvider(t *testing.T) {
	agg := newTestAggregator(0,
		&stubProvider{name: "a", answer: "from a", raw: json.RawMessage(`{}`)},
		&stubProvider{name: "b", answer: "from b", raw: json.RawMessage(`{}`)},
	)

	results := agg.Aggregate(context.Background(), "hi", []string{"a", "b"}, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
	for _, id := range []string{"a", "b"} {
		res, ok := results[id]
		if !ok {
			t.Fatalf("missing entry for %q", id)
		}
		if res.Provider != id {
			t.Errorf("expected provider %q, got %q", id, res.Provider)
		}
		if res.Status != models.StatusSuccess {
			t.Errorf("expected success for %q, got %s", id, res.Status)
		}
	}
}

func TestAggregate_UnknownProviderIsUnsupported(t *testing.T) {
	agg := newTestAggregator(0, &stubProvider{name: "a", answer: "ok"})

	results := agg.Aggregate(context.Background(), "hi", []string{"mystery"}, nil)
	res := results["mystery"]
	if res.Status != models.StatusUnsupported {
		t.Fatalf("expected unsupported, got %s", res.Status)
	}
	if !strings.Contains(res.Message, "mystery") {
		t.Errorf("expected message to name the unknown id, got %q", res.Message)
	}
	if res.Raw != nil {
		t.Error("raw must be absent outside success")
	}
}

func TestAggregate_MissingCredentials(t *testing.T) {
	stub := &stubProvider{name: "a", err: fmt.Errorf("a: %w", providers.ErrMissingCredentials)}
	agg := newTestAggregator(0, stub)

	results := agg.Aggregate(context.Background(), "hi", []string{"a"}, nil)
	res := results["a"]
	if res.Status != models.StatusMissingCredentials {
		t.Fatalf("expected missing_credentials, got %s", res.Status)
	}
	if res.Message == "" {
		t.Error("message must be non-empty")
	}
}

func TestAggregate_FailureIsolation(t *testing.T) {
	agg := newTestAggregator(0,
		&stubProvider{name: "good", answer: "fine", raw: json.RawMessage(`{"ok":true}`)},
		&stubProvider{name: "bad", err: errors.New("vendor api error 500: boom")},
	)

	results := agg.Aggregate(context.Background(), "hi", []string{"good", "bad"}, nil)

	if got := results["good"].Status; got != models.StatusSuccess {
		t.Errorf("expected good provider to succeed, got %s", got)
	}
	bad := results["bad"]
	if bad.Status != models.StatusError {
		t.Errorf("expected bad provider to be error, got %s", bad.Status)
	}
	if !strings.Contains(bad.Message, "500") {
		t.Errorf("expected vendor status in message, got %q", bad.Message)
	}
	if bad.Raw != nil {
		t.Error("raw must be absent on error results")
	}
}

func TestAggregate_EmptyAnswerGetsPlaceholder(t *testing.T) {
	agg := newTestAggregator(0, &stubProvider{name: "a", answer: "", raw: json.RawMessage(`{"choices":[]}`)})

	res := agg.Aggregate(context.Background(), "hi", []string{"a"}, nil)["a"]
	if res.Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if res.Message != NoResponseMessage {
		t.Errorf("expected placeholder %q, got %q", NoResponseMessage, res.Message)
	}
	if res.Raw == nil {
		t.Error("expected raw to be present on success")
	}
}

func TestAggregate_PanicIsDemotedToError(t *testing.T) {
	agg := newTestAggregator(0,
		&stubProvider{name: "boom", panics: true},
		&stubProvider{name: "calm", answer: "still here"},
	)

	results := agg.Aggregate(context.Background(), "hi", []string{"boom", "calm"}, nil)
	if got := results["boom"].Status; got != models.StatusError {
		t.Errorf("expected panic to demote to error, got %s", got)
	}
	if got := results["calm"].Status; got != models.StatusSuccess {
		t.Errorf("expected calm provider unaffected, got %s", got)
	}
}

func TestAggregate_DuplicateIDsInvokeOnce(t *testing.T) {
	stub := &stubProvider{name: "a", answer: "once"}
	agg := newTestAggregator(0, stub)

	results := agg.Aggregate(context.Background(), "hi", []string{"a", "a", "a"}, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(results))
	}
	if got := stub.calls.Load(); got != 1 {
		t.Errorf("expected 1 invocation, got %d", got)
	}
}

func TestAggregate_TimeoutBoundsHungProvider(t *testing.T) {
	agg := newTestAggregator(20*time.Millisecond,
		&stubProvider{name: "hung", block: true},
		&stubProvider{name: "fast", answer: "done"},
	)

	start := time.Now()
	results := agg.Aggregate(context.Background(), "hi", []string{"hung", "fast"}, nil)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("aggregate did not respect timeout, took %v", elapsed)
	}

	if got := results["hung"].Status; got != models.StatusError {
		t.Errorf("expected hung provider to be error, got %s", got)
	}
	if got := results["fast"].Status; got != models.StatusSuccess {
		t.Errorf("expected fast provider to succeed, got %s", got)
	}
}

func TestKnown_ReflectsRegistrationOrder(t *testing.T) {
	agg := newTestAggregator(0,
		&stubProvider{name: "first"},
		&stubProvider{name: "second"},
	)
	known := agg.Known()
	if len(known) != 2 || known[0] != "first" || known[1] != "second" {
		t.Errorf("unexpected known list: %v", known)
	}
}
