package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

// scriptedInvoker returns a canned result per model name and records the
// order of invocations.
type scriptedInvoker struct {
	results map[string]struct {
		text string
		err  error
	}
	invoked []string
}

func (s *scriptedInvoker) Invoke(ctx context.Context, model, systemPrompt string, history []models.ChatTurn, message string) (string, error) {
	s.invoked = append(s.invoked, model)
	r := s.results[model]
	return r.text, r.err
}

func script(t *testing.T, pairs ...interface{}) *scriptedInvoker {
	t.Helper()
	if len(pairs)%3 != 0 {
		t.Fatal("script wants (model, text, err) triples")
	}
	inv := &scriptedInvoker{results: map[string]struct {
		text string
		err  error
	}{}}
	for i := 0; i < len(pairs); i += 3 {
		model := pairs[i].(string)
		text := pairs[i+1].(string)
		var err error
		if pairs[i+2] != nil {
			err = pairs[i+2].(error)
		}
		inv.results[model] = struct {
			text string
			err  error
		}{text, err}
	}
	return inv
}

func TestRespond_FirstSuccessWins(t *testing.T) {
	inv := script(t, "a", "answer from a", nil, "b", "answer from b", nil)
	o := NewOrchestrator(inv, []string{"a", "b"})

	got, err := o.Respond(context.Background(), "sys", nil, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "answer from a" {
		t.Errorf("got %q, want the first candidate's answer", got)
	}
	if len(inv.invoked) != 1 {
		t.Errorf("invoked %v, want only the first candidate", inv.invoked)
	}
}

func TestRespond_EmptyThenSuccess(t *testing.T) {
	inv := script(t, "a", "", nil, "b", "answer from b", nil)
	o := NewOrchestrator(inv, []string{"a", "b"})

	got, err := o.Respond(context.Background(), "sys", nil, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "answer from b" {
		t.Errorf("got %q, want the second candidate's answer", got)
	}
	if len(inv.invoked) != 2 {
		t.Errorf("invoked %v, want both candidates", inv.invoked)
	}
}

func TestRespond_CredentialAborts(t *testing.T) {
	credErr := &googleapi.Error{Code: 403, Message: "permission denied"}
	inv := script(t, "a", "", credErr, "b", "never reached", nil)
	o := NewOrchestrator(inv, []string{"a", "b"})

	_, err := o.Respond(context.Background(), "sys", nil, "hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	var classified *ClassifiedError
	if !errors.As(err, &classified) || classified.Kind != KindCredential {
		t.Fatalf("expected a credential-classified error, got %v", err)
	}
	if len(inv.invoked) != 1 {
		t.Errorf("invoked %v, credential failure must not fall back", inv.invoked)
	}
}

func TestRespond_AllFailSurfacesLastError(t *testing.T) {
	inv := script(t,
		"a", "", fmt.Errorf("a is down"),
		"b", "", fmt.Errorf("b is down"),
	)
	o := NewOrchestrator(inv, []string{"a", "b"})

	_, err := o.Respond(context.Background(), "sys", nil, "hi")
	if err == nil {
		t.Fatal("expected an error")
	}
	var classified *ClassifiedError
	if !errors.As(err, &classified) {
		t.Fatalf("expected a classified error, got %v", err)
	}
	if classified.Model != "b" {
		t.Errorf("last error should come from the last candidate, got %q", classified.Model)
	}
	if classified.Kind != KindTransient {
		t.Errorf("kind = %v, want transient", classified.Kind)
	}
}

func TestTrimHistory(t *testing.T) {
	var history []models.ChatTurn
	for i := 0; i < 15; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, models.ChatTurn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}

	trimmed := TrimHistory(history, 10)
	if len(trimmed) > 10 {
		t.Fatalf("trimmed length = %d, want <= 10", len(trimmed))
	}
	if trimmed[0].Role != "user" {
		t.Errorf("trimmed history must start with a user turn, got %q", trimmed[0].Role)
	}

	// All-assistant history collapses to nothing.
	onlyAssistant := []models.ChatTurn{{Role: "assistant", Content: "x"}}
	if got := TrimHistory(onlyAssistant, 10); len(got) != 0 {
		t.Errorf("leading assistant-only history should be dropped, got %v", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindTransient},
		{"empty response", ErrEmptyResponse, KindEmpty},
		{"wrapped empty", fmt.Errorf("call: %w", ErrEmptyResponse), KindEmpty},
		{"googleapi 401", &googleapi.Error{Code: 401}, KindCredential},
		{"googleapi 403", &googleapi.Error{Code: 403}, KindCredential},
		{"googleapi 400 bad key", &googleapi.Error{Code: 400, Message: "API key not valid"}, KindCredential},
		{"googleapi 400 other", &googleapi.Error{Code: 400, Message: "bad request"}, KindTransient},
		{"googleapi 429", &googleapi.Error{Code: 429, Message: "quota exceeded"}, KindTransient},
		{"googleapi 503", &googleapi.Error{Code: 503}, KindTransient},
		{"plain key error", errors.New("API_KEY_INVALID: the key is malformed"), KindCredential},
		{"plain transient", errors.New("connection reset"), KindTransient},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Errorf("%s: Classify() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
