package llm

import (
	"context"
	"log/slog"

	"github.com/nnamdiokafor/foliobot/internal/core"
	"github.com/nnamdiokafor/foliobot/internal/models"
)

// DefaultCandidates is the fallback order: most capable/cheapest first,
// successively older variants after.
var DefaultCandidates = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
	"gemini-1.5-pro",
}

// maxHistoryTurns bounds how much replayed conversation reaches the model.
const maxHistoryTurns = 10

// Orchestrator tries candidate models strictly in order and returns the
// first non-empty answer.
type Orchestrator struct {
	invoker    core.ModelInvoker
	candidates []string
}

func NewOrchestrator(invoker core.ModelInvoker, candidates []string) *Orchestrator {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	return &Orchestrator{invoker: invoker, candidates: candidates}
}

// Candidates returns the configured fallback order.
func (o *Orchestrator) Candidates() []string {
	out := make([]string, len(o.candidates))
	copy(out, o.candidates)
	return out
}

// Respond walks the candidate list. Credential failures abort immediately;
// any other failure is logged and the next candidate is tried. When every
// candidate fails, the last classified error is returned.
func (o *Orchestrator) Respond(ctx context.Context, systemPrompt string, history []models.ChatTurn, message string) (string, error) {
	trimmed := TrimHistory(history, maxHistoryTurns)

	var lastErr *ClassifiedError
	for _, model := range o.candidates {
		text, err := o.invoker.Invoke(ctx, model, systemPrompt, trimmed, message)
		if err == nil && text != "" {
			return text, nil
		}
		if err == nil {
			err = ErrEmptyResponse
		}
		kind := Classify(err)
		lastErr = &ClassifiedError{Kind: kind, Model: model, Err: err}
		if kind == KindCredential {
			return "", lastErr
		}
		slog.Debug("model candidate failed, falling back", "model", model, "kind", kind.String(), "error", err)
	}
	return "", lastErr
}

// TrimHistory keeps the last max turns and drops leading assistant turns so
// the sequence the model sees always starts with a user message.
func TrimHistory(history []models.ChatTurn, max int) []models.ChatTurn {
	if len(history) > max {
		history = history[len(history)-max:]
	}
	start := 0
	for start < len(history) && history[start].Role != "user" {
		start++
	}
	return history[start:]
}
