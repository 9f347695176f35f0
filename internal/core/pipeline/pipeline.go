package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nnamdiokafor/foliobot/internal/core"
	"github.com/nnamdiokafor/foliobot/internal/core/llm"
	"github.com/nnamdiokafor/foliobot/internal/models"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

// User-facing texts. Deliberately generic: no internal detail, no stack
// traces, no credential hints. Full detail stays in the server log.
const (
	MsgInvalidInput  = "Please send a message between 1 and 1000 characters."
	MsgNotConfigured = "I'm not fully set up yet — my owner still needs to connect me to a language model. Check back soon!"
	MsgBadCredential = "Something's wrong with my configuration. My owner should check the API key settings."
	MsgTemporary     = "I'm having a temporary issue thinking right now. Give me a moment and try again!"
	MsgThrottled     = "Whoa, slow down a little! Try again in a minute."
	MsgDailyLimit    = "You've reached today's chat limit. Come back tomorrow!"
)

// DiagCommand short-circuits the pipeline into a health report. Operator
// backdoor; not referenced by any UI.
const DiagCommand = "__diag__"

// KeyResolver supplies the currently resolved API key ("" when unset).
type KeyResolver interface {
	APIKey(ctx context.Context) string
}

// ModelResponder is the model-fallback orchestrator's surface.
type ModelResponder interface {
	Respond(ctx context.Context, systemPrompt string, history []models.ChatTurn, message string) (string, error)
	Candidates() []string
}

// Pipeline is the full chat request path: local-rules attempt, prompt
// assembly, model fallback, error-to-text mapping. Admission control is
// exposed separately so the HTTP layer can signal 429.
type Pipeline struct {
	limiter      *RateLimiter
	snapshots    *services.SnapshotCache
	integrations *Integrations
	keys         KeyResolver
	model        ModelResponder
	store        core.DbClient
}

func New(limiter *RateLimiter, snapshots *services.SnapshotCache, integrations *Integrations, keys KeyResolver, model ModelResponder, store core.DbClient) *Pipeline {
	return &Pipeline{
		limiter:      limiter,
		snapshots:    snapshots,
		integrations: integrations,
		keys:         keys,
		model:        model,
		store:        store,
	}
}

// Admit runs admission control for a client id.
func (p *Pipeline) Admit(clientID string) Decision {
	return p.limiter.Admit(clientID)
}

// Answer processes an admitted chat message. It always returns response
// text; every failure mode maps to a fixed user-facing string.
func (p *Pipeline) Answer(ctx context.Context, message string, history []models.ChatTurn) string {
	if message == DiagCommand {
		return p.diagReport(ctx)
	}

	snap, err := p.snapshots.Get(ctx)
	if err != nil {
		slog.Error("pipeline: loading profile/config failed", "error", err)
		return MsgTemporary
	}

	if local := TryLocal(message, snap.Profile); local != nil {
		return *local
	}

	if p.keys.APIKey(ctx) == "" {
		slog.Info("pipeline: no api key configured, returning setup notice")
		return MsgNotConfigured
	}

	integrationsText := p.integrations.BuildContext(ctx, snap.Config)
	systemPrompt := BuildPrompt(snap.Profile, snap.Config, integrationsText)

	text, err := p.model.Respond(ctx, systemPrompt, history, message)
	if err != nil {
		var classified *llm.ClassifiedError
		if errors.As(err, &classified) && classified.Kind == llm.KindCredential {
			slog.Error("pipeline: credential rejected by model service", "model", classified.Model, "error", err)
			return MsgBadCredential
		}
		slog.Error("pipeline: all model candidates failed", "error", err)
		return MsgTemporary
	}
	return text
}

// diagReport summarizes connectivity without leaking secrets.
func (p *Pipeline) diagReport(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("diagnostics:\n")

	if p.keys.APIKey(ctx) != "" {
		b.WriteString("- api key: resolved\n")
	} else {
		b.WriteString("- api key: missing\n")
	}

	if err := p.store.Ping(ctx); err != nil {
		fmt.Fprintf(&b, "- store: unreachable (%v)\n", err)
	} else {
		b.WriteString("- store: ok\n")
	}

	fmt.Fprintf(&b, "- model candidates: %s\n", strings.Join(p.model.Candidates(), ", "))
	return b.String()
}
