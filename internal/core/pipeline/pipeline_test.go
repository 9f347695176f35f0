package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nnamdiokafor/foliobot/internal/core"
	db "github.com/nnamdiokafor/foliobot/internal/core/database"
	"github.com/nnamdiokafor/foliobot/internal/core/llm"
	"github.com/nnamdiokafor/foliobot/internal/models"
	"github.com/nnamdiokafor/foliobot/internal/services"
)

type fakeKeys struct {
	key string
}

func (f fakeKeys) APIKey(ctx context.Context) string { return f.key }

type fakeModel struct {
	text  string
	err   error
	calls int
}

func (f *fakeModel) Respond(ctx context.Context, systemPrompt string, history []models.ChatTurn, message string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeModel) Candidates() []string { return []string{"model-a", "model-b"} }

func newTestPipeline(t *testing.T, key string, model *fakeModel) (*Pipeline, core.DbClient) {
	t.Helper()
	store := db.NewMemoryClient()
	settings := services.NewSettingsService(store)

	raw, err := json.Marshal(testProfile())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.PutDocument(context.Background(), core.DocProfile, string(raw)); err != nil {
		t.Fatal(err)
	}

	snapshots := services.NewSnapshotCache(settings, time.Minute)
	limiter := NewRateLimiter(10, 100)
	integrations := NewIntegrations(time.Second)
	return New(limiter, snapshots, integrations, fakeKeys{key: key}, model, store), store
}

func TestAnswer_NoKeyConfigured(t *testing.T) {
	model := &fakeModel{text: "should not be used"}
	p, _ := newTestPipeline(t, "", model)

	got := p.Answer(context.Background(), "what's the meaning of life?", nil)
	if got != MsgNotConfigured {
		t.Errorf("got %q, want the setup notice", got)
	}
	if model.calls != 0 {
		t.Errorf("model invoked %d times, want 0", model.calls)
	}
}

func TestAnswer_LocalMatchSkipsModel(t *testing.T) {
	model := &fakeModel{text: "model answer"}
	p, _ := newTestPipeline(t, "key-123", model)

	got := p.Answer(context.Background(), "hello", nil)
	if !strings.Contains(got, "Ada Obi") {
		t.Errorf("expected the canned greeting, got %q", got)
	}
	if model.calls != 0 {
		t.Errorf("greeting must not invoke the model, calls=%d", model.calls)
	}
}

func TestAnswer_ModelSuccess(t *testing.T) {
	model := &fakeModel{text: "Ada loves Go.\n\nYou could also ask:\n- ..."}
	p, _ := newTestPipeline(t, "key-123", model)

	got := p.Answer(context.Background(), "does ada prefer cats or dogs?", nil)
	if got != model.text {
		t.Errorf("got %q, want the model text", got)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestAnswer_CredentialErrorMessage(t *testing.T) {
	model := &fakeModel{err: &llm.ClassifiedError{Kind: llm.KindCredential, Model: "model-a", Err: llm.ErrEmptyResponse}}
	p, _ := newTestPipeline(t, "bad-key", model)

	got := p.Answer(context.Background(), "does ada prefer cats or dogs?", nil)
	if got != MsgBadCredential {
		t.Errorf("got %q, want the credential message", got)
	}
}

func TestAnswer_ExhaustedCandidatesMessage(t *testing.T) {
	model := &fakeModel{err: &llm.ClassifiedError{Kind: llm.KindTransient, Model: "model-b", Err: llm.ErrEmptyResponse}}
	p, _ := newTestPipeline(t, "key-123", model)

	got := p.Answer(context.Background(), "does ada prefer cats or dogs?", nil)
	if got != MsgTemporary {
		t.Errorf("got %q, want the temporary-issue message", got)
	}
}

func TestAnswer_DiagCommand(t *testing.T) {
	model := &fakeModel{text: "unused"}
	p, _ := newTestPipeline(t, "", model)

	got := p.Answer(context.Background(), DiagCommand, nil)
	if !strings.Contains(got, "api key: missing") {
		t.Errorf("diag should report missing key, got %q", got)
	}
	if !strings.Contains(got, "store: ok") {
		t.Errorf("diag should report store health, got %q", got)
	}
	if !strings.Contains(got, "model-a") {
		t.Errorf("diag should list candidates, got %q", got)
	}
	if model.calls != 0 {
		t.Error("diag must not invoke the model")
	}
}

func TestAdmit_PassesThroughToLimiter(t *testing.T) {
	p, _ := newTestPipeline(t, "key", &fakeModel{})
	for i := 0; i < 10; i++ {
		if d := p.Admit("9.9.9.9"); !d.Allowed {
			t.Fatalf("request %d denied", i+1)
		}
	}
	if d := p.Admit("9.9.9.9"); d.Allowed {
		t.Fatal("11th request should be denied")
	}
}
