package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nnamdiokafor/foliobot/internal/core"
	"github.com/nnamdiokafor/foliobot/internal/models"
)

// KeyFunc returns the currently resolved API key, or "" when none is set.
type KeyFunc func(ctx context.Context) string

// GeminiClient invokes one Gemini model per call. The underlying genai
// client is cached and only rebuilt when the resolved key changes, so the
// owner can rotate the key from the dashboard without a restart.
type GeminiClient struct {
	keyFunc KeyFunc

	mu        sync.Mutex
	client    *genai.Client
	clientKey string
}

func NewGeminiClient(keyFunc KeyFunc) *GeminiClient {
	return &GeminiClient{keyFunc: keyFunc}
}

var _ core.ModelInvoker = (*GeminiClient)(nil)

func (g *GeminiClient) handle(ctx context.Context) (*genai.Client, error) {
	key := g.keyFunc(ctx)
	if key == "" {
		return nil, fmt.Errorf("no api key resolved")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil && g.clientKey == key {
		return g.client, nil
	}
	if g.client != nil {
		_ = g.client.Close()
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	g.client = cl
	g.clientKey = key
	return cl, nil
}

func (g *GeminiClient) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		err := g.client.Close()
		g.client = nil
		g.clientKey = ""
		return err
	}
	return nil
}

// permissiveSafety blocks only high-confidence violations. A résumé bot is
// low-risk and over-filtering produces empty candidates.
func permissiveSafety() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	out := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		out = append(out, &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockOnlyHigh})
	}
	return out
}

func (g *GeminiClient) Invoke(ctx context.Context, model, systemPrompt string, history []models.ChatTurn, message string) (string, error) {
	cl, err := g.handle(ctx)
	if err != nil {
		return "", err
	}

	m := cl.GenerativeModel(model)
	m.SafetySettings = permissiveSafety()
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	cs := m.StartChat()
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
