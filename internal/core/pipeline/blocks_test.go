package pipeline

import (
	"strings"
	"testing"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

func TestBlockRoundTrip(t *testing.T) {
	block := models.ContentBlock{
		Type: models.BlockProjects,
		Items: []models.BlockItem{
			{Title: "X", Description: "a thing", Link: "https://x", Tags: []string{"go"}},
		},
	}

	encoded := EncodeBlock(block)
	if !strings.HasPrefix(encoded, "```"+BlockFence) {
		t.Fatalf("encoded block missing fence: %q", encoded)
	}

	payload := strings.TrimSuffix(strings.TrimPrefix(encoded, "```"+BlockFence+"\n"), "\n```")
	decoded, err := DecodeBlock(payload)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if len(decoded.Items) != 1 {
		t.Fatalf("items length = %d, want 1", len(decoded.Items))
	}
	if decoded.Items[0].Title != "X" {
		t.Errorf("title = %q, want X", decoded.Items[0].Title)
	}
}

func TestDecodeBlock_TrailingComma(t *testing.T) {
	payload := `{"type":"projects","items":[{"title":"X"},]}`
	decoded, err := DecodeBlock(payload)
	if err != nil {
		t.Fatalf("trailing comma should be repaired: %v", err)
	}
	if len(decoded.Items) != 1 || decoded.Items[0].Title != "X" {
		t.Errorf("unexpected decode result: %+v", decoded)
	}
}

func TestDecodeBlock_ControlCharacters(t *testing.T) {
	payload := "{\"type\":\"projects\",\x01\x02\"items\":[{\"title\":\"X\"}]}"
	decoded, err := DecodeBlock(payload)
	if err != nil {
		t.Fatalf("control characters should be stripped: %v", err)
	}
	if len(decoded.Items) != 1 {
		t.Errorf("items length = %d, want 1", len(decoded.Items))
	}
}

func TestDecodeBlock_UnbalancedBracesFails(t *testing.T) {
	_, err := DecodeBlock(`{"type":"projects","items":[{"title":"X"}`)
	if err == nil {
		t.Fatal("unbalanced braces must fail, caller falls back to raw text")
	}
}

func TestDecodeBlock_UnknownTypeRejected(t *testing.T) {
	_, err := DecodeBlock(`{"type":"recipes","items":[]}`)
	if err == nil {
		t.Fatal("unknown block type should be rejected")
	}
}

func TestExtractBlocks(t *testing.T) {
	response := "Here you go:\n\n```" + BlockFence + "\n{\"type\":\"education\",\"items\":[{\"title\":\"BSc\"}]}\n```\n\nAnything else?"
	blocks := ExtractBlocks(response)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Type != models.BlockEducation {
		t.Errorf("type = %q, want education", blocks[0].Type)
	}

	// A broken fence contributes nothing but doesn't stop the scan.
	broken := "```" + BlockFence + "\nnot json\n```\n" + response
	blocks = ExtractBlocks(broken)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 decodable block, got %d", len(blocks))
	}
}
