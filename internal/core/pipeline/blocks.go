package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

// The response contract: a reply may embed one fenced block whose payload is
// JSON shaped like {type, items[]}. The producer is usually a language
// model, so the decoder repairs the most common damage before giving up.

// BlockFence labels the fenced block so the UI can route it to the card
// renderer instead of the code highlighter.
const BlockFence = "contentblock"

// EncodeBlock renders a block as the fenced form the UI parses.
func EncodeBlock(block models.ContentBlock) string {
	payload, err := json.Marshal(block)
	if err != nil {
		// Marshal of these plain structs cannot realistically fail.
		return ""
	}
	return fmt.Sprintf("```%s\n%s\n```", BlockFence, payload)
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	controlCharRe   = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")
)

// DecodeBlock parses a fenced payload tolerantly: strip control characters,
// then drop trailing commas, then parse. Both repair passes run before the
// parse attempt, in that order. On failure the caller renders the raw text;
// decoding never panics.
func DecodeBlock(payload string) (models.ContentBlock, error) {
	var block models.ContentBlock

	cleaned := controlCharRe.ReplaceAllString(payload, "")
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")

	if err := json.Unmarshal([]byte(cleaned), &block); err != nil {
		// Last chance: the original text may have been valid all along
		// (a control char inside a string literal is legal JSON after
		// escaping, but we stripped it).
		if err2 := json.Unmarshal([]byte(payload), &block); err2 != nil {
			return models.ContentBlock{}, fmt.Errorf("content block unparseable: %w", err)
		}
	}
	if !models.ValidBlockType(block.Type) {
		return models.ContentBlock{}, fmt.Errorf("unknown block type %q", block.Type)
	}
	return block, nil
}

// ExtractBlocks scans a full response for fenced content blocks and returns
// the decoded blocks alongside the response text. Undecodable fences are
// left in place for raw rendering.
func ExtractBlocks(response string) []models.ContentBlock {
	var out []models.ContentBlock
	marker := "```" + BlockFence
	rest := response
	for {
		start := strings.Index(rest, marker)
		if start < 0 {
			return out
		}
		rest = rest[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			return out
		}
		if block, err := DecodeBlock(strings.TrimSpace(rest[:end])); err == nil {
			out = append(out, block)
		}
		rest = rest[end+3:]
	}
}
