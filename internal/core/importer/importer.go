// Package importer extracts plain text from an uploaded résumé document so
// the owner can edit it into the profile instead of retyping everything.
package importer

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// maxDraftRunes keeps a pathological upload from ballooning the stored
// profile document.
const maxDraftRunes = 20000

// ExtractDraft converts the uploaded file to trimmed plain text. The result
// is a draft for the owner to review, never applied to the profile
// automatically.
func ExtractDraft(data []byte, contentType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), contentType, false)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", contentType, err)
	}

	var b strings.Builder
	for _, line := range strings.Split(res.Body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	draft := b.String()
	if draft == "" {
		return "", fmt.Errorf("no text found in %s document", contentType)
	}

	runes := []rune(draft)
	if len(runes) > maxDraftRunes {
		draft = string(runes[:maxDraftRunes])
	}
	return draft, nil
}
