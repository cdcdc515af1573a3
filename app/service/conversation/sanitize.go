package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	jsonFenceOpen = "```json"
	fence         = "```"
)

// Sanitizer post-processes a raw assistant turn before it reaches the caller.
// The set of variants is closed: Dialogue and ConceptRecord.
type Sanitizer interface {
	Sanitize(raw string) (Reply, error)
}

// Dialogue passes replies through untouched.
type Dialogue struct{}

func (Dialogue) Sanitize(raw string) (Reply, error) {
	return Reply{Text: raw}, nil
}

// ConceptRecord expects a JSON object, preferably inside a ```json fence.
type ConceptRecord struct{}

func (ConceptRecord) Sanitize(raw string) (Reply, error) {
	payload := ExtractJSONBlock(raw)

	var record map[string]any
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return Reply{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return Reply{Text: payload, Record: record}, nil
}

// ExtractJSONBlock returns the content of the first ```json fence, or the
// trimmed input when there is none. An unterminated fence runs to the end.
func ExtractJSONBlock(raw string) string {
	start := strings.Index(raw, jsonFenceOpen)
	if start < 0 {
		return strings.TrimSpace(raw)
	}

	body := raw[start+len(jsonFenceOpen):]
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}

	return strings.TrimSpace(body)
}
