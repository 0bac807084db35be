package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Parser deserializes a report file back into a Document.
type Parser interface {
	Parse(data []byte) (*Document, error)
}

// JSONParser parses a JSON-encoded Document.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON report: %w", err)
	}
	return &doc, nil
}

// MarkdownParser parses a Markdown-rendered Document by extracting the
// embedded base64 JSON payload from the sentinel comments.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*Document, error) {
	content := string(data)

	if !strings.Contains(content, "<!-- intervu-report-version: 1 -->") {
		return nil, fmt.Errorf("not a valid intervu report: missing version sentinel")
	}

	const prefix = "<!-- intervu-data: "
	const suffix = " -->"
	start := strings.Index(content, prefix)
	if start == -1 {
		return nil, fmt.Errorf("not a valid intervu report: missing data payload")
	}
	start += len(prefix)
	end := strings.Index(content[start:], suffix)
	if end == -1 {
		return nil, fmt.Errorf("not a valid intervu report: malformed data payload")
	}
	encoded := content[start : start+end]

	jsonBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("not a valid intervu report: corrupted base64 payload: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("not a valid intervu report: failed to parse embedded JSON: %w", err)
	}

	return &doc, nil
}
