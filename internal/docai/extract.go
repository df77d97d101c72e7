package docai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/filing-intake/internal/model"
	"github.com/sells-group/filing-intake/pkg/anthropic"
)

// SourceText is the converted document text handed to extraction.
type SourceText struct {
	Text     string
	Filename string
}

// AgentConfig describes one extraction agent: what to tell the model and the
// JSON shape it must produce.
type AgentConfig struct {
	Name         string
	SystemPrompt string
	Schema       string
}

// Extractor pulls structured data out of a filing's text according to an
// agent config. The returned payload is the raw JSON object the model
// produced; callers unmarshal it into the form-specific type.
type Extractor interface {
	Extract(ctx context.Context, agent AgentConfig, src SourceText) (json.RawMessage, error)
}

// AgentFor returns the extraction agent config for a document type.
func AgentFor(dt model.DocumentType) (AgentConfig, error) {
	switch dt {
	case model.Form10K:
		return agent10K, nil
	case model.Form10Q:
		return agent10Q, nil
	case model.Form8K:
		return agent8K, nil
	default:
		return AgentConfig{}, eris.Errorf("docai: no extraction agent for type %q", dt)
	}
}

var agent10K = AgentConfig{
	Name:         "form-10k",
	SystemPrompt: "Extract financial data from this 10-K annual report.",
	Schema:       `{"total_revenue": "<string|null>", "net_income": "<string|null>", "total_assets": "<string|null>", "total_liabilities": "<string|null>"}`,
}

var agent10Q = AgentConfig{
	Name:         "form-10q",
	SystemPrompt: "Extract quarterly financial data from this 10-Q quarterly report.",
	Schema:       `{"quarterly_revenue": "<string|null>", "quarterly_net_income": "<string|null>", "total_assets": "<string|null>", "total_liabilities": "<string|null>"}`,
}

var agent8K = AgentConfig{
	Name:         "form-8k",
	SystemPrompt: "Extract all events from this 8-K current report, including the event category (Item number) and description.",
	Schema:       `{"events": [{"category": "<string>", "description": "<string>"}]}`,
}

// AnthropicExtractor implements Extractor on top of the Anthropic API.
type AnthropicExtractor struct {
	client anthropic.Client
	model  string
}

// NewAnthropicExtractor creates an extractor using the given model.
func NewAnthropicExtractor(client anthropic.Client, modelID string) *AnthropicExtractor {
	return &AnthropicExtractor{client: client, model: modelID}
}

func (e *AnthropicExtractor) Extract(ctx context.Context, agent AgentConfig, src SourceText) (json.RawMessage, error) {
	system := fmt.Sprintf("%s Respond with a single valid JSON object matching this shape, no other text: %s", agent.SystemPrompt, agent.Schema)
	prompt := fmt.Sprintf("Filename: %s\n\nDocument:\n%s", src.Filename, src.Text)

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 4096,
		System:    []anthropic.SystemBlock{{Text: system}},
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(err, "docai: extract %s", agent.Name)
	}
	resp.Usage.LogUsage(e.model, "extract")

	raw := stripCodeFence(resp.Text())
	if !json.Valid([]byte(raw)) {
		return nil, eris.Errorf("docai: %s returned invalid JSON: %q", agent.Name, raw)
	}

	return json.RawMessage(raw), nil
}
