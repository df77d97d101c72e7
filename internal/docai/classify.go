package docai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/filing-intake/internal/model"
	"github.com/sells-group/filing-intake/pkg/anthropic"
)

// Classifier assigns a document type to a converted filing. The docPath
// argument is a file holding the document's markdown text.
type Classifier interface {
	Classify(ctx context.Context, rules RuleSet, docPath string) (model.Classification, error)
}

const classifySystemPrompt = `You classify documents into exactly one of the given categories. Each category has a type label and a description of what belongs in it. Pick the single best-matching type. Respond with a valid JSON object: {"type": "<type label>", "confidence": <0.0-1.0>}`

// maxClassifyChars caps how much document text is sent to the model.
const maxClassifyChars = 8000

// AnthropicClassifier implements Classifier on top of the Anthropic API.
type AnthropicClassifier struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClassifier creates a classifier using the given model.
func NewAnthropicClassifier(client anthropic.Client, modelID string) *AnthropicClassifier {
	return &AnthropicClassifier{client: client, model: modelID}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, rules RuleSet, docPath string) (model.Classification, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return model.Classification{}, eris.Wrapf(err, "docai: read document %s", docPath)
	}

	content := string(data)
	if len(content) > maxClassifyChars {
		content = content[:maxClassifyChars]
	}

	var sb strings.Builder
	sb.WriteString("Categories:\n")
	for _, r := range rules.Rules {
		fmt.Fprintf(&sb, "- %s: %s\n", r.Type, r.Description)
	}
	sb.WriteString("\nDocument:\n")
	sb.WriteString(content)

	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: 128,
		System:    []anthropic.SystemBlock{{Text: classifySystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: sb.String()},
		},
	})
	if err != nil {
		return model.Classification{}, eris.Wrap(err, "docai: classify request")
	}
	resp.Usage.LogUsage(c.model, "classify")

	var parsed struct {
		Type       model.DocumentType `json:"type"`
		Confidence *float64           `json:"confidence"`
	}
	raw := stripCodeFence(resp.Text())
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return model.Classification{}, eris.Wrapf(err, "docai: parse classification %q", raw)
	}

	confidence := 0.0
	if parsed.Confidence != nil {
		confidence = *parsed.Confidence
	}

	zap.L().Debug("docai: classified document",
		zap.String("path", docPath),
		zap.String("type", string(parsed.Type)),
		zap.Float64("confidence", confidence),
	)

	return model.Classification{Type: parsed.Type, Confidence: confidence}, nil
}

// stripCodeFence removes a surrounding markdown code fence, if present, so
// fenced JSON responses still parse.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
