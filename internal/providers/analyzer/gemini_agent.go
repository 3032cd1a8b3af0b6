package analyzer

import (
	"context"
	"encoding/json"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

const agentPrompt = `You are a legal intake assistant helping a citizen draft a complaint, notice or petition.
Given the conversation so far, reply with a single JSON object:
{"content": "<next question for the user, or the drafted document body>",
 "intent": "<issue type such as theft, consumer, rent, divorce, rti>",
 "entities": {"name": "...", "date": "...", "location": "...", "accused": "..."},
 "readiness_score": <0-100>,
 "is_document": <true when content is a finished document>,
 "is_confirmation": <true when only confirmation remains>}
Only include entity keys actually present in the conversation. Output JSON only.

Conversation:
`

// GeminiAgent is the conversational-mode analyzer. The model speaks the
// opaque agent shape, which Normalize maps onto the structured Result.
type GeminiAgent struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
	log    *logrus.Logger
}

func NewGeminiAgent(ctx context.Context, projectID, location, modelName string, log *logrus.Logger) (*GeminiAgent, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &GeminiAgent{client: c, model: c.GenerativeModel(modelName), log: log}, nil
}

func (g *GeminiAgent) Close() error { return g.client.Close() }

func (g *GeminiAgent) Analyze(ctx context.Context, text string) Result {
	it := g.model.GenerateContentStream(ctx, vertexgenai.Text(agentPrompt+text))

	var sb strings.Builder
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return g.degraded("generate", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					sb.WriteString(string(t))
				}
			}
		}
	}

	raw := map[string]any{}
	if err := json.Unmarshal([]byte(stripFences(sb.String())), &raw); err != nil {
		return g.degraded("decode model output", err)
	}
	return Normalize(raw)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func (g *GeminiAgent) degraded(msg string, err error) Result {
	if g.log != nil {
		g.log.WithError(err).Warn("agent analyzer degraded: " + msg)
	}
	return DegradedResult()
}
