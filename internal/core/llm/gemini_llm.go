package llm

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"

	"github.com/markdave123-py/askdoc/internal/core"
	"github.com/markdave123-py/askdoc/internal/models"
)

const qaSystemPrompt = `You are an extractive question answering model.
Given a question and a context, copy the shortest span of the context that answers the question, character for character.
Reply with JSON only: {"answer": "<span copied from the context>", "score": <probability between 0 and 1 that the span answers the question>}.
If the context does not answer the question, reply {"answer": "", "score": 0}.`

// GeminiQA uses a Gemini model prompted to behave like an extractive QA pipeline.
type GeminiQA struct {
	client    *genai.Client
	modelName string
}

func NewGeminiQA(ctx context.Context, apiKey, modelName string) (*GeminiQA, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: new client")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiQA{client: cl, modelName: modelName}, nil
}

func (g *GeminiQA) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Answer implements core.QAModel.
func (g *GeminiQA) Answer(ctx context.Context, question, passage string) (models.QAResult, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(qaSystemPrompt)},
	}
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)

	resp, err := m.GenerateContent(ctx, genai.Text(qaUserPrompt(question, passage)))
	if err != nil {
		return models.QAResult{}, eris.Wrap(err, "gemini: generate")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.QAResult{Start: -1, End: -1}, nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return parseGeminiAnswer(b.String(), passage)
}

func qaUserPrompt(question, passage string) string {
	return "Context:\n" + passage + "\n\nQuestion: " + question
}

type geminiAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// parseGeminiAnswer decodes the JSON reply and locates the span in the passage.
// Offsets are only reported when the span occurs exactly once.
func parseGeminiAnswer(raw, passage string) (models.QAResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var ans geminiAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &ans); err != nil {
		return models.QAResult{}, eris.Wrap(err, "gemini: decode answer")
	}

	score := ans.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	res := models.QAResult{Answer: ans.Answer, Score: score, Start: -1, End: -1}
	if ans.Answer != "" && strings.Count(passage, ans.Answer) == 1 {
		res.Start = strings.Index(passage, ans.Answer)
		res.End = res.Start + len(ans.Answer)
	}
	return res, nil
}

var _ core.QAModel = (*GeminiQA)(nil)
