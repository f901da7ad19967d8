// Package ai talks to the OpenRouter-hosted model that synthesizes
// meta-archetype titles and report strategies.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/finalize"
)

const synthesisSystemPrompt = "You are a poetic archetype synthesizer. " +
	"Given a set of dominant Jungian archetypes, produce a short composite " +
	"Meta-Archetype title and a one-paragraph description. Answer in Ukrainian."

const strategySystemPrompt = "Ви — провідний експерт з брендингу та архетипів. " +
	"Ваше завдання — створити глибоку та практичну стратегію на основі результатів тесту. Мова: Українська."

type synthesisResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var synthesisSchema = generateSchema[synthesisResponse]()

// Client calls the chat model through the OpenAI-compatible OpenRouter API.
type Client struct {
	api    openai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a synthesis client for the given OpenRouter credentials.
func NewClient(apiKey, baseURL, model string, logger *zap.Logger) *Client {
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model:  model,
		logger: logger,
	}
}

// Synthesize generates a composite title for the primary cluster. The caller
// bounds the call through ctx; errors and hangs are the caller's to absorb.
func (c *Client) Synthesize(ctx context.Context, primary []string) (finalize.Synthesis, error) {
	if len(primary) == 0 {
		return finalize.Synthesis{}, errors.New("empty primary cluster")
	}

	input := fmt.Sprintf(
		"Dominant Archetypes: %s. Synthesize a Meta-Archetype title and description.",
		strings.Join(primary, ", "),
	)

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(600),
		Instructions:    openai.String(synthesisSystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "MetaArchetype",
					Schema:      synthesisSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Meta-archetype title and description"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return finalize.Synthesis{}, fmt.Errorf("synthesis call: %w", err)
	}

	var out synthesisResponse
	if err := decodeModelJSON(resp.OutputText(), &out); err != nil {
		return finalize.Synthesis{}, fmt.Errorf("unmarshal synthesis: %w", err)
	}

	return finalize.Synthesis{
		Title:       strings.TrimSpace(out.Title),
		Description: strings.TrimSpace(out.Description),
	}, nil
}

// GenerateStrategy produces the free-form markdown strategy section of the
// report from the full scoreboard.
func (c *Client) GenerateStrategy(ctx context.Context, board entities.ScoreBoard) (string, error) {
	var scores strings.Builder
	for _, a := range entities.AllArchetypes() {
		fmt.Fprintf(&scores, "%s: %d\n", a.String(), board.Get(a))
	}

	input := fmt.Sprintf(
		"Archetype Scores:\n%s\n"+
			"Generate a comprehensive marketing and branding strategy in Ukrainian based on these scores. "+
			"The report should include:\n"+
			"1. **Сильні сторони** вашого профілю.\n"+
			"2. **Комунікаційна стратегія**: як вам спілкуватися з аудиторією.\n"+
			"3. **Візуальні коди**: які кольори та образи використовувати.\n"+
			"4. **Маркетингові поради**: конкретні кроки для росту.\n"+
			"Use clear Markdown headers (##) and bullet points.",
		scores.String(),
	)

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(3500),
		Instructions:    openai.String(strategySystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("strategy call: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", errors.New("empty strategy output")
	}
	return text, nil
}

// decodeModelJSON unmarshals model output, tolerating prose around the first
// top-level JSON object.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return errors.New("empty model output")
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return errors.New("no JSON object found in model output")
	}
	return json.Unmarshal([]byte(s[start:end+1]), v)
}
