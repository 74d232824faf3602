package answer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"docqa/internal/domain"
)

// OpenAI generates answers with a chat completion model, specializing the
// system prompt by the detected document type.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// OpenAIConfig configures the chat answer generator.
type OpenAIConfig struct {
	Model       string
	APIKeyEnv   string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// NewOpenAI creates the generator. A missing API key is a setup error;
// the host then runs with the extractive generator instead.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the identifier of this generator.
func (g *OpenAI) Name() string { return "openai" }

// Generate answers the query from the retrieved passages.
func (g *OpenAI) Generate(ctx context.Context, query, filename string, result domain.RetrievalResult) (string, error) {
	contextBlock := BuildContext(filename, result)
	if contextBlock == "" {
		return "", errors.New("no context to answer from")
	}
	system := systemPrompt(result.DocumentType) + "\n\nDocument context:\n" + contextBlock

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(query),
		},
		MaxTokens:   openai.Int(int64(g.maxTokens)),
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}
	return resp.Choices[0].Message.Content, nil
}

const baseInstructions = `You are an expert document analyst. Answer based only on the provided document context. Be accurate and specific, quote relevant sections when helpful, and state clearly when the document does not contain the requested information.`

// systemPrompt specializes the instructions per detected document type.
func systemPrompt(docType domain.DocumentType) string {
	switch docType {
	case domain.TypeResearch:
		return baseInstructions + `

Document type: academic research paper. Pay attention to methodology, findings, and limitations; distinguish the authors' claims from cited work.`
	case domain.TypeBusiness:
		return baseInstructions + `

Document type: business or financial report. Highlight concrete figures, trends, and stated strategy; keep fiscal periods straight.`
	case domain.TypeLegal:
		return baseInstructions + `

Document type: legal document. Preserve defined terms exactly as written and flag obligations, liabilities, and conditions precisely. This is not legal advice.`
	case domain.TypeTechnical:
		return baseInstructions + `

Document type: technical manual. Present procedures as ordered steps and keep exact identifiers, commands, and parameter names.`
	default:
		return baseInstructions
	}
}
