package llm

import (
	"context"
	"errors"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Options controls sampling for a single generation request.
type Options struct {
	MaxTokens   int
	Temperature float32
	// JSONMode asks the model for a JSON object response. The returned
	// string may still be malformed; callers must parse defensively.
	JSONMode bool
}

// Client is the generation capability used by the question planner and the
// triage engine. Implementations should return an error (or an empty
// string) on any failure; callers always recover with deterministic
// fallbacks and never surface the failure to the patient.
type Client interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// callTimeout bounds a single completion request. External generation is
// blocking network I/O; a slow call delays the turn but never fails the
// conversation.
const callTimeout = 45 * time.Second

// OpenAIClient calls the OpenAI chat completion API. API credentials and
// the model name are loaded from environment variables.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed generation client. It reads
// the API key and model name from the environment and falls back to a
// sensible default model.
func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	c := openai.NewClient(apiKey)

	model := os.Getenv("OPENAI_MODEL_CHAT")
	if model == "" {
		// default to a modern small model; can be overridden via env
		model = "gpt-4o-mini"
	}

	return &OpenAIClient{client: c, model: model}
}

// Generate sends a single-prompt completion request and returns the model
// text. The assistant persona lives in the prompt itself; no multi-turn
// history is kept here.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
