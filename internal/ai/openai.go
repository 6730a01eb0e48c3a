package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/parley-chat/parley/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

var errEmptyCompletion = errors.New("completion returned no choices")

// OpenAICompleter implements Completer against an OpenAI-compatible chat
// completion endpoint.
type OpenAICompleter struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAICompleter builds a completer for the given credentials. baseURL
// is optional and allows pointing at any OpenAI-compatible server.
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAICompleter{
		client: openai.NewClient(opts...),
		model:  openai.ChatModel(model),
	}
}

// Complete maps the stored turns to the chat completion message format and
// requests a reply.
func (c *OpenAICompleter) Complete(ctx context.Context, history []domain.AITurn, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case domain.RoleModel:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.ExternalServiceError{Service: "completion", Err: errEmptyCompletion}
	}
	return resp.Choices[0].Message.Content, nil
}
