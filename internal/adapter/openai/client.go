package openai

import (
	"context"
	"errors"

	openaiapi "github.com/sashabaranov/go-openai"

	"chatgpt-slack-bot/internal/config"
	"chatgpt-slack-bot/internal/domain"
	"chatgpt-slack-bot/internal/usecase/mention"
)

type Client struct {
	api *openaiapi.Client
	cfg config.Config
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		api: openaiapi.NewClient(cfg.OpenAIKey),
		cfg: cfg,
	}
}

func (c *Client) Complete(ctx context.Context, req mention.CompletionRequest) (string, *domain.Usage, error) {
	resp, err := c.api.CreateChatCompletion(ctx, buildRequest(req, c.cfg))
	if err != nil {
		return "", nil, err
	}

	if len(resp.Choices) == 0 {
		return "", nil, errors.New("openai returned empty response")
	}

	usage := &domain.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return resp.Choices[0].Message.Content, usage, nil
}

func buildRequest(req mention.CompletionRequest, cfg config.Config) openaiapi.ChatCompletionRequest {
	messages := make([]openaiapi.ChatCompletionMessage, 0, len(req.Transcript)+2)
	messages = append(messages, openaiapi.ChatCompletionMessage{
		Role:    domain.RoleSystem,
		Content: cfg.AssistantPrompt,
	})
	for _, m := range req.Transcript {
		messages = append(messages, openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	messages = append(messages, openaiapi.ChatCompletionMessage{
		Role:    domain.RoleUser,
		Content: req.Prompt,
	})

	apiReq := openaiapi.ChatCompletionRequest{
		Model:               cfg.Model,
		MaxCompletionTokens: cfg.MaxCompletionTokens,
		Stream:              false,
		Messages:            messages,
	}
	if req.WebSearch {
		// web search is only available on the search-preview models
		apiReq.Model = cfg.SearchModel
		apiReq.WebSearchOptions = &openaiapi.WebSearchOptions{}
	}
	return apiReq
}
