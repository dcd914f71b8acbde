package generator

import (
	"context"
	"errors"
	"net/http"

	"testcase-generator/config"

	"github.com/sashabaranov/go-openai"
)

// CompletionRequest はシステム + ユーザーの1往復分
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	JSON        bool
}

// IClient はチャット補完を1回送り、アシスタントの本文を返す
type IClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(cfg config.Generation) IClient {
	ocfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		ocfg.BaseURL = cfg.BaseURL
	}
	// Timeout 0 は無制限（上流の応答を待ち続ける）
	ocfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(ocfg),
		model:  cfg.Model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
