package generator

import (
	"context"

	"testcase-generator/config"
)

// IGenerator は要件テキストから検証済みのテストケースを作る
type IGenerator interface {
	Generate(ctx context.Context, requirementText string) ([]TestCase, error)
}

type Generator struct {
	client      IClient
	temperature float32
	maxTokens   int
}

func New(client IClient, cfg config.Generation) IGenerator {
	return &Generator{
		client:      client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (g *Generator) Generate(ctx context.Context, requirementText string) ([]TestCase, error) {
	content, err := g.client.Complete(ctx, CompletionRequest{
		System:      systemInstruction,
		User:        userPrompt(requirementText),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, newError(KindRequest, "generation request failed", err)
	}
	return ParseTestCases(content)
}
