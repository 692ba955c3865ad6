package llm

import (
	"context"
	"errors"

	"github.com/drpaneas/redpersona/internal/apierr"
	openai "github.com/sashabaranov/go-openai"
)

type openaiProvider struct {
	client *openai.Client
	model  string
}

func newOpenAI(apiKey, model string) *openaiProvider {
	return &openaiProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *openaiProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	}
	if opts != nil {
		if opts.Temperature != nil {
			req.Temperature = float32(*opts.Temperature)
		}
		req.MaxTokens = opts.MaxTokens
	}
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return "", apierr.New(opOpenAI, apierr.KindMalformedResponse, errors.New("openai returned no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

const opOpenAI = "openai completion"

func classifyOpenAI(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apierr.New(opOpenAI, kindFromStatus(apiErr.HTTPStatusCode, apiErr.Type == "insufficient_quota"), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apierr.New(opOpenAI, kindFromStatus(reqErr.HTTPStatusCode, false), err)
	}
	return classifyTransport(opOpenAI, err)
}
