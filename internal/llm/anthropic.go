package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/drpaneas/redpersona/internal/apierr"
)

type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropic(apiKey, model string) *anthropicProvider {
	return &anthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *anthropicProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	maxTokens := int64(4096)
	if opts != nil && opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts != nil && opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	}
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyAnthropic(err)
	}
	// Return the first text block only; multi-block responses are not expected
	// from single-turn completions.
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", apierr.New(opAnthropic, apierr.KindMalformedResponse, errors.New("anthropic returned no text content"))
}

const opAnthropic = "anthropic completion"

func classifyAnthropic(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apierr.New(opAnthropic, kindFromStatus(apiErr.StatusCode, false), err)
	}
	return classifyTransport(opAnthropic, err)
}
