package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/drpaneas/redpersona/internal/apierr"
	"google.golang.org/genai"
)

// geminiProvider creates its client on first use, so a missing key is
// reported by Complete like any other auth failure.
type geminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *genai.Client
}

func newGemini(apiKey, model string) *geminiProvider {
	return &geminiProvider{apiKey: apiKey, model: model}
}

func (p *geminiProvider) clientFor(ctx context.Context) (*genai.Client, error) {
	if p.client != nil {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      p.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: p.baseURL},
	})
	if err != nil {
		return nil, apierr.New(opGemini, apierr.KindAuth, fmt.Errorf("creating gemini client: %w", err))
	}
	p.client = client
	return client, nil
}

func (p *geminiProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	client, err := p.clientFor(ctx)
	if err != nil {
		return "", err
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if opts != nil {
		if opts.Temperature != nil {
			cfg.Temperature = genai.Ptr(float32(*opts.Temperature))
		}
		if opts.MaxTokens > 0 {
			cfg.MaxOutputTokens = int32(opts.MaxTokens)
		}
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classifyGemini(err)
	}
	text := resp.Text()
	if text == "" {
		return "", apierr.New(opGemini, apierr.KindMalformedResponse, errors.New("gemini returned no text content"))
	}
	return text, nil
}

const opGemini = "gemini completion"

func classifyGemini(err error) error {
	// genai surfaces APIError both by value and by pointer.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apierr.New(opGemini, kindFromStatus(apiErr.Code, apiErr.Status == "RESOURCE_EXHAUSTED"), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apierr.New(opGemini, kindFromStatus(apiErrPtr.Code, apiErrPtr.Status == "RESOURCE_EXHAUSTED"), err)
	}
	return classifyTransport(opGemini, err)
}
