package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/drpaneas/redpersona/internal/activity"
	"github.com/drpaneas/redpersona/internal/llm"
	"github.com/drpaneas/redpersona/internal/textutil"
)

const (
	// MaxCorpusChars caps the corpus embedded in the prompt. It counts
	// characters, not model tokens.
	MaxCorpusChars = 8000

	temperature = 0.7
	maxTokens   = 1000
)

// Analyzer turns a user's activity into a persona using an LLM provider.
type Analyzer struct {
	provider llm.Provider
}

// New returns an Analyzer that uses the given LLM provider.
func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Generate builds the persona prompt from set and returns the model's
// answer with surrounding whitespace trimmed. Provider failures are
// returned as-is (tagged *apierr.Error values) for the caller to handle.
func (a *Analyzer) Generate(ctx context.Context, set *activity.Set) (string, error) {
	prompt := BuildPrompt(BuildCorpus(set))
	slog.Debug("requesting persona", "prompt_chars", len(prompt))

	out, err := a.provider.Complete(ctx, systemPrompt, prompt, &llm.CompleteOptions{
		Temperature: llm.Float64(temperature),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BuildCorpus concatenates every post, then every comment, each under a
// header naming its subreddit and permalink.
func BuildCorpus(set *activity.Set) string {
	if set == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range set.Posts {
		writeHeader(&b, "Post", p.Subreddit, p.URL)
		fmt.Fprintf(&b, "%s\n%s\n\n", p.Title, p.Body)
	}
	for _, c := range set.Comments {
		writeHeader(&b, "Comment", c.Subreddit, c.URL)
		fmt.Fprintf(&b, "%s\n\n", c.Body)
	}
	return b.String()
}

func writeHeader(b *strings.Builder, kind, subreddit, url string) {
	fmt.Fprintf(b, "[%s in r/%s]", kind, subreddit)
	if url != "" {
		b.WriteString(" " + url)
	}
	b.WriteByte('\n')
}

// BuildPrompt embeds the first MaxCorpusChars characters of corpus into the
// persona prompt. Anything beyond the cap is dropped with a warning.
func BuildPrompt(corpus string) string {
	if dropped := textutil.Overflow(corpus, MaxCorpusChars); dropped > 0 {
		slog.Warn("activity exceeds prompt budget, dropping the tail of the corpus",
			"max_chars", MaxCorpusChars, "dropped_chars", dropped)
	}
	return fmt.Sprintf(personaPrompt, textutil.Truncate(corpus, MaxCorpusChars, ""))
}
