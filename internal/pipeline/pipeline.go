// Package pipeline runs one persona build: normalize the profile URL, fetch
// activity, generate the persona, write it to disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/drpaneas/redpersona/internal/activity"
	"github.com/drpaneas/redpersona/internal/apierr"
)

// ErrorPersonaPrefix starts the text written in place of a persona when
// generation fails and the run is not strict.
const ErrorPersonaPrefix = "Error generating persona: "

// ErrNoActivity is reported in Result when a user has no posts or comments.
var ErrNoActivity = errors.New("no data found for this user")

// Fetcher collects a user's activity. It may return a partial Set together
// with an error.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (*activity.Set, error)
}

// Generator produces persona text from activity.
type Generator interface {
	Generate(ctx context.Context, set *activity.Set) (string, error)
}

// Writer persists persona text for a user and returns where it went.
type Writer interface {
	Write(username, text string) (string, error)
}

// Runner wires the pipeline stages together.
type Runner struct {
	fetcher   Fetcher
	generator Generator
	writer    Writer
	strict    bool
	out       io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithStrict makes fetch and generation failures end the run with an error
// instead of degrading to partial activity or an error persona.
func WithStrict(strict bool) Option {
	return func(r *Runner) { r.strict = strict }
}

// WithOutput sets where operator messages are printed. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// New returns a Runner.
func New(f Fetcher, g Generator, w Writer, opts ...Option) *Runner {
	r := &Runner{fetcher: f, generator: g, writer: w, out: io.Discard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result summarizes a run.
type Result struct {
	Username    string
	Posts       int
	Comments    int
	Path        string
	FetchErr    error
	GenerateErr error
	Skipped     error
}

// Run builds and saves the persona for the profile at profileURL.
//
// Unless the Runner is strict, a fetch failure keeps whatever was collected
// and a generation failure is written as the persona text. If no activity
// was collected the run stops before generation and nothing is written.
// Write failures are always returned. Cancellation ends the run with an
// error before anything is written, so an existing persona file is kept.
func (r *Runner) Run(ctx context.Context, profileURL string) (*Result, error) {
	username := activity.ExtractUsername(strings.TrimSpace(profileURL))
	res := &Result{Username: username}
	if username == "" {
		slog.Warn("could not extract a username", "input", profileURL)
	}

	fmt.Fprintf(r.out, "Fetching data for u/%s...\n", username)
	set, err := r.fetcher.Fetch(ctx, username)
	if set == nil {
		set = &activity.Set{Username: username}
	}
	res.Posts, res.Comments = len(set.Posts), len(set.Comments)
	if canceled(ctx, err) {
		return res, fmt.Errorf("fetching activity for u/%s: %w", username, cancelCause(ctx, err))
	}
	if err != nil {
		res.FetchErr = err
		slog.Error("error fetching data", "kind", apierr.KindOf(err), "posts", res.Posts, "comments", res.Comments, "error", err)
		if r.strict {
			return res, fmt.Errorf("fetching activity for u/%s: %w", username, err)
		}
	}
	slog.Info("fetch complete", "posts", res.Posts, "comments", res.Comments)

	if set.Empty() {
		fmt.Fprintln(r.out, "No data found for this user.")
		res.Skipped = ErrNoActivity
		return res, nil
	}

	text, err := r.generator.Generate(ctx, set)
	if canceled(ctx, err) {
		return res, fmt.Errorf("generating persona for u/%s: %w", username, cancelCause(ctx, err))
	}
	if err != nil {
		res.GenerateErr = err
		slog.Error("error generating persona", "kind", apierr.KindOf(err), "error", err)
		if r.strict {
			return res, fmt.Errorf("generating persona for u/%s: %w", username, err)
		}
		text = ErrorPersonaPrefix + err.Error()
	}

	path, err := r.writer.Write(username, text)
	if err != nil {
		return res, fmt.Errorf("saving persona: %w", err)
	}
	res.Path = path
	fmt.Fprintf(r.out, "Persona saved to %s\n", path)
	return res, nil
}

func canceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || apierr.Is(err, apierr.KindCanceled)
}

func cancelCause(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	return apierr.New("run", apierr.KindCanceled, ctx.Err())
}
