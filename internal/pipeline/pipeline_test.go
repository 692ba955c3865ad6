package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drpaneas/redpersona/internal/activity"
	"github.com/drpaneas/redpersona/internal/apierr"
	"github.com/drpaneas/redpersona/internal/persona"
)

type fakeFetcher struct {
	set      *activity.Set
	err      error
	username string
}

func (f *fakeFetcher) Fetch(_ context.Context, username string) (*activity.Set, error) {
	f.username = username
	return f.set, f.err
}

type fakeGenerator struct {
	out   string
	err   error
	calls int
	got   *activity.Set
}

func (g *fakeGenerator) Generate(_ context.Context, set *activity.Set) (string, error) {
	g.calls++
	g.got = set
	return g.out, g.err
}

type failingWriter struct{}

func (failingWriter) Write(string, string) (string, error) {
	return "", errors.New("disk full")
}

func someActivity() *activity.Set {
	return &activity.Set{
		Username: "kojied",
		Posts:    []activity.Post{{Title: "t", Subreddit: "golang"}},
		Comments: []activity.Comment{{Body: "b", Subreddit: "rust"}},
	}
}

func readPersona(t *testing.T, dir, username string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, persona.FileName(username)))
	if err != nil {
		t.Fatalf("reading persona: %v", err)
	}
	return string(b)
}

func TestRun_WritesPersona(t *testing.T) {
	for _, url := range []string{
		"https://www.reddit.com/user/kojied",
		"https://www.reddit.com/user/kojied/",
		"  https://www.reddit.com/user/kojied/ \n",
	} {
		t.Run(url, func(t *testing.T) {
			dir := t.TempDir()
			f := &fakeFetcher{set: someActivity()}
			g := &fakeGenerator{out: "persona text"}
			var out bytes.Buffer
			r := New(f, g, persona.NewWriter(dir), WithOutput(&out))

			res, err := r.Run(context.Background(), url)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if f.username != "kojied" {
				t.Errorf("fetched %q, want kojied", f.username)
			}
			if want := filepath.Join(dir, "persona_kojied.txt"); res.Path != want {
				t.Errorf("Path = %q, want %q", res.Path, want)
			}
			if got := readPersona(t, dir, "kojied"); got != "persona text" {
				t.Errorf("persona = %q, want %q", got, "persona text")
			}
			if !strings.Contains(out.String(), "Persona saved to") {
				t.Errorf("output = %q, want save message", out.String())
			}
		})
	}
}

func TestRun_NoActivitySkipsGeneration(t *testing.T) {
	tests := []struct {
		name string
		set  *activity.Set
		err  error
	}{
		{"empty set", &activity.Set{}, nil},
		{"nil set", nil, nil},
		{"fetch failed before any item", &activity.Set{}, apierr.New("listing posts", apierr.KindAuth, errors.New("401"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			g := &fakeGenerator{out: "should not be used"}
			var out bytes.Buffer
			r := New(&fakeFetcher{set: tt.set, err: tt.err}, g, persona.NewWriter(dir), WithOutput(&out))

			res, err := r.Run(context.Background(), "https://www.reddit.com/user/ghost")
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if g.calls != 0 {
				t.Errorf("generator called %d times, want 0", g.calls)
			}
			if !errors.Is(res.Skipped, ErrNoActivity) {
				t.Errorf("Skipped = %v, want ErrNoActivity", res.Skipped)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Errorf("output dir has %d files, want none", len(entries))
			}
			if !strings.Contains(out.String(), "No data found for this user.") {
				t.Errorf("output = %q, want no-data message", out.String())
			}
		})
	}
}

func TestRun_PartialFetchStillGenerates(t *testing.T) {
	dir := t.TempDir()
	partial := &activity.Set{
		Username: "kojied",
		Posts:    []activity.Post{{Title: "one"}, {Title: "two"}},
	}
	fetchErr := apierr.New("listing posts", apierr.KindRateLimited, errors.New("429"))
	g := &fakeGenerator{out: "partial persona"}
	r := New(&fakeFetcher{set: partial, err: fetchErr}, g, persona.NewWriter(dir))

	res, err := r.Run(context.Background(), "kojied")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if g.calls != 1 {
		t.Fatalf("generator called %d times, want 1", g.calls)
	}
	if len(g.got.Posts) != 2 || len(g.got.Comments) != 0 {
		t.Errorf("generator got %d posts and %d comments, want 2 and 0", len(g.got.Posts), len(g.got.Comments))
	}
	if !errors.Is(res.FetchErr, fetchErr) {
		t.Errorf("FetchErr = %v, want %v", res.FetchErr, fetchErr)
	}
	if got := readPersona(t, dir, "kojied"); got != "partial persona" {
		t.Errorf("persona = %q", got)
	}
}

func TestRun_GenerationErrorBecomesPersona(t *testing.T) {
	dir := t.TempDir()
	genErr := apierr.New("openai completion", apierr.KindAuth, errors.New("invalid api key"))
	r := New(&fakeFetcher{set: someActivity()}, &fakeGenerator{err: genErr}, persona.NewWriter(dir))

	res, err := r.Run(context.Background(), "https://www.reddit.com/user/kojied/")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !apierr.Is(res.GenerateErr, apierr.KindAuth) {
		t.Errorf("GenerateErr = %v, want auth", res.GenerateErr)
	}
	got := readPersona(t, dir, "kojied")
	if !strings.HasPrefix(got, "Error generating persona:") {
		t.Errorf("persona = %q, want error prefix", got)
	}
	if !strings.Contains(got, "invalid api key") {
		t.Errorf("persona = %q, want the cause", got)
	}
}

func TestRun_Strict(t *testing.T) {
	t.Run("fetch failure", func(t *testing.T) {
		dir := t.TempDir()
		g := &fakeGenerator{out: "x"}
		fetchErr := apierr.New("listing comments", apierr.KindNetwork, errors.New("reset"))
		r := New(&fakeFetcher{set: someActivity(), err: fetchErr}, g, persona.NewWriter(dir), WithStrict(true))

		_, err := r.Run(context.Background(), "kojied")
		if !apierr.Is(err, apierr.KindNetwork) {
			t.Fatalf("Run() error = %v, want network", err)
		}
		if g.calls != 0 {
			t.Errorf("generator called %d times, want 0", g.calls)
		}
	})

	t.Run("generation failure", func(t *testing.T) {
		dir := t.TempDir()
		genErr := apierr.New("openai completion", apierr.KindRateLimited, errors.New("quota"))
		r := New(&fakeFetcher{set: someActivity()}, &fakeGenerator{err: genErr}, persona.NewWriter(dir), WithStrict(true))

		_, err := r.Run(context.Background(), "kojied")
		if !apierr.Is(err, apierr.KindRateLimited) {
			t.Fatalf("Run() error = %v, want rate_limited", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, persona.FileName("kojied"))); !os.IsNotExist(statErr) {
			t.Error("strict run wrote a persona file after generation failed")
		}
	})
}

func TestRun_WriteErrorPropagates(t *testing.T) {
	r := New(&fakeFetcher{set: someActivity()}, &fakeGenerator{out: "x"}, failingWriter{})
	if _, err := r.Run(context.Background(), "kojied"); err == nil {
		t.Fatal("expected write error")
	}
}

type cancelingGenerator struct {
	cancel context.CancelFunc
	calls  int
}

func (g *cancelingGenerator) Generate(ctx context.Context, _ *activity.Set) (string, error) {
	g.calls++
	g.cancel()
	return "", apierr.New("ollama completion", apierr.KindCanceled, ctx.Err())
}

type cancelingFetcher struct {
	cancel context.CancelFunc
	set    *activity.Set
}

func (f *cancelingFetcher) Fetch(ctx context.Context, _ string) (*activity.Set, error) {
	f.cancel()
	return f.set, apierr.New("listing comments", apierr.KindCanceled, ctx.Err())
}

func TestRun_CancellationKeepsExistingPersona(t *testing.T) {
	const prior = "GOOD PRIOR PERSONA"

	tests := []struct {
		name  string
		setup func(cancel context.CancelFunc) (Fetcher, *fakeGenerator, Generator)
	}{
		{
			name: "canceled during fetch",
			setup: func(cancel context.CancelFunc) (Fetcher, *fakeGenerator, Generator) {
				g := &fakeGenerator{out: "should not be used"}
				return &cancelingFetcher{cancel: cancel, set: someActivity()}, g, g
			},
		},
		{
			name: "canceled during generation",
			setup: func(cancel context.CancelFunc) (Fetcher, *fakeGenerator, Generator) {
				return &fakeFetcher{set: someActivity()}, nil, &cancelingGenerator{cancel: cancel}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, persona.FileName("kojied"))
			if err := os.WriteFile(path, []byte(prior), 0o644); err != nil {
				t.Fatal(err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			f, fg, g := tt.setup(cancel)
			var out bytes.Buffer
			r := New(f, g, persona.NewWriter(dir), WithOutput(&out))

			res, err := r.Run(ctx, "https://www.reddit.com/user/kojied")
			if !apierr.Is(err, apierr.KindCanceled) {
				t.Fatalf("Run() error = %v, want canceled", err)
			}
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run() error = %v, want it to wrap context.Canceled", err)
			}
			if fg != nil && fg.calls != 0 {
				t.Errorf("generator called %d times, want 0", fg.calls)
			}
			if res.Path != "" {
				t.Errorf("Path = %q, want empty", res.Path)
			}
			if got := readPersona(t, dir, "kojied"); got != prior {
				t.Errorf("persona = %q, want prior file kept", got)
			}
			if strings.Contains(out.String(), "Persona saved to") {
				t.Errorf("output = %q, want no save message", out.String())
			}
		})
	}
}

func TestRun_CanceledContextWithoutTaggedError(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &fakeGenerator{out: "x"}
	r := New(&fakeFetcher{set: someActivity()}, g, persona.NewWriter(dir))

	_, err := r.Run(ctx, "kojied")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if g.calls != 0 {
		t.Errorf("generator called %d times, want 0", g.calls)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d files, want none", len(entries))
	}
}
