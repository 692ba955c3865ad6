package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/drpaneas/redpersona/internal/activity"
	"github.com/drpaneas/redpersona/internal/analyzer"
	"github.com/drpaneas/redpersona/internal/config"
	"github.com/drpaneas/redpersona/internal/llm"
	"github.com/drpaneas/redpersona/internal/persona"
	"github.com/drpaneas/redpersona/internal/pipeline"
)

const profilePrompt = "Enter Reddit profile URL (e.g. https://www.reddit.com/user/kojied): "

func main() {
	var cfg config.Config
	var provider string
	flag.StringVar(&provider, "provider", "openai", "LLM provider: openai, anthropic, gemini, ollama")
	flag.StringVar(&cfg.Model, "model", "", "LLM model (default: per-provider)")
	flag.StringVar(&cfg.OutputDir, "output", ".", "Directory to write persona_<username>.txt into")
	flag.StringVar(&cfg.EnvFile, "env", ".env", "Env file with credentials (skipped if missing)")
	flag.IntVar(&cfg.Limit, "limit", config.DefaultLimit, "Maximum posts and maximum comments to fetch")
	flag.BoolVar(&cfg.Strict, "strict", false, "Fail on fetch or generation errors instead of continuing")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: redpersona [flags] [profile-url]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Provider = llm.ProviderName(provider)

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	setupLogging(cfg.Verbose)

	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		log.Fatal(err)
	}
	cfg.LoadFromEnv()
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	profileURL := flag.Arg(0)
	if profileURL == "" {
		var err error
		profileURL, err = promptProfileURL(os.Stdin, os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, &cfg, profileURL); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// promptProfileURL reads one line from in after printing the prompt to out.
func promptProfileURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, profilePrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading profile URL: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func run(ctx context.Context, cfg *config.Config, profileURL string) error {
	slog.Info("starting redpersona", "provider", cfg.Provider, "model", cfg.Model, "limit", cfg.Limit)
	if missing := cfg.MissingEnv(); len(missing) > 0 {
		slog.Debug("credentials not set", "vars", strings.Join(missing, ","))
	}

	fetcher, err := activity.NewFetcher(cfg, os.Stderr)
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Name:       cfg.Provider,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		OllamaHost: cfg.OllamaHost,
	})
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	runner := pipeline.New(fetcher, analyzer.New(provider), persona.NewWriter(cfg.OutputDir),
		pipeline.WithStrict(cfg.Strict),
		pipeline.WithOutput(os.Stdout),
	)
	res, err := runner.Run(ctx, profileURL)
	if err != nil {
		return err
	}
	slog.Info("done", "user", res.Username, "posts", res.Posts, "comments", res.Comments, "path", res.Path)
	return nil
}
