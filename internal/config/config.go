package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/drpaneas/redpersona/internal/llm"
	"github.com/joho/godotenv"
)

// DefaultLimit is how many posts and how many comments are fetched.
const DefaultLimit = 100

// RedditCredentials are passed through to the Reddit client untouched.
// Missing values are not rejected; Reddit reports them as auth failures.
type RedditCredentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// Config holds all runtime configuration for redpersona.
type Config struct {
	Reddit     RedditCredentials
	Provider   llm.ProviderName
	Model      string
	APIKey     string
	OllamaHost string
	OutputDir  string
	EnvFile    string
	Limit      int
	Strict     bool
	Verbose    bool
}

// Validate checks the fields that have no sensible fallback. Credentials
// are deliberately left to the external services.
func (c *Config) Validate() error {
	switch c.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini, llm.ProviderOllama:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be openai, anthropic, gemini, or ollama", c.Provider)
	}
	if c.Limit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--output must not be empty")
	}
	return nil
}

// LoadEnvFile loads variables from path into the process environment.
// Variables already set take precedence. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no env file", "path", path)
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}

// LoadFromEnv populates environment-dependent fields (credentials, keys, hosts).
func (c *Config) LoadFromEnv() {
	c.Reddit = RedditCredentials{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		Username:     os.Getenv("REDDIT_USERNAME"),
		Password:     os.Getenv("REDDIT_PASSWORD"),
		UserAgent:    os.Getenv("USER_AGENT"),
	}
	c.OllamaHost = os.Getenv("OLLAMA_HOST")
	if c.OllamaHost == "" {
		c.OllamaHost = "http://localhost:11434"
	}
	if key := envKeyForProvider(c.Provider); key != "" {
		c.APIKey = os.Getenv(key)
	}
}

// MissingEnv lists the credential variables that are unset. It is only
// used for diagnostics; nothing is rejected on its account.
func (c *Config) MissingEnv() []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("REDDIT_CLIENT_ID", c.Reddit.ClientID)
	check("REDDIT_CLIENT_SECRET", c.Reddit.ClientSecret)
	check("REDDIT_USERNAME", c.Reddit.Username)
	check("REDDIT_PASSWORD", c.Reddit.Password)
	check("USER_AGENT", c.Reddit.UserAgent)
	if key := envKeyForProvider(c.Provider); key != "" {
		check(key, c.APIKey)
	}
	return missing
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenAI:
		return "gpt-4"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	case llm.ProviderGemini:
		return "gemini-2.5-flash"
	case llm.ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}
