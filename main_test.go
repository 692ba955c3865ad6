package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPromptProfileURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with newline", "https://www.reddit.com/user/kojied/\n", "https://www.reddit.com/user/kojied/"},
		{"padded", "   kojied  \r\n", "kojied"},
		{"no newline", "kojied", "kojied"},
		{"empty", "", ""},
		{"only first line", "first\nsecond\n", "first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptProfileURL(strings.NewReader(tt.input), &out)
			if err != nil {
				t.Fatalf("promptProfileURL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("promptProfileURL() = %q, want %q", got, tt.want)
			}
			if out.String() != profilePrompt {
				t.Errorf("prompt = %q, want %q", out.String(), profilePrompt)
			}
		})
	}
}
