package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestNew_Nil(t *testing.T) {
	if err := New("op", KindAuth, nil); err != nil {
		t.Errorf("New(nil) = %v, want nil", err)
	}
}

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("fetching: %w", New("listing posts", KindRateLimited, base))

	if got := KindOf(wrapped); got != KindRateLimited {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindRateLimited)
	}
	if !errors.Is(wrapped, base) {
		t.Error("expected wrapped error to unwrap to base")
	}
	if got := KindOf(base); got != KindUnknown {
		t.Errorf("KindOf(plain) = %q, want %q", got, KindUnknown)
	}
	if !Is(wrapped, KindRateLimited) {
		t.Error("Is(wrapped, rate_limited) = false")
	}
	if Is(nil, KindUnknown) {
		t.Error("Is(nil, unknown) = true")
	}
}

func TestError_Message(t *testing.T) {
	err := New("listing comments", KindAuth, errors.New("invalid_grant"))
	got := err.Error()
	for _, want := range []string{"listing comments", "auth", "invalid_grant"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusNotFound, KindNotFound},
		{http.StatusGone, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusBadGateway, KindNetwork},
		{http.StatusBadRequest, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			if got := FromStatus(tt.code); got != tt.want {
				t.Errorf("FromStatus(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestTransport(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{}
	tests := []struct {
		name   string
		err    error
		want   Kind
		wantOK bool
	}{
		{"canceled", fmt.Errorf("req: %w", context.Canceled), KindCanceled, true},
		{"deadline", context.DeadlineExceeded, KindCanceled, true},
		{"url error", &url.Error{Op: "Get", URL: "https://oauth.reddit.com", Err: errors.New("dial tcp: refused")}, KindNetwork, true},
		{"json syntax", fmt.Errorf("decoding: %w", syntaxErr), KindMalformedResponse, true},
		{"other", errors.New("nope"), KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Transport(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Transport() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
