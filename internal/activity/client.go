package activity

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/drpaneas/redpersona/internal/config"
	"github.com/vartanbeno/go-reddit/v2/reddit"
)

const (
	// minRemaining is the request budget below which the transport pauses
	// until Reddit's rate-limit window resets.
	minRemaining = 2
	maxPause     = 10 * time.Minute
)

func newRedditClient(creds config.RedditCredentials, extra ...reddit.Opt) (*reddit.Client, error) {
	httpClient := &http.Client{
		Transport: &rateLimitTransport{base: http.DefaultTransport},
		Timeout:   30 * time.Second,
	}
	opts := []reddit.Opt{reddit.WithHTTPClient(httpClient)}
	if creds.UserAgent != "" {
		opts = append(opts, reddit.WithUserAgent(creds.UserAgent))
	}
	opts = append(opts, extra...)
	return reddit.NewClient(reddit.Credentials{
		ID:       creds.ClientID,
		Secret:   creds.ClientSecret,
		Username: creds.Username,
		Password: creds.Password,
	}, opts...)
}

// rateLimitTransport wraps an http.RoundTripper and pauses when Reddit
// reports the rate-limit budget is nearly spent. It never retries.
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if wait := pauseFor(resp.Header); wait > 0 {
		slog.Warn("approaching reddit rate limit, pausing",
			"remaining", resp.Header.Get("X-Ratelimit-Remaining"), "wait", wait.Round(time.Second))
		if err := sleepContext(req.Context(), wait); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}

// pauseFor returns how long to wait before the next request, or zero.
// Reddit sends X-Ratelimit-Remaining as a float and X-Ratelimit-Reset as
// seconds until the window resets.
func pauseFor(h http.Header) time.Duration {
	remaining, err := strconv.ParseFloat(h.Get("X-Ratelimit-Remaining"), 64)
	if err != nil || remaining > minRemaining {
		return 0
	}
	resetSecs, err := strconv.Atoi(h.Get("X-Ratelimit-Reset"))
	if err != nil || resetSecs <= 0 {
		return 0
	}
	wait := time.Duration(resetSecs)*time.Second + time.Second
	if wait > maxPause {
		return 0
	}
	return wait
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
