package llm

import (
	"errors"

	"github.com/drpaneas/redpersona/internal/apierr"
)

// errEmptyResponse is returned when a provider answers 200 with nothing usable.
var errEmptyResponse = errors.New("empty response")

// kindFromStatus maps a provider's HTTP status to a Kind. quota marks
// provider-specific "out of credit" errors, reported as rate_limited.
func kindFromStatus(code int, quota bool) apierr.Kind {
	if quota {
		return apierr.KindRateLimited
	}
	return apierr.FromStatus(code)
}

func classifyTransport(op string, err error) error {
	if kind, ok := apierr.Transport(err); ok {
		return apierr.New(op, kind, err)
	}
	return apierr.New(op, apierr.KindUnknown, err)
}
