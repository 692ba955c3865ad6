package activity

import (
	"errors"
	"strings"

	"github.com/drpaneas/redpersona/internal/apierr"
	"github.com/vartanbeno/go-reddit/v2/reddit"
	"golang.org/x/oauth2"
)

// classify tags an error returned by the Reddit client.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return apierr.New(op, apierr.KindAuth, err)
	}
	var rateErr *reddit.RateLimitError
	if errors.As(err, &rateErr) {
		return apierr.New(op, apierr.KindRateLimited, err)
	}
	var respErr *reddit.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return apierr.New(op, apierr.FromStatus(respErr.Response.StatusCode), err)
	}
	if kind, ok := apierr.Transport(err); ok {
		// The token endpoint answers bad credentials with a 200 and no
		// access_token, which oauth2 reports as a plain error.
		if kind == apierr.KindNetwork && isOAuthFailure(err) {
			kind = apierr.KindAuth
		}
		return apierr.New(op, kind, err)
	}
	if isOAuthFailure(err) {
		return apierr.New(op, apierr.KindAuth, err)
	}
	return apierr.New(op, apierr.KindUnknown, err)
}

// missingTokenMsg is the untyped error golang.org/x/oauth2 returns when the
// token endpoint answers 200 without an access_token. Other token failures
// are typed (*oauth2.RetrieveError) or are transport errors.
const missingTokenMsg = "oauth2: server response missing access_token"

func isOAuthFailure(err error) bool {
	return strings.Contains(err.Error(), missingTokenMsg)
}
