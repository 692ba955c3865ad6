package activity

import "strings"

// ExtractUsername returns the last path segment of a pasted profile URL,
// e.g. "https://www.reddit.com/user/kojied/" -> "kojied". One trailing slash
// is ignored. A bare username is returned unchanged. The result is not
// validated.
func ExtractUsername(profileURL string) string {
	profileURL = strings.TrimSuffix(profileURL, "/")
	if i := strings.LastIndex(profileURL, "/"); i >= 0 {
		return profileURL[i+1:]
	}
	return profileURL
}
