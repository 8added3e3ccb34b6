package apiclient

import (
	"net/url"
	"strings"
)

// LocalAPIBaseURL is where the API listens during local development.
const LocalAPIBaseURL = "http://localhost:5000/api"

// ResolveBaseURL picks the API base URL. An explicit override wins; a
// localhost origin uses the fixed development port; any other origin is
// assumed to serve the API under /api.
func ResolveBaseURL(override, origin string) string {
	if override != "" {
		return strings.TrimSuffix(override, "/")
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return LocalAPIBaseURL
	}

	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return LocalAPIBaseURL
	}

	return u.Scheme + "://" + u.Host + "/api"
}
