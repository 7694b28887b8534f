// Package naming holds the policy that names the client span created around
// an outbound HTTP call.
package naming

import (
	"net/http"
	"net/url"
)

// DefaultSpanNamePrefix is the prefix used by the default naming policy.
const DefaultSpanNamePrefix = "httpclient_downstream_call"

// SpanNamer produces a span name for an outbound request. It must be a pure
// function of the request: deterministic and free of I/O.
type SpanNamer func(req *http.Request) string

// SpanName is the default naming policy. It returns
// "<prefix>-<METHOD>_<uri>" with the query string and fragment stripped,
// e.g. a GET to https://foo.bar/baz?stuff=things is named
// "httpclient_downstream_call-GET_https://foo.bar/baz".
func SpanName(req *http.Request) string {
	return DefaultSpanNamePrefix + "-" + req.Method + "_" + stripQueryAndFragment(req.URL)
}

func stripQueryAndFragment(u *url.URL) string {
	if u == nil {
		return ""
	}
	stripped := *u
	stripped.RawQuery = ""
	stripped.ForceQuery = false
	stripped.Fragment = ""
	stripped.RawFragment = ""
	return stripped.String()
}
