package naming

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, method, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, rawURL, nil)
	require.NoError(t, err)
	return req
}

func TestSpanNameStripsQueryString(t *testing.T) {
	req := newRequest(t, http.MethodGet, "https://foo.bar/baz?stuff=things")

	assert.Equal(t, "httpclient_downstream_call-GET_https://foo.bar/baz", SpanName(req))
}

func TestSpanNameStripsFragment(t *testing.T) {
	req := newRequest(t, http.MethodGet, "https://foo.bar/baz?stuff=things#section")

	assert.Equal(t, "httpclient_downstream_call-GET_https://foo.bar/baz", SpanName(req))
}

func TestSpanNameKeepsPort(t *testing.T) {
	req := newRequest(t, http.MethodPost, "http://foo.bar:8080/baz")

	assert.Equal(t, "httpclient_downstream_call-POST_http://foo.bar:8080/baz", SpanName(req))
}

func TestSpanNameIsDeterministic(t *testing.T) {
	req := newRequest(t, http.MethodDelete, "https://foo.bar/baz/qux?x=1&y=2")

	first := SpanName(req)
	second := SpanName(req)

	assert.Equal(t, first, second)
	assert.Equal(t, "httpclient_downstream_call-DELETE_https://foo.bar/baz/qux", first)
}

func TestSpanNamerIsOverridable(t *testing.T) {
	var namer SpanNamer = func(req *http.Request) string {
		return "custom-" + req.Method
	}
	req := newRequest(t, http.MethodGet, "https://foo.bar/baz")

	assert.Equal(t, "custom-GET", namer(req))
}
