package news

import (
	"net/http"
	"net/http/httptest"
)

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}

func rewrittenClient(srv *httptest.Server) *http.Client {
	client := srv.Client()
	client.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}
	return client
}
