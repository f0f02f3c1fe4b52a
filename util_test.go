package hostcors_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jub0bs/hostcors"
)

const (
	// request headers
	headerOrigin = "Origin"
	headerACRM   = "Access-Control-Request-Method"
	headerACRH   = "Access-Control-Request-Headers"

	// response headers
	headerACAO = "Access-Control-Allow-Origin"
	headerACAM = "Access-Control-Allow-Methods"
	headerACAH = "Access-Control-Allow-Headers"
	headerACMA = "Access-Control-Max-Age"
	headerVary = "Vary"

	// set by http.Error
	headerContentType = "Content-Type"
	headerXCTO        = "X-Content-Type-Options"
)

type MiddlewareTestCase struct {
	desc  string
	outer *middleware
	spy   spyHandler
	cfg   *hostcors.Config
	debug bool
	cases []ReqTestCase
}

type ReqTestCase struct {
	desc       string
	reqMethod  string
	reqHeaders http.Header
	rejected   bool
	reason     string // only relevant if rejected
	preflight  bool
	// CORS headers expected on top of those
	// set by the wrapped handler and outer middleware
	respHeaders Headers
}

// Headers represent a set of HTTP-header name-value pairs
// in which there are no duplicate names.
type Headers = map[string]string

func newRequest(method string, headers http.Header) *http.Request {
	req := httptest.NewRequest(method, "https://example.com/whatever", nil)
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	return req
}

// spyHandler writes a canned response and records whether it was invoked.
// Tests serve requests through a fresh copy of it.
type spyHandler struct {
	status int
	hdrs   Headers
	body   string
	called bool
}

func (s *spyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	s.called = true
	for k, v := range s.hdrs {
		w.Header().Add(k, v)
	}
	w.WriteHeader(s.status)
	io.WriteString(w, s.body)
}

// middleware adds hdrs to every response before delegating.
type middleware struct {
	hdrs Headers
}

var varyMiddleware = middleware{
	hdrs: Headers{headerVary: "before"},
}

func (m middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range m.hdrs {
			w.Header().Add(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

type response struct {
	called  bool
	status  int
	headers []Headers // merged; the same name may occur in several
	body    string
}

func (want *response) check(t *testing.T, res *http.Response) {
	t.Helper()
	if res.StatusCode != want.status {
		t.Errorf("got status code %d; want %d", res.StatusCode, want.status)
	}
	wantHdrs := make(http.Header)
	for _, hdrs := range want.headers {
		for k, v := range hdrs {
			wantHdrs.Add(k, v)
		}
	}
	sortValues := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(wantHdrs, res.Header, sortValues, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("response headers mismatch (-want +got):\n%s", diff)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil || string(body) != want.body {
		t.Errorf("got body %q; want body %q", body, want.body)
	}
}

func preflightStatus(cfg *hostcors.Config) int {
	if cfg != nil && cfg.ExtraConfig.PreflightSuccessStatus != 0 {
		return cfg.ExtraConfig.PreflightSuccessStatus
	}
	return http.StatusNoContent
}

// rejectionHeaders are the headers that http.Error sets.
var rejectionHeaders = Headers{
	headerContentType: "text/plain; charset=utf-8",
	headerXCTO:        "nosniff",
}

func rejectionBody(debug bool, reason string) string {
	if debug {
		return "hostcors: " + reason + "\n"
	}
	return "Bad Request\n"
}

// newMutatingHandler returns a handler that tampers with
// the CORS headers already set on its response.
func newMutatingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for _, k := range []string{headerACAO, headerVary} {
			if vs := w.Header()[k]; len(vs) > 0 {
				vs[0] = "mutated!"
			}
		}
	})
}
