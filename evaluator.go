package hostcors

import (
	"net/http"
	"slices"
	"strings"

	"github.com/jub0bs/hostcors/internal/headers"
	"github.com/jub0bs/hostcors/internal/methods"
	"github.com/jub0bs/hostcors/internal/origin"
	"github.com/jub0bs/hostcors/internal/util"
)

// An Evaluator decides, for each incoming request, whether the request's
// origin is allowed under its [Policy], and which CORS headers the response
// should carry.
//
// Evaluators are immutable once built and safe for concurrent use
// by multiple goroutines.
type Evaluator struct {
	policy          Policy
	allowAnyMethod  bool
	allowedMethods  util.Set // allowedMethods.Size() > 0 => !allowAnyMethod
	acam            []string // nil <=> allowAnyMethod
	acma            []string // nil <=> no Access-Control-Max-Age header
	preflightStatus int
}

// NewWhitelist returns an Evaluator that allows only the origins whose host
// is one of hosts. Host matching is exact and case-sensitive;
// duplicate hosts collapse. Scheme and port are irrelevant to matching.
//
// NewWhitelist performs no validation: a host that could never appear in an
// Origin header simply never matches. Calling NewWhitelist without arguments
// yields an Evaluator that rejects every request.
// For a validated construction, see [NewEvaluator].
//
// The resulting Evaluator allows [DefaultMethods], omits the
// Access-Control-Max-Age header, and answers successful preflight requests
// with status 204.
func NewWhitelist(hosts ...string) *Evaluator {
	return newDefaultEvaluator(whitelistPolicy(hosts...))
}

// NewAllowAny returns an Evaluator that allows any non-empty origin.
// Apart from its policy, it behaves as the Evaluators that
// [NewWhitelist] returns.
func NewAllowAny() *Evaluator {
	return newDefaultEvaluator(allowAnyPolicy())
}

func newDefaultEvaluator(p Policy) *Evaluator {
	ev := Evaluator{
		policy:          p,
		preflightStatus: defaultPreflightStatus,
	}
	ev.allowMethods(DefaultMethods())
	return &ev
}

// allowMethods records names, which must be valid and normalized,
// as the allowed methods.
func (ev *Evaluator) allowMethods(names []string) {
	for _, name := range names {
		ev.allowedMethods.Add(name)
	}
	// The elements of a header-field value may be separated simply by commas;
	// since whitespace is optional, let's not use any.
	acam := strings.Join(ev.allowedMethods.ToSlice(), headers.ValueSep)
	ev.acam = []string{acam}
}

// DefaultMethods returns the methods that an Evaluator allows
// when none are configured.
func DefaultMethods() []string {
	return []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
}

const defaultPreflightStatus = http.StatusNoContent

// Policy returns ev's policy.
func (ev *Evaluator) Policy() Policy {
	return ev.policy
}

// EvaluateRequest evaluates a non-preflight request whose method is method
// and whose Origin header value is origin (the empty string if the
// request carries no Origin header).
//
// The result's Outcome is either Reject or Accept. An accepted request
// gets an Access-Control-Allow-Origin header that echoes origin verbatim;
// the wildcard is never used.
func (ev *Evaluator) EvaluateRequest(method, origin string) Decision {
	if reason, ok := ev.checkOrigin(origin); !ok {
		return rejectDecision(reason)
	}
	return Decision{
		Outcome: Accept,
		Header: http.Header{
			headers.ACAO: {origin},
		},
	}
}

// EvaluatePreflight evaluates a request whose method is method,
// whose Origin header value is origin, and whose
// Access-Control-Request-Method and Access-Control-Request-Headers
// header values are requestedMethod and requestedHeaders, respectively.
//
// Every OPTIONS request is deemed a preflight request. If method is not
// OPTIONS, EvaluatePreflight is equivalent to [Evaluator.EvaluateRequest].
//
// A preflight request from an allowed origin is rejected only if it
// requests a method that is neither CORS-safelisted (GET, HEAD, or POST)
// nor allowed by ev. Otherwise, the result's Outcome is Preflight and its
// Header holds
//   - Access-Control-Allow-Origin, which echoes origin;
//   - Access-Control-Allow-Methods, which lists the allowed methods
//     (or echoes requestedMethod if any method is allowed);
//   - Access-Control-Allow-Headers, which echoes requestedHeaders
//     (omitted if requestedHeaders is empty);
//   - Access-Control-Max-Age, if a max age is configured.
func (ev *Evaluator) EvaluatePreflight(
	method string,
	origin string,
	requestedMethod string,
	requestedHeaders []string,
) Decision {
	if method != http.MethodOptions {
		return ev.EvaluateRequest(method, origin)
	}
	if reason, ok := ev.checkOrigin(origin); !ok {
		return rejectDecision(reason)
	}
	if requestedMethod != "" &&
		!methods.IsSafelisted(requestedMethod) &&
		!ev.allowAnyMethod &&
		!ev.allowedMethods.Contains(requestedMethod) {
		return rejectDecision(ReasonMethodNotAllowed)
	}

	// Populating a small local map incurs no heap allocations on average;
	// a simple http.Header will do.
	hdrs := http.Header{
		headers.ACAO: {origin},
	}
	switch {
	case !ev.allowAnyMethod:
		hdrs[headers.ACAM] = slices.Clone(ev.acam)
	case requestedMethod != "":
		hdrs[headers.ACAM] = []string{requestedMethod}
	default:
		hdrs[headers.ACAM] = []string{headers.ValueWildcard}
	}
	if len(requestedHeaders) > 0 {
		// We can simply reflect all the ACRH header lines as ACAH header
		// lines because the Fetch standard requires browsers to handle
		// multiple ACAH header lines;
		// see https://fetch.spec.whatwg.org/#cors-preflight-fetch-0.
		hdrs[headers.ACAH] = slices.Clone(requestedHeaders)
	}
	if ev.acma != nil {
		hdrs[headers.ACMA] = slices.Clone(ev.acma)
	}
	return Decision{
		Outcome: Preflight,
		Status:  ev.preflightStatus,
		Header:  hdrs,
	}
}

// Evaluate extracts the relevant values from r's method and headers
// and evaluates r accordingly: OPTIONS requests are evaluated with
// [Evaluator.EvaluatePreflight], all others with [Evaluator.EvaluateRequest].
func (ev *Evaluator) Evaluate(r *http.Request) Decision {
	// Fetch-compliant browsers send at most one Origin header;
	// see https://fetch.spec.whatwg.org/#http-network-or-cache-fetch
	// (step 12).
	origin, _ := headers.First(r.Header, headers.Origin)
	if r.Method != http.MethodOptions {
		return ev.EvaluateRequest(r.Method, origin)
	}
	// Fetch-compliant browsers send at most one ACRM header;
	// see https://fetch.spec.whatwg.org/#cors-preflight-fetch (step 3).
	acrm, _ := headers.First(r.Header, headers.ACRM)
	acrh := headers.Lines(r.Header, headers.ACRH)
	return ev.EvaluatePreflight(r.Method, origin, acrm, acrh)
}

// checkOrigin reports whether o is allowed by ev's policy;
// if not, it also returns the reason for the rejection.
func (ev *Evaluator) checkOrigin(o string) (reason string, ok bool) {
	if o == "" {
		return ReasonMissingOrigin, false
	}
	parsed, ok := origin.Parse(o)
	if !ok {
		return ReasonInvalidOrigin, false
	}
	if !ev.policy.allows(parsed.Host) {
		return ReasonOriginNotAllowed, false
	}
	return "", true
}
