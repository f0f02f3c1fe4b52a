// Package headers holds the names of the HTTP headers involved in CORS
// and a few helpers for reading them from requests.
package headers

import (
	"net/http"
	"slices"
)

// header names in canonical format
const (
	// common request headers
	Origin = "Origin"

	// preflight-only request headers
	ACRM = "Access-Control-Request-Method"
	ACRH = "Access-Control-Request-Headers"

	// common response headers
	ACAO = "Access-Control-Allow-Origin"

	// preflight-only response headers
	ACAM = "Access-Control-Allow-Methods"
	ACAH = "Access-Control-Allow-Headers"
	ACMA = "Access-Control-Max-Age"

	Vary = "Vary"
)

const (
	ValueWildcard = "*"
	ValueSep      = ","
)

// First, if k is present in hdrs, returns the value associated to k in hdrs
// and true; otherwise, First returns "", false.
// Precondition: k is in canonical format (see [http.CanonicalHeaderKey]).
//
// Contrary to [http.Header.Get], First does not canonicalize k,
// and it distinguishes an absent header from an empty one.
func First(hdrs http.Header, k string) (string, bool) {
	v, found := hdrs[k]
	if !found || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Lines returns a copy of all the field lines named k in hdrs,
// or nil if there are none.
// Precondition: k is in canonical format (see [http.CanonicalHeaderKey]).
//
// Although the Fetch standard requires browsers to send at most one
// field line for list-based headers like Access-Control-Request-Headers,
// some intermediaries reportedly split such a line into several;
// see https://github.com/rs/cors/issues/184.
func Lines(hdrs http.Header, k string) []string {
	v := hdrs[k]
	if len(v) == 0 {
		return nil
	}
	return slices.Clone(v)
}
