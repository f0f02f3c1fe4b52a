// Package methods classifies HTTP request methods.
package methods

import (
	"net/http"

	"github.com/jub0bs/hostcors/internal/util"
	"golang.org/x/net/http/httpguts"
)

// IsValid reports whether name is a syntactically valid method:
// a non-empty [token].
//
// [token]: https://httpwg.org/specs/rfc9110.html#method.overview
func IsValid(name string) bool {
	// methods and header names share the token production
	return httpguts.ValidHeaderFieldName(name)
}

// IsForbidden reports whether browsers refuse to send requests with method
// name, regardless of case. See [forbidden method].
//
// [forbidden method]: https://fetch.spec.whatwg.org/#forbidden-method
func IsForbidden(name string) bool {
	return forbidden.Contains(util.ByteLowercase(name))
}

// byte-lowercase
var forbidden = util.NewSet("connect", "trace", "track")

// IsSafelisted reports whether name is GET, HEAD, or POST.
// The comparison is case-sensitive.
func IsSafelisted(name string) bool {
	return name == http.MethodGet ||
		name == http.MethodHead ||
		name == http.MethodPost
}

// Normalize upper-cases name if it case-insensitively matches one of the
// methods that browsers [normalize]; other names are returned verbatim.
//
// [normalize]: https://fetch.spec.whatwg.org/#concept-method-normalize
func Normalize(name string) string {
	if upper := util.ByteUppercase(name); normalizable.Contains(upper) {
		return upper
	}
	return name
}

var normalizable = util.NewSet(
	http.MethodDelete,
	http.MethodGet,
	http.MethodHead,
	http.MethodOptions,
	http.MethodPost,
	http.MethodPut,
)
