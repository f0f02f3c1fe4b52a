/*
Package hostcors provides [net/http] middleware for
[Cross-Origin Resource Sharing (CORS)] that decides on the basis of
the host of the request's origin.

A policy either whitelists a set of hostnames (the origin's scheme and port
are irrelevant) or allows any non-empty origin. Requests whose origin is
missing, malformed, or not allowed are rejected with a 400 status before
they reach your handler. Other requests proceed, and their responses carry
an Access-Control-Allow-Origin header that echoes the request's origin.
[CORS-preflight requests] are answered directly by the middleware.

The decision logic is exposed separately as an [Evaluator], for use outside
of [net/http] handler chains.

# Placement

The middleware treats every OPTIONS request as a preflight request, so it
must see OPTIONS requests before any router rejects them for lack of a
matching route. With [github.com/go-chi/chi/v5], register it with Use.

Preflight requests carry no credentials; put authentication inside the
CORS middleware, never in front of it.

Outer middleware may add values to the [Vary] header of responses but must
not remove the Origin value that the middleware adds. Stacking two CORS
middleware produces conflicting headers.

[CORS-preflight requests]: https://developer.mozilla.org/en-US/docs/Glossary/Preflight_request
[Cross-Origin Resource Sharing (CORS)]: https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
[Vary]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Vary
*/
package hostcors
