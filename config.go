package hostcors

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jub0bs/hostcors/cfgerrors"
	"github.com/jub0bs/hostcors/internal/headers"
	"github.com/jub0bs/hostcors/internal/methods"
	"github.com/jub0bs/hostcors/internal/origin"
)

// A Config configures an [Evaluator] (and, by extension, a [Middleware]).
// The mechanics of and interplay between this type's various fields are
// explained below. Attempts to use settings described as "prohibited"
// result in a failure to build the desired Evaluator.
//
// # Hosts
//
// Hosts configures an Evaluator to allow requests whose Origin header
// designates one of the specified hosts, regardless of the origin's scheme
// and port:
//
//	Hosts: []string{
//	  "example.com",
//	  "localhost",
//	},
//
// With the configuration above, all of the following origins are allowed:
//
//	https://example.com
//	http://example.com:8080
//	http://localhost:3000
//
// Host matching is exact and case-sensitive: no wildcard is supported,
// and allowing example.com does not allow its subdomains.
// Because browsers serialize origins in lower case,
// you should specify hosts in lower case.
//
// Security considerations: Bear in mind that, by allowing a host, you engage
// in a trust relationship with every Web origin on that host, whatever its
// scheme or port. Malicious actors may be able to exploit some Web
// vulnerabilities (including [cross-site scripting]) on those origins and
// mount [cross-origin attacks] against your users from there.
//
// Hosts must be specified in ASCII form; Unicode is prohibited:
//
//	example.com            // permitted
//	www.xn--xample-9ua.com // permitted (Punycode)
//	www.résumé.com         // prohibited (Unicode)
//
// Hosts that are IPv4 addresses must be specified in [dotted-quad notation]:
//
//	255.0.0.0  // permitted
//	0xFF000000 // invalid
//
// Hosts that are IPv6 addresses must be enclosed in brackets and specified
// in their [compressed form]:
//
//	[::1]                // permitted
//	::1                  // invalid
//	[0:0:0:0:0:0:0:0001] // prohibited
//
// Specifying a scheme, a port, or a path is invalid:
//
//	https://example.com // invalid
//	example.com:8080    // invalid
//	example.com/path    // invalid
//
// Specifying no host at all is prohibited, unless AllowAnyOrigin is set.
//
// # AllowAnyOrigin
//
// AllowAnyOrigin configures an Evaluator to allow any non-empty origin.
// Even then, the Access-Control-Allow-Origin header never contains the
// wildcard; it always echoes the request's origin.
//
// Setting AllowAnyOrigin and specifying one or more hosts is prohibited.
//
// # Methods
//
// Methods configures an Evaluator to allow any of the specified
// HTTP methods in preflight requests. Method names are case-sensitive,
// except for the ones that the Fetch standard [normalizes]
// (DELETE, GET, HEAD, OPTIONS, POST, and PUT).
//
//	Methods: []string{
//	  http.MethodGet,
//	  http.MethodPost,
//	  http.MethodPut,
//	  "PURGE",
//	}
//
// A single asterisk denotes all methods:
//
//	Methods: []string{"*"},
//
// If you leave Methods empty, the methods listed by [DefaultMethods]
// are allowed.
//
// The three so-called "[CORS-safelisted methods]" (GET, HEAD, and POST)
// are always allowed by the CORS protocol;
// listing them is permitted but never actually necessary.
// Specifying [forbidden method names] is prohibited.
//
// # MaxAgeInSeconds
//
// MaxAgeInSeconds configures an Evaluator to instruct browsers
// to cache preflight responses for a duration no longer than
// the specified number of seconds.
//
// The zero value omits the Access-Control-Max-Age header, which instructs
// browsers to cache preflight responses with a [default max-age value]
// of five seconds. To instruct browsers to eschew caching of preflight
// responses altogether, specify a value of -1. No other negative value is
// permitted.
//
// Because modern browsers [cap the max-age value],
// this field is subject to an upper bound:
// specifying a value larger than 86400 is prohibited.
//
// # ExtraConfig
//
// ExtraConfig holds settings that most users should not need to touch;
// see [ExtraConfig].
//
// [CORS-safelisted methods]: https://fetch.spec.whatwg.org/#cors-safelisted-method
// [cap the max-age value]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds
// [compressed form]: https://datatracker.ietf.org/doc/html/rfc5952
// [cross-origin attacks]: https://portswigger.net/research/exploiting-cors-misconfigurations-for-bitcoins-and-bounties
// [cross-site scripting]: https://owasp.org/www-community/attacks/xss/
// [default max-age value]: https://fetch.spec.whatwg.org/#http-access-control-max-age
// [dotted-quad notation]: https://en.wikipedia.org/wiki/Dot-decimal_notation
// [forbidden method names]: https://fetch.spec.whatwg.org/#forbidden-method
// [normalizes]: https://fetch.spec.whatwg.org/#concept-method-normalize
type Config struct {
	// Precludes comparability, unkeyed struct literals, and conversion to and
	// from third-party types.
	_ [0]func()

	Hosts           []string    `json:"hosts,omitempty" yaml:"hosts,omitempty"`
	AllowAnyOrigin  bool        `json:"allow_any_origin,omitempty" yaml:"allow_any_origin,omitempty"`
	Methods         []string    `json:"methods,omitempty" yaml:"methods,omitempty"`
	MaxAgeInSeconds int         `json:"max_age_in_seconds,omitempty" yaml:"max_age_in_seconds,omitempty"`
	ExtraConfig     ExtraConfig `json:"extra,omitzero" yaml:"extra,omitempty"`
}

// An ExtraConfig provides more advanced (and potentially dangerous)
// configuration settings.
//
// # PreflightSuccessStatus
//
// PreflightSuccessStatus configures an Evaluator to answer successful
// preflight requests with the specified status rather than with the
// default 204 No Content.
//
// According to the Fetch standard, any [ok status] (i.e. status in the
// 2xx range) is acceptable to mark a preflight response as successful.
// However, some rare non-compliant user agents fail preflight when the
// preflight response has a status other than 200;
// this field lets you accommodate them.
//
// Specifying a status outside the 2xx range is prohibited.
//
// [ok status]: https://fetch.spec.whatwg.org/#ok-status
type ExtraConfig struct {
	// Precludes comparability, unkeyed struct literals, and conversion to and
	// from third-party types.
	_ [0]func()

	PreflightSuccessStatus int `json:"preflight_success_status,omitempty" yaml:"preflight_success_status,omitempty"`
}

// NewEvaluator creates an Evaluator that behaves in accordance with cfg.
// If cfg is invalid, it returns a nil [*Evaluator] and some non-nil error.
// Otherwise, it returns a pointer to an [Evaluator] and a nil error.
//
// Mutating the fields of cfg after NewEvaluator has returned does not alter
// the resulting Evaluator's behavior.
//
// If you need to programmatically handle the configuration errors constitutive
// of the resulting error, rely on package [github.com/jub0bs/hostcors/cfgerrors].
func NewEvaluator(cfg Config) (*Evaluator, error) {
	return newEvaluator(&cfg)
}

func newEvaluator(cfg *Config) (*Evaluator, error) {
	var ev Evaluator
	// Accumulate errors in a slice so as to call errors.Join at most once,
	// for better performance.
	errs := ev.validateHosts(cfg.Hosts, cfg.AllowAnyOrigin)
	errs = ev.validateMethods(errs, cfg.Methods)
	errs = ev.validateMaxAge(errs, cfg.MaxAgeInSeconds)
	errs = ev.validatePreflightStatus(errs, cfg.ExtraConfig.PreflightSuccessStatus)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &ev, nil
}

func (ev *Evaluator) validateHosts(hosts []string, allowAny bool) []error {
	switch {
	case allowAny && len(hosts) > 0:
		err := &cfgerrors.IncompatibleHostsError{
			Hosts: len(hosts),
		}
		return []error{err}
	case allowAny:
		ev.policy = allowAnyPolicy()
		return nil
	case len(hosts) == 0:
		err := &cfgerrors.UnacceptableHostError{
			Reason: "missing",
		}
		return []error{err}
	}
	var errs []error
	for _, host := range hosts {
		if err := origin.ValidateHost(host); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	ev.policy = whitelistPolicy(hosts...)
	return nil
}

func (ev *Evaluator) validateMethods(errs []error, names []string) []error {
	if len(names) == 0 {
		ev.allowMethods(DefaultMethods())
		return errs
	}
	var (
		allowed  []string
		nbErrors = len(errs)
	)
	for _, name := range names {
		if name == headers.ValueWildcard {
			ev.allowAnyMethod = true
			continue
		}
		if !methods.IsValid(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		name = methods.Normalize(name)
		if methods.IsForbidden(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "forbidden",
			}
			errs = append(errs, err)
			continue
		}
		allowed = append(allowed, name)
	}
	if len(errs) > nbErrors || ev.allowAnyMethod {
		// In the latter case, we no longer need to maintain
		// a set of allowed methods.
		return errs
	}
	ev.allowMethods(allowed)
	return errs
}

const (
	// see https://fetch.spec.whatwg.org/#cors-preflight-fetch-0, step 7.9
	defaultMaxAge = 5
	// Current upper bounds:
	//  - Firefox: 86400 (24h)
	//  - Chromium: 7200 (2h)
	//  - WebKit/Safari: 600 (10m)
	//
	// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds.
	maxAgeUpperBound = 86400
	// sentinel value for disabling preflight caching
	disableCaching = -1
)

func (ev *Evaluator) validateMaxAge(errs []error, delta int) []error {
	switch {
	case delta < disableCaching || maxAgeUpperBound < delta:
		err := &cfgerrors.MaxAgeOutOfBoundsError{
			Value:   delta,
			Default: defaultMaxAge,
			Max:     maxAgeUpperBound,
			Disable: disableCaching,
		}
		return append(errs, err)
	case delta == disableCaching:
		ev.acma = []string{"0"}
		return errs
	case delta == 0:
		return errs
	default:
		ev.acma = []string{strconv.Itoa(delta)}
		return errs
	}
}

func (ev *Evaluator) validatePreflightStatus(errs []error, status int) []error {
	const (
		minOKStatus = http.StatusOK
		maxOKStatus = 299
	)
	switch {
	case status == 0:
		ev.preflightStatus = defaultPreflightStatus
		return errs
	case status < minOKStatus || maxOKStatus < status:
		err := &cfgerrors.PreflightSuccessStatusOutOfBoundsError{
			Value:   status,
			Default: defaultPreflightStatus,
			Min:     minOKStatus,
			Max:     maxOKStatus,
		}
		return append(errs, err)
	default:
		ev.preflightStatus = status
		return errs
	}
}

// newConfig returns a Config on the basis of ev.
// The soundness of the result is guaranteed only if ev is the result of a
// previous successful call to newEvaluator.
func newConfig(ev *Evaluator) *Config {
	if ev == nil {
		return nil
	}

	// Note: do not hold (in cfg) any references to mutable fields of ev;
	// use defensive copying if required.
	cfg := Config{
		AllowAnyOrigin: ev.policy.IsAllowAny(),
		Hosts:          ev.policy.Hosts(),
	}

	// methods
	switch {
	case ev.allowAnyMethod:
		cfg.Methods = []string{headers.ValueWildcard}
	default:
		cfg.Methods = ev.allowedMethods.ToSlice()
	}

	// max age
	if len(ev.acma) > 0 {
		maxAge, _ := strconv.Atoi(ev.acma[0]) // safe, by construction
		if maxAge != 0 {
			cfg.MaxAgeInSeconds = maxAge
		} else {
			cfg.MaxAgeInSeconds = disableCaching
		}
	}

	// preflight status
	if ev.preflightStatus != defaultPreflightStatus {
		cfg.ExtraConfig.PreflightSuccessStatus = ev.preflightStatus
	}

	return &cfg
}
