// Package cfgerrors exposes the types of the errors that constructors of
// package [github.com/jub0bs/hostcors] return for an invalid configuration.
//
// Those constructors report every problem at once, joined with
// [errors.Join]; iterate over them with [All] and switch on their types
// to tell operators or tenants what to fix in their own terms.
package cfgerrors

import (
	"fmt"
	"iter"
)

// An UnacceptableHostError reports a whitelist problem. Its Reason is
//   - "missing" if the whitelist is empty and any origin isn't allowed
//     either (Value is then empty);
//   - "invalid" if Value is not a hostname, e.g. because it includes a
//     scheme or a port;
//   - "prohibited" if Value is a hostname that browsers never send as is,
//     e.g. a Unicode domain or a non-canonical IP address.
//
// For more details, see [github.com/jub0bs/hostcors.Config.Hosts].
type UnacceptableHostError struct {
	Value  string // the unacceptable value that was specified
	Reason string // missing | invalid | prohibited
}

func (err *UnacceptableHostError) Error() string {
	if err.Reason == "missing" {
		return "hostcors: at least one host must be allowed, unless any origin is allowed"
	}
	const tmpl = "hostcors: %s host %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An IncompatibleHostsError indicates an attempt to both allow any origin
// and specify a whitelist of hosts.
// For more details, see [github.com/jub0bs/hostcors.Config.AllowAnyOrigin].
type IncompatibleHostsError struct {
	Hosts int // the number of hosts that were specified
}

func (err *IncompatibleHostsError) Error() string {
	const tmpl = "hostcors: you cannot both allow any origin and whitelist hosts (%d specified)"
	return fmt.Sprintf(tmpl, err.Hosts)
}

// An UnacceptableMethodError indicates an unacceptable method.
// The Reason field may take one of two values:
//   - "invalid": the method is invalid;
//   - "forbidden": the method is forbidden by [the Fetch standard].
//
// For more details, see [github.com/jub0bs/hostcors.Config.Methods].
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type UnacceptableMethodError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid | forbidden
}

func (err *UnacceptableMethodError) Error() string {
	const tmpl = "hostcors: %s method %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// A MaxAgeOutOfBoundsError indicates a max-age value that's either too low
// or too high.
//
// For more details, see [github.com/jub0bs/hostcors.Config.MaxAgeInSeconds].
type MaxAgeOutOfBoundsError struct {
	Value   int // the unacceptable value that was specified
	Default int // max-age value used by browsers if MaxAgeInSeconds is 0
	Max     int // maximum max-age value permitted by this library
	Disable int // sentinel value for disabling preflight caching
}

func (err *MaxAgeOutOfBoundsError) Error() string {
	const tmpl = "hostcors: out-of-bounds max-age value %d (default: %d; max: %d; disable caching: %d)"
	return fmt.Sprintf(tmpl, err.Value, err.Default, err.Max, err.Disable)
}

// A PreflightSuccessStatusOutOfBoundsError indicates a preflight-success
// status that lies outside the 2xx range.
//
// For more details, see
// [github.com/jub0bs/hostcors.ExtraConfig.PreflightSuccessStatus].
type PreflightSuccessStatusOutOfBoundsError struct {
	Value   int // the unacceptable value that was specified
	Default int // status used if PreflightSuccessStatus is 0
	Min     int // minimum value permitted by this library
	Max     int // maximum value permitted by this library
}

func (err *PreflightSuccessStatusOutOfBoundsError) Error() string {
	const tmpl = "hostcors: out-of-bounds preflight-success status %d (default: %d; min: %d; max: %d)"
	return fmt.Sprintf(tmpl, err.Value, err.Default, err.Min, err.Max)
}

// All returns an iterator over the configuration errors contained in
// err's error tree. The order is unspecified and may change from one release
// to the next. All only supports error values returned by
// [github.com/jub0bs/hostcors.NewMiddleware] and
// [github.com/jub0bs/hostcors.NewEvaluator]; it should not be called on
// any other error value.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		every(err, yield)
	}
}

func every(err error, f func(error) bool) bool {
	switch err := err.(type) {
	// Note that there's no need for any "interface { Unwrap() error }" case
	// because nowhere do we "wrap" errors; we only ever "join" them.
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !every(err, f) {
				return false
			}
		}
		return true
	default:
		return f(err)
	}
}
