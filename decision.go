package hostcors

import "net/http"

// An Outcome is the verdict carried by a [Decision].
type Outcome uint8

const (
	// Reject means that the request must not reach the wrapped handler;
	// it gets answered with a 400 status and no CORS headers.
	Reject Outcome = iota
	// Accept means that the request may proceed to the wrapped handler,
	// once the decision's headers have been added to the response.
	Accept
	// Preflight means that the request is a preflight request that
	// must be answered directly with the decision's status and headers.
	Preflight
)

func (o Outcome) String() string {
	switch o {
	case Reject:
		return "reject"
	case Accept:
		return "accept"
	case Preflight:
		return "preflight"
	default:
		return "unknown"
	}
}

// Reasons for rejecting a request.
const (
	ReasonMissingOrigin    = "missing or empty origin"
	ReasonInvalidOrigin    = "invalid origin"
	ReasonOriginNotAllowed = "origin not allowed"
	ReasonMethodNotAllowed = "method not allowed"
)

// A Decision is the result of evaluating a request against a [Policy].
// Each call to an [Evaluator] method returns a freshly allocated Decision,
// which the caller is free to mutate.
type Decision struct {
	Outcome Outcome
	// Reason is non-empty if and only if Outcome is Reject.
	Reason string
	// Status is 400 for Reject, the preflight-success status for Preflight,
	// and 0 for Accept (the wrapped handler picks the status).
	Status int
	// Header holds the response headers to add; it is nil for Reject.
	Header http.Header
}

func rejectDecision(reason string) Decision {
	return Decision{
		Outcome: Reject,
		Reason:  reason,
		Status:  rejectStatus,
	}
}

const rejectStatus = http.StatusBadRequest
