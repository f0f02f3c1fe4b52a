package hostcors

import (
	"github.com/jub0bs/hostcors/internal/util"
)

// A PolicyKind discriminates between the two variants of [Policy].
type PolicyKind uint8

const (
	// PolicyWhitelist denotes a policy that allows only the origins whose
	// host belongs to an explicit set of hostnames.
	PolicyWhitelist PolicyKind = iota
	// PolicyAllowAny denotes a policy that allows any non-empty origin.
	PolicyAllowAny
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyWhitelist:
		return "whitelist"
	case PolicyAllowAny:
		return "allow-any"
	default:
		return "unknown"
	}
}

// A Policy decides which origins are allowed.
// Policies are immutable and therefore safe for concurrent use.
//
// The zero value is a whitelist policy that allows no origin.
type Policy struct {
	kind  PolicyKind
	hosts util.Set // hosts.Size() > 0 => kind == PolicyWhitelist
}

func whitelistPolicy(hosts ...string) Policy {
	return Policy{
		kind:  PolicyWhitelist,
		hosts: util.NewSet(hosts...),
	}
}

func allowAnyPolicy() Policy {
	return Policy{kind: PolicyAllowAny}
}

// Kind returns p's variant.
func (p Policy) Kind() PolicyKind {
	return p.kind
}

// IsAllowAny reports whether p allows any non-empty origin.
func (p Policy) IsAllowAny() bool {
	return p.kind == PolicyAllowAny
}

// Hosts returns the whitelisted hosts in lexicographical order.
// The result is nil for an allow-any policy.
// Mutating the result does not alter p.
func (p Policy) Hosts() []string {
	if p.kind != PolicyWhitelist || p.hosts.Size() == 0 {
		return nil
	}
	return p.hosts.ToSlice()
}

// allows reports whether p allows an origin whose host is host.
// Matching is case-sensitive.
func (p Policy) allows(host string) bool {
	if p.kind == PolicyAllowAny {
		return true
	}
	return p.hosts.Contains(host)
}
