// Package origin parses the value of the Origin request header
// and validates the hostnames that a whitelist may contain.
package origin

import (
	"strconv"
	"strings"
)

const (
	schemeHostSep = "://"
	hostPortSep   = ":"
	labelSep      = '.'
)

const (
	// maxHostLen is the maximum length of a domain name in its textual
	// form; IP literals are shorter.
	maxHostLen = 253
	// maxSchemeLen is arbitrary but exceeds the length of any scheme
	// that browsers send in practice.
	maxSchemeLen = 64
	maxPortLen   = len("65535")
	maxOriginLen = maxSchemeLen + len(schemeHostSep) + maxHostLen + len(hostPortSep) + maxPortLen
)

// An Origin is the result of parsing the value of an Origin header.
type Origin struct {
	Scheme string
	// Host is the origin's host, exactly as it appears in the header value.
	// IPv6 addresses keep their enclosing brackets.
	Host string
	// Port is 0 in the absence of an explicit port.
	Port int
}

// Parse parses str, which must be of the form
//
//	scheme "://" host [ ":" port ]
//
// and reports whether it succeeded.
// Parse only checks the host's syntax as far as needed to delimit it:
// it may accept hosts that are not valid hostnames, but no whitelist can
// contain those. Parse preserves the case of the host.
func Parse(str string) (Origin, bool) {
	if str == "" || len(str) > maxOriginLen {
		return Origin{}, false
	}
	scheme, rest, ok := strings.Cut(str, schemeHostSep)
	if !ok || !isScheme(scheme) {
		return Origin{}, false
	}
	host, portStr, ok := splitHostPort(rest)
	if !ok {
		return Origin{}, false
	}
	var port int
	if portStr != "" {
		if port, ok = parsePort(portStr); !ok {
			return Origin{}, false
		}
	}
	return Origin{Scheme: scheme, Host: host, Port: port}, true
}

// isScheme reports whether str is a URI scheme;
// see https://www.rfc-editor.org/rfc/rfc3986.html#section-3.1.
func isScheme(str string) bool {
	if str == "" || len(str) > maxSchemeLen || !isAlpha(str[0]) {
		return false
	}
	for i := 1; i < len(str); i++ {
		c := str[i]
		if !isAlpha(c) && !isDigit(c) && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

// splitHostPort splits str into a non-empty host and an optional port.
// A colon with nothing after it is an error.
func splitHostPort(str string) (host, port string, ok bool) {
	if strings.HasPrefix(str, "[") {
		end := strings.IndexByte(str, ']')
		if end < 2 || !all(str[1:end], isIPv6Byte) {
			return "", "", false
		}
		host, str = str[:end+1], str[end+1:]
	} else {
		i := strings.IndexByte(str, hostPortSep[0])
		if i == -1 {
			i = len(str)
		}
		host, str = str[:i], str[i:]
		if host == "" || len(host) > maxHostLen || !all(host, isHostByte) {
			return "", "", false
		}
	}
	if str == "" {
		return host, "", true
	}
	port, ok = strings.CutPrefix(str, hostPortSep)
	return host, port, ok && port != ""
}

// parsePort parses a decimal port number in the 1-65535 range
// without leading zeros.
func parsePort(str string) (int, bool) {
	if len(str) > maxPortLen || str[0] == '0' || !all(str, isDigit) {
		return 0, false
	}
	port, err := strconv.Atoi(str)
	if err != nil || port > 1<<16-1 {
		return 0, false
	}
	return port, true
}

func all(str string, pred func(byte) bool) bool {
	for i := range len(str) {
		if !pred(str[i]) {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// isHostByte reports whether c may appear in a domain name or an IPv4
// address. Underscores are tolerated because some DNS records use them.
func isHostByte(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '-' || c == labelSep || c == '_'
}

// isIPv6Byte reports whether c may appear between the brackets
// of an IPv6 host; periods occur in IPv4-embedded addresses.
func isIPv6Byte(c byte) bool {
	return isHexDigit(c) || c == ':' || c == '.'
}
