package origin

import (
	"net/netip"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jub0bs/hostcors/cfgerrors"
	"github.com/jub0bs/hostcors/internal/util"
	"golang.org/x/net/idna"
)

// ValidateHost checks that str is a hostname that can appear verbatim as
// the host of an Origin header value, namely one of
//   - a domain name in ASCII form (e.g. example.com or xn--rsum-bpad.com),
//   - an IPv4 address in dotted-quad notation (e.g. 127.0.0.1),
//   - an IPv6 address in compressed form enclosed in brackets (e.g. [::1]).
//
// If str is unacceptable, ValidateHost returns a non-nil error of type
// [*cfgerrors.UnacceptableHostError]. Note that the case of str is
// irrelevant to ValidateHost, but not to whitelist matching.
func ValidateHost(str string) error {
	if str == "" || len(str) > maxHostLen {
		return invalidHostError(str)
	}
	if str[0] == '[' {
		return validateIPv6(str)
	}
	for i := range len(str) {
		if str[i] >= utf8.RuneSelf {
			// Browsers serialize origins in ASCII;
			// users must write internationalized domain names in Punycode.
			return prohibitedHostError(str)
		}
		if !isHostByte(str[i]) {
			return invalidHostError(str)
		}
	}
	// Hosts whose rightmost label starts with a digit are assumed to be
	// IPv4 addresses, since no TLD starts with a digit
	// (see https://www.iana.org/domains/root/db).
	assumeIPv4, ok := firstByteOfRightmostLabelIsDigit(str)
	if !ok {
		return invalidHostError(str)
	}
	if assumeIPv4 {
		ip, err := netip.ParseAddr(str)
		if err != nil || !ip.Is4() {
			return invalidHostError(str)
		}
		if str != ip.String() { // e.g. leading zeros
			return prohibitedHostError(str)
		}
		return nil
	}
	domain := util.ByteLowercase(strings.TrimSuffix(str, string(labelSep)))
	if strings.HasPrefix(domain, string(labelSep)) ||
		strings.Contains(domain, string(labelSep)+string(labelSep)) {
		return invalidHostError(str)
	}
	profileOnce.Do(initProfile)
	if _, err := profile.ToASCII(domain); err != nil {
		return prohibitedHostError(str)
	}
	return nil
}

func validateIPv6(str string) error {
	addr, ok := strings.CutPrefix(str, "[")
	if ok {
		addr, ok = strings.CutSuffix(addr, "]")
	}
	if !ok {
		return invalidHostError(str)
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is6() || ip.Zone() != "" {
		return invalidHostError(str)
	}
	if ip.Is4In6() || addr != ip.String() {
		return prohibitedHostError(str)
	}
	return nil
}

func invalidHostError(host string) error {
	return &cfgerrors.UnacceptableHostError{
		Value:  host,
		Reason: "invalid",
	}
}

func prohibitedHostError(host string) error {
	return &cfgerrors.UnacceptableHostError{
		Value:  host,
		Reason: "prohibited",
	}
}

// firstByteOfRightmostLabelIsDigit reports whether the first byte of the
// rightmost DNS label in host is a digit.
// If it succeeds, it returns the result of that check and true;
// otherwise, its ok result is false.
func firstByteOfRightmostLabelIsDigit(host string) (_ bool, ok bool) {
	rest, label, _ := lastCutByte(host, labelSep)
	if label != "" {
		return isDigit(label[0]), true
	}
	// host contains a trailing period ("absolute" domain).
	_, label, _ = lastCutByte(rest, labelSep)
	if label != "" {
		return isDigit(label[0]), true
	}
	return
}

// lastCutByte slices s around the last instance of sep, returning the text
// before and after sep. The found result reports whether sep appears in s.
// If sep does not appear in s, lastCutByte returns "", s, false.
func lastCutByte(s string, sep byte) (before, after string, found bool) {
	if i := strings.LastIndexByte(s, sep); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return "", s, false
}

var (
	profileOnce sync.Once     // guards init of profile via initProfile
	profile     *idna.Profile // lazily initialized
)

func initProfile() {
	profile = idna.New(
		idna.BidiRule(),
		idna.ValidateLabels(true),
		idna.StrictDomainName(true),
		idna.VerifyDNSLength(true),
	)
}
