package inventory

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

var (
	hostPattern        = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\-]{1,31}$`)
	macPattern         = regexp.MustCompile(`^[0-9a-fA-F]{12}$`)
	descriptionPattern = regexp.MustCompile(`^[ a-zA-Z0-9_\-.]{1,31}$`)
)

// ValidateHost checks a host name: a letter followed by 1-31 letters, digits
// or hyphens.
func ValidateHost(host string) error {
	if !hostPattern.MatchString(host) {
		return fmt.Errorf("%s is not a valid host name", host)
	}
	return nil
}

// ValidateIP checks for a dotted-quad IPv4 address.
func ValidateIP(ip string) error {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%s is not a valid IPv4 address", ip)
	}
	return nil
}

// NormalizeMAC strips ':', '-' and '.' separators and checks that 12 hex
// digits remain. The result is lower case.
func NormalizeMAC(mac string) (string, error) {
	stripped := strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac)
	if !macPattern.MatchString(stripped) {
		return "", fmt.Errorf("%s is not a valid MAC address", mac)
	}
	return strings.ToLower(stripped), nil
}

// ValidateDescription allows up to 31 letters, digits, spaces, '_', '-' and '.'.
func ValidateDescription(desc string) error {
	if !descriptionPattern.MatchString(desc) {
		return fmt.Errorf("%s is not a valid description", desc)
	}
	return nil
}
