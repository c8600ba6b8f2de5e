package zone

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/catalystcommunity/hms/internal/inventory"
)

// ReverseInput carries everything one reverse zone is built from.
type ReverseInput struct {
	Spec ReverseSpec
	// Domain is appended to host names in PTR targets
	Domain      string
	NameServers []string
	Serial      string
	// Hosts are the members of this zone, see Partition
	Hosts []inventory.HostRecord
}

// BuildReverse renders the reverse zone for one spec. Every assigned host of
// in.Hosts becomes "<octet4>.<octet3> IN PTR <host>.<domain>.". The wildcard
// is not applied here; Partition does that for all specs at once.
//
// Only the last two octets form the owner name. Reverse delegation ends at the
// /16 boundary, so zones are named for the first two octets.
func BuildReverse(in ReverseInput) (*File, error) {
	domain := strings.TrimSuffix(in.Domain, ".")
	selected := Select(in.Hosts, "")

	f := &File{
		Origin:      strings.TrimSuffix(in.Spec.Name, "."),
		Serial:      in.Serial,
		PrimaryNS:   ReversePrimary,
		Contact:     ReverseContact,
		NameServers: in.NameServers,
		Records:     make([]Record, 0, len(selected)),
	}

	for _, h := range selected {
		rr, err := PTR(h, domain)
		if err != nil {
			return nil, fmt.Errorf("reverse zone %s: %w", in.Spec.Name, err)
		}
		f.Records = append(f.Records, rr)
	}

	return f, nil
}

// PTR builds the pointer record for an assigned host.
func PTR(h inventory.HostRecord, domain string) (Record, error) {
	key, err := PTRKey(h.IP)
	if err != nil {
		return Record{}, fmt.Errorf("host %s: %w", h.Host, err)
	}
	return Record{
		Name: key,
		Type: "PTR",
		Data: fmt.Sprintf("%s.%s.", h.Host, strings.TrimSuffix(domain, ".")),
	}, nil
}

// PTRKey returns "<octet4>.<octet3>" for a dotted-quad IPv4 address.
func PTRKey(ip string) (string, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return "", fmt.Errorf("address %q is not an IPv4 address", ip)
	}
	o := addr.As4()
	return fmt.Sprintf("%d.%d", o[3], o[2]), nil
}

// Select returns the assigned hosts whose address matches wildcard, in input
// order. An empty wildcard keeps every assigned host.
func Select(hosts []inventory.HostRecord, wildcard string) []inventory.HostRecord {
	selected := make([]inventory.HostRecord, 0, len(hosts))
	for _, h := range hosts {
		if !h.Assigned() {
			continue
		}
		if wildcard != "" && !MatchWildcard(wildcard, h.IP) {
			continue
		}
		selected = append(selected, h)
	}
	return selected
}

// Partition selects the hosts of every reverse spec independently. A host
// matching several wildcards appears in each of their zones.
func Partition(specs []ReverseSpec, hosts []inventory.HostRecord) [][]inventory.HostRecord {
	parts := make([][]inventory.HostRecord, len(specs))
	for i, spec := range specs {
		parts[i] = Select(hosts, spec.Wildcard)
	}
	return parts
}

// MatchWildcard matches s against pattern with SQL LIKE rules: '%' matches any
// run of characters, '_' matches exactly one, everything else matches itself.
// The match is anchored at both ends, so "141.222.36.%" is a prefix match.
func MatchWildcard(pattern, s string) bool {
	p, i := 0, 0
	star, mark := -1, 0

	for i < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == '_' || pattern[p] == s[i]) && pattern[p] != '%':
			p++
			i++
		case p < len(pattern) && pattern[p] == '%':
			star, mark = p, i
			p++
		case star >= 0:
			p = star + 1
			mark++
			i = mark
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '%' {
		p++
	}
	return p == len(pattern)
}
