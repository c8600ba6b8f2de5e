package zone

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// Check parses the rendered zone with a master-file parser and verifies it has
// exactly one SOA. It catches a broken static fragment or a bad record before
// anything leaves the machine.
func Check(f *File) error {
	origin := dns.Fqdn(f.Origin)

	parser := dns.NewZoneParser(strings.NewReader(f.String()), origin, origin)
	parser.SetIncludeAllowed(false)
	parser.SetDefaultTTL(DefaultTTL) // ZoneParser needs this in case $TTL is absent

	soa := 0
	for rr, ok := parser.Next(); ok; rr, ok = parser.Next() {
		if rr.Header().Rrtype == dns.TypeSOA {
			soa++
		}
	}
	if err := parser.Err(); err != nil {
		return err
	}

	if soa != 1 {
		return fmt.Errorf("expected exactly one SOA record, found %d", soa)
	}
	return nil
}
