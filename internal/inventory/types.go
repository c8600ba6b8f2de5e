// Package inventory is the host/address store behind hms.
//
// Every managed IPv4 address is a row in hms_ip. An address with no host is
// free; assigning a host fills in host, and optionally mac, description and the
// dhcp flag. CNAMEs live in hms_alias. All statements are parameter bound.
package inventory

import "context"

// HostRecord is one address row. Host is empty for a free address.
type HostRecord struct {
	Host        string
	IP          string
	MAC         string
	Description string
	DHCP        bool
}

// Assigned reports whether the address belongs to a host.
func (h HostRecord) Assigned() bool {
	return h.Host != ""
}

// AliasRecord is a CNAME from Alias to Target.
type AliasRecord struct {
	Alias  string
	Target string
}

// Reader supplies the records a publish run renders from.
type Reader interface {
	// ListHosts returns assigned hosts in store order. A non-empty wildcard
	// keeps only addresses matching it with SQL LIKE rules.
	ListHosts(ctx context.Context, wildcard string) ([]HostRecord, error)
	// ListAliases returns every alias in store order.
	ListAliases(ctx context.Context) ([]AliasRecord, error)
}
