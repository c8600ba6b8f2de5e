package zone

import (
	"strings"

	"github.com/catalystcommunity/hms/internal/inventory"
)

// ForwardInput carries everything the forward zone is built from.
type ForwardInput struct {
	Domain      string
	NameServers []string
	Serial      string
	// Static is the optional fixed fragment, empty when the file is absent
	Static  string
	Aliases []inventory.AliasRecord
	Hosts   []inventory.HostRecord
}

// BuildForward assembles the forward zone: SOA, NS records, the static
// fragment, one CNAME per alias and one A per assigned host. Aliases and hosts
// keep the order they were supplied in.
func BuildForward(in ForwardInput) *File {
	domain := strings.TrimSuffix(in.Domain, ".")

	primary := "ns1." + domain
	if len(in.NameServers) > 0 {
		primary = in.NameServers[0]
	}

	f := &File{
		Origin:      domain,
		Serial:      in.Serial,
		PrimaryNS:   primary,
		Contact:     "hostmaster." + domain,
		NameServers: in.NameServers,
		Static:      in.Static,
		Records:     make([]Record, 0, len(in.Aliases)+len(in.Hosts)),
	}

	for _, a := range in.Aliases {
		f.Records = append(f.Records, Record{Name: a.Alias, Type: "CNAME", Data: fqdn(a.Target)})
	}
	for _, h := range in.Hosts {
		if !h.Assigned() {
			continue
		}
		f.Records = append(f.Records, Record{Name: h.Host, Type: "A", Data: h.IP})
	}

	return f
}
