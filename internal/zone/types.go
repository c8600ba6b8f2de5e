package zone

import (
	"fmt"
	"io"
	"strings"
)

const (
	// SOA timing constants shared by every zone hms renders
	DefaultRefresh     = 1200
	DefaultRetry       = 600
	DefaultExpire      = 1209600
	DefaultNegativeTTL = 3600

	// DefaultTTL is written as $TTL at the top of every zone
	DefaultTTL = 3600

	// Reverse zones are not served from the forward primary, so their SOA names a
	// local placeholder instead.
	ReversePrimary = "localhost"
	ReverseContact = "root.localhost"
)

// Spec names a zone and where its file lives on each name server.
type Spec struct {
	Name string
	Dest string
}

// ReverseSpec is a reverse zone with an optional address wildcard. An empty
// Wildcard selects every assigned address.
type ReverseSpec struct {
	Spec
	Wildcard string
}

// Record is a single resource record line in master-file form.
type Record struct {
	Name string
	Type string
	Data string
}

// String renders the record as "name IN TYPE data".
func (r Record) String() string {
	return fmt.Sprintf("%s IN %s %s", r.Name, r.Type, r.Data)
}

// File is a rendered zone: SOA header values, NS list, an optional static
// fragment, then the body records in the order they were added.
type File struct {
	// Origin is the zone name without trailing dot
	Origin      string
	Serial      string
	PrimaryNS   string
	Contact     string
	NameServers []string
	// Static is copied verbatim between the NS records and the body
	Static  string
	Records []Record
}

// SOA returns the start of authority record of the zone.
func (f *File) SOA() Record {
	return Record{
		Name: "@",
		Type: "SOA",
		Data: fmt.Sprintf("%s %s ( %s %d %d %d %d )",
			fqdn(f.PrimaryNS),
			fqdn(f.Contact),
			f.Serial,
			DefaultRefresh,
			DefaultRetry,
			DefaultExpire,
			DefaultNegativeTTL,
		),
	}
}

// NS returns one NS record per configured name server.
func (f *File) NS() []Record {
	records := make([]Record, 0, len(f.NameServers))
	for _, ns := range f.NameServers {
		records = append(records, Record{Name: "@", Type: "NS", Data: fqdn(ns)})
	}
	return records
}

// WriteTo writes the zone in master-file format.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "$ORIGIN %s\n", fqdn(f.Origin))
	fmt.Fprintf(&b, "$TTL %d\n", DefaultTTL)
	fmt.Fprintln(&b, f.SOA())
	for _, ns := range f.NS() {
		fmt.Fprintln(&b, ns)
	}
	if f.Static != "" {
		b.WriteString(f.Static)
		if !strings.HasSuffix(f.Static, "\n") {
			b.WriteString("\n")
		}
	}
	for _, rr := range f.Records {
		fmt.Fprintln(&b, rr)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// String returns the full zone text.
func (f *File) String() string {
	var b strings.Builder
	_, _ = f.WriteTo(&b)
	return b.String()
}

// fqdn appends the root dot when missing
func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}
