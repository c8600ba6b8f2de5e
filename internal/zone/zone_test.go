package zone

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/catalystcommunity/hms/internal/inventory"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHosts = []inventory.HostRecord{
	{Host: "web", IP: "141.222.36.57"},
	{Host: "", IP: "141.222.36.58"},
	{Host: "db", IP: "141.222.37.9", MAC: "aabbccddeeff", DHCP: true},
	{Host: "lab", IP: "10.1.2.3", Description: "lab box"},
}

// parseZone parses rendered zone text and groups the records by type
func parseZone(t *testing.T, f *File) map[uint16][]dns.RR {
	t.Helper()

	origin := dns.Fqdn(f.Origin)
	parser := dns.NewZoneParser(strings.NewReader(f.String()), origin, "test")
	parser.SetDefaultTTL(DefaultTTL)

	byType := make(map[uint16][]dns.RR)
	for rr, ok := parser.Next(); ok; rr, ok = parser.Next() {
		byType[rr.Header().Rrtype] = append(byType[rr.Header().Rrtype], rr)
	}
	require.NoError(t, parser.Err())
	return byType
}

func TestSerial(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "afternoon", at: time.Date(2026, time.October, 19, 14, 5, 59, 0, time.UTC), want: "002610191405"},
		{name: "new year", at: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), want: "003001010000"},
		{name: "century wrap", at: time.Date(2000, time.February, 3, 4, 5, 0, 0, time.UTC), want: "000002030405"},
	}

	digits := regexp.MustCompile(`^[0-9]{12}$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serial(tt.at)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, digits, got)
		})
	}

	t.Run("same minute same serial", func(t *testing.T) {
		a := time.Date(2026, time.October, 19, 14, 5, 1, 0, time.UTC)
		b := a.Add(50 * time.Second)
		assert.Equal(t, Serial(a), Serial(b))
		assert.Less(t, Serial(a), Serial(b.Add(time.Minute)))
	})
}

func TestBuildForward(t *testing.T) {
	f := BuildForward(ForwardInput{
		Domain:      "example.org",
		NameServers: []string{"ns1.example.org", "ns2.example.org"},
		Serial:      "002610191405",
		Aliases: []inventory.AliasRecord{
			{Alias: "www", Target: "web.example.org"},
			{Alias: "files", Target: "db.example.org."},
		},
		Hosts: testHosts,
	})

	text := f.String()
	lines := strings.Split(strings.TrimSpace(text), "\n")

	assert.Equal(t, []string{
		"$ORIGIN example.org.",
		"$TTL 3600",
		"@ IN SOA ns1.example.org. hostmaster.example.org. ( 002610191405 1200 600 1209600 3600 )",
		"@ IN NS ns1.example.org.",
		"@ IN NS ns2.example.org.",
		"www IN CNAME web.example.org.",
		"files IN CNAME db.example.org.",
		"web IN A 141.222.36.57",
		"db IN A 141.222.37.9",
		"lab IN A 10.1.2.3",
	}, lines)

	rrs := parseZone(t, f)
	assert.Len(t, rrs[dns.TypeSOA], 1)
	assert.Len(t, rrs[dns.TypeNS], 2)
	assert.Len(t, rrs[dns.TypeCNAME], 2)
	require.Len(t, rrs[dns.TypeA], 3)
	assert.Equal(t, "web.example.org.", rrs[dns.TypeA][0].Header().Name)
	assert.Equal(t, uint32(2610191405), rrs[dns.TypeSOA][0].(*dns.SOA).Serial)
}

func TestBuildForward_StaticFragment(t *testing.T) {
	f := BuildForward(ForwardInput{
		Domain:      "example.org.",
		NameServers: []string{"ns1.example.org"},
		Serial:      "002610191405",
		Static:      "mail IN A 192.0.2.25\n@ IN MX 10 mail",
		Aliases:     []inventory.AliasRecord{{Alias: "www", Target: "web.example.org"}},
		Hosts:       []inventory.HostRecord{{Host: "web", IP: "192.0.2.80"}},
	})

	text := f.String()
	ns := strings.Index(text, "@ IN NS ns1.example.org.")
	static := strings.Index(text, "mail IN A 192.0.2.25\n@ IN MX 10 mail\n")
	cname := strings.Index(text, "www IN CNAME")
	a := strings.Index(text, "web IN A")

	require.True(t, ns >= 0 && static >= 0 && cname >= 0 && a >= 0, text)
	assert.Less(t, ns, static)
	assert.Less(t, static, cname)
	assert.Less(t, cname, a)

	require.NoError(t, Check(f))
}

func TestBuildForward_NoNameServers(t *testing.T) {
	f := BuildForward(ForwardInput{Domain: "example.org", Serial: "002610191405"})
	assert.Equal(t, "ns1.example.org", f.PrimaryNS)
	assert.Empty(t, f.NS())
	assert.Empty(t, f.Records)
}

func TestPTRKey(t *testing.T) {
	tests := []struct {
		ip      string
		want    string
		wantErr bool
	}{
		{ip: "141.222.36.57", want: "57.36"},
		{ip: "10.0.0.1", want: "1.0"},
		{ip: "192.168.255.254", want: "254.255"},
		{ip: "fd00::1", wantErr: true},
		{ip: "141.222.36", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			got, err := PTRKey(tt.ip)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPTR(t *testing.T) {
	rr, err := PTR(inventory.HostRecord{Host: "foo", IP: "141.222.36.57"}, "36.222.141")
	require.NoError(t, err)
	assert.Equal(t, "57.36 IN PTR foo.36.222.141.", rr.String())
}

func TestMatchWildcard(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"141.222.36.%", "141.222.36.57", true},
		{"141.222.36.%", "141.222.36.", true},
		{"141.222.36.%", "141.222.37.57", false},
		{"141.222.36.%", "141.222.3.6", false},
		{"%", "10.0.0.1", true},
		{"%.1", "10.0.0.1", true},
		{"%.1", "10.0.0.10", false},
		{"10.0.0._", "10.0.0.7", true},
		{"10.0.0._", "10.0.0.17", false},
		{"10.%.0.%", "10.20.0.9", true},
		{"10.%.0.%", "10.20.1.9", false},
		{"10.0.0.1", "10.0.0.1", true},
		{"10.0.0.1", "10.0.0.12", false},
		{"%%", "", true},
		{"_", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchWildcard(tt.pattern, tt.s))
		})
	}
}

func TestBuildReverse(t *testing.T) {
	t.Run("partitioned hosts", func(t *testing.T) {
		spec := ReverseSpec{Spec: Spec{Name: "222.141.in-addr.arpa", Dest: "/etc/bind/db.141.222"}, Wildcard: "141.222.36.%"}
		f, err := BuildReverse(ReverseInput{
			Spec:        spec,
			Domain:      "example.org",
			NameServers: []string{"ns1.example.org", "ns2.example.org"},
			Serial:      "002610191405",
			Hosts:       Partition([]ReverseSpec{spec}, testHosts)[0],
		})
		require.NoError(t, err)

		assert.Equal(t, []Record{{Name: "57.36", Type: "PTR", Data: "web.example.org."}}, f.Records)
		assert.Equal(t, "localhost", f.PrimaryNS)

		text := f.String()
		assert.Contains(t, text, "@ IN SOA localhost. root.localhost. ( 002610191405 1200 600 1209600 3600 )\n")
		assert.Contains(t, text, "@ IN NS ns2.example.org.\n")

		rrs := parseZone(t, f)
		require.Len(t, rrs[dns.TypePTR], 1)
		assert.Equal(t, "57.36.222.141.in-addr.arpa.", rrs[dns.TypePTR][0].Header().Name)
	})

	t.Run("no wildcard keeps every assigned host", func(t *testing.T) {
		f, err := BuildReverse(ReverseInput{
			Spec:   ReverseSpec{Spec: Spec{Name: "in-addr.arpa"}},
			Domain: "example.org",
			Serial: "002610191405",
			Hosts:  testHosts,
		})
		require.NoError(t, err)

		require.Len(t, f.Records, 3)
		assert.Equal(t, "57.36 IN PTR web.example.org.", f.Records[0].String())
		assert.Equal(t, "9.37 IN PTR db.example.org.", f.Records[1].String())
		assert.Equal(t, "3.2 IN PTR lab.example.org.", f.Records[2].String())
	})

	t.Run("wildcard is left to Partition", func(t *testing.T) {
		f, err := BuildReverse(ReverseInput{
			Spec:   ReverseSpec{Spec: Spec{Name: "2.0.192.in-addr.arpa"}, Wildcard: "192.0.2.%"},
			Domain: "example.org",
			Serial: "002610191405",
			Hosts:  testHosts,
		})
		require.NoError(t, err)
		assert.Len(t, f.Records, 3)
	})

	t.Run("malformed address", func(t *testing.T) {
		_, err := BuildReverse(ReverseInput{
			Spec:  ReverseSpec{Spec: Spec{Name: "in-addr.arpa"}},
			Hosts: []inventory.HostRecord{{Host: "bad", IP: "not-an-ip"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "host bad")
	})
}

func TestPartition(t *testing.T) {
	specs := []ReverseSpec{
		{Spec: Spec{Name: "36"}, Wildcard: "141.222.36.%"},
		{Spec: Spec{Name: "all-141"}, Wildcard: "141.222.%"},
		{Spec: Spec{Name: "everything"}},
		{Spec: Spec{Name: "none"}, Wildcard: "192.0.2.%"},
	}

	parts := Partition(specs, testHosts)
	require.Len(t, parts, 4)

	names := func(hosts []inventory.HostRecord) []string {
		out := []string{}
		for _, h := range hosts {
			out = append(out, h.Host)
		}
		return out
	}

	// overlapping wildcards place web in three zones
	assert.Equal(t, []string{"web"}, names(parts[0]))
	assert.Equal(t, []string{"web", "db"}, names(parts[1]))
	assert.Equal(t, []string{"web", "db", "lab"}, names(parts[2]))
	assert.Empty(t, parts[3])

	for i, spec := range specs {
		for _, h := range parts[i] {
			assert.True(t, spec.Wildcard == "" || MatchWildcard(spec.Wildcard, h.IP))
		}
	}
}

func TestIdempotentBodies(t *testing.T) {
	in := ForwardInput{
		Domain:      "example.org",
		NameServers: []string{"ns1.example.org"},
		Aliases:     []inventory.AliasRecord{{Alias: "www", Target: "web.example.org"}},
		Hosts:       testHosts,
	}

	in.Serial = "002610191405"
	first := BuildForward(in)
	in.Serial = "002610201405"
	second := BuildForward(in)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t,
		strings.Replace(first.String(), "002610191405", "002610201405", 1),
		second.String())
}

func TestCheck(t *testing.T) {
	good := BuildForward(ForwardInput{
		Domain:      "example.org",
		NameServers: []string{"ns1.example.org"},
		Serial:      "002610191405",
		Hosts:       testHosts,
	})
	require.NoError(t, Check(good))

	t.Run("broken static fragment", func(t *testing.T) {
		bad := *good
		bad.Static = "oops IN A not-an-address"
		assert.Error(t, Check(&bad))
	})

	t.Run("second SOA in fragment", func(t *testing.T) {
		bad := *good
		bad.Static = "@ IN SOA a. b. ( 1 2 3 4 5 )"
		err := Check(&bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one SOA")
	})

	t.Run("include is refused", func(t *testing.T) {
		bad := *good
		bad.Static = "$INCLUDE /etc/passwd"
		assert.Error(t, Check(&bad))
	})
}
