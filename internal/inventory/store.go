package inventory

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/catalystcommunity/hms/internal/errs"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

// Store is the SQLite-backed inventory.
type Store struct {
	conn *sql.DB
}

// Open opens or creates the inventory database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &errs.StoreQueryError{Op: "open", Err: err}
	}

	// hms is a single-shot CLI; one connection keeps ":memory:" databases coherent
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, &errs.StoreQueryError{Op: "initialize schema", Err: err}
	}

	return &Store{conn: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

const (
	hostColumns = `host, ip, mac, descr, dhcp`

	listHostsQuery = `SELECT ` + hostColumns + ` FROM hms_ip
		WHERE host IS NOT NULL
		ORDER BY rowid`

	listHostsLikeQuery = `SELECT ` + hostColumns + ` FROM hms_ip
		WHERE host IS NOT NULL AND ip LIKE ?
		ORDER BY rowid`

	listAliasesQuery = `SELECT alias, target FROM hms_alias ORDER BY rowid`
)

// ListHosts implements Reader.
func (s *Store) ListHosts(ctx context.Context, wildcard string) ([]HostRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if wildcard == "" {
		rows, err = s.conn.QueryContext(ctx, listHostsQuery)
	} else {
		rows, err = s.conn.QueryContext(ctx, listHostsLikeQuery, wildcard)
	}
	if err != nil {
		return nil, &errs.StoreQueryError{Op: "list hosts", Err: err}
	}
	defer rows.Close()

	var hosts []HostRecord
	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, &errs.StoreQueryError{Op: "list hosts", Err: err}
		}
		hosts = append(hosts, h)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.StoreQueryError{Op: "list hosts", Err: err}
	}

	return hosts, nil
}

// ListAliases implements Reader.
func (s *Store) ListAliases(ctx context.Context) ([]AliasRecord, error) {
	rows, err := s.conn.QueryContext(ctx, listAliasesQuery)
	if err != nil {
		return nil, &errs.StoreQueryError{Op: "list aliases", Err: err}
	}
	defer rows.Close()

	var aliases []AliasRecord
	for rows.Next() {
		var a AliasRecord
		if err := rows.Scan(&a.Alias, &a.Target); err != nil {
			return nil, &errs.StoreQueryError{Op: "list aliases", Err: err}
		}
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.StoreQueryError{Op: "list aliases", Err: err}
	}

	return aliases, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHost(row scanner) (HostRecord, error) {
	var h HostRecord
	var host, mac, descr sql.NullString
	var dhcp string
	if err := row.Scan(&host, &h.IP, &mac, &descr, &dhcp); err != nil {
		return HostRecord{}, err
	}
	h.Host = host.String
	h.MAC = mac.String
	h.Description = descr.String
	h.DHCP = dhcp == "Y"
	return h, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dhcpFlag(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
