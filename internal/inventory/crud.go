package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/catalystcommunity/hms/internal/errs"
)

// Sentinels for rejected changes. Both wrap errs.ErrConflict.
var (
	ErrInUse    = fmt.Errorf("already in use: %w", errs.ErrConflict)
	ErrNotFound = fmt.Errorf("not found: %w", errs.ErrConflict)
)

// MaxPoolSize bounds how many addresses AddPool seeds in one call (a /16).
const MaxPoolSize = 1 << 16

// Changes lists the fields ModifyHost updates. Nil fields are left alone.
type Changes struct {
	Description *string
	MAC         *string
	DHCP        *bool
}

// Empty reports whether no field is set.
func (c Changes) Empty() bool {
	return c.Description == nil && c.MAC == nil && c.DHCP == nil
}

// txQuerier is satisfied by *sql.DB and *sql.Tx
type txQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AddHost assigns an address to a new host. When h.IP is empty the first free
// address is used. The assigned record is returned.
func (s *Store) AddHost(ctx context.Context, h HostRecord) (HostRecord, error) {
	if h.DHCP && h.MAC == "" {
		return HostRecord{}, fmt.Errorf("cannot use DHCP without a MAC")
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if h.MAC != "" {
		if err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_ip WHERE mac = ?", h.MAC); err != nil {
			return HostRecord{}, fmt.Errorf("MAC %s: %w", h.MAC, err)
		}
	}
	if err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_ip WHERE host = ?", h.Host); err != nil {
		return HostRecord{}, fmt.Errorf("host %s: %w", h.Host, err)
	}

	if h.IP == "" {
		err := tx.QueryRowContext(ctx, "SELECT ip FROM hms_ip WHERE host IS NULL ORDER BY rowid LIMIT 1").Scan(&h.IP)
		if errors.Is(err, sql.ErrNoRows) {
			return HostRecord{}, fmt.Errorf("no free addresses: %w", ErrNotFound)
		}
		if err != nil {
			return HostRecord{}, &errs.StoreQueryError{Op: "find free address", Err: err}
		}
	} else if err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_ip WHERE ip = ? AND host IS NOT NULL", h.IP); err != nil {
		return HostRecord{}, fmt.Errorf("address %s: %w", h.IP, err)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE hms_ip SET host = ?, mac = ?, descr = ?, dhcp = ? WHERE ip = ? AND host IS NULL",
		h.Host, nullable(h.MAC), nullable(h.Description), dhcpFlag(h.DHCP), h.IP)
	if err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "add host", Err: err}
	}
	if err := expectOneRow(res, "address "+h.IP); err != nil {
		return HostRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "commit", Err: err}
	}
	return h, nil
}

// ModifyHost updates description, MAC or DHCP flag of an existing host.
func (s *Store) ModifyHost(ctx context.Context, host string, c Changes) error {
	if c.Empty() {
		return fmt.Errorf("nothing to modify for host %s", host)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &errs.StoreQueryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	current, err := lookup(ctx, tx, "host", host)
	if err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	if c.MAC != nil {
		if *c.MAC != "" {
			err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_ip WHERE mac = ? AND host <> ?", *c.MAC, host)
			if err != nil {
				return fmt.Errorf("MAC %s: %w", *c.MAC, err)
			}
		}
		current.MAC = *c.MAC
		sets = append(sets, "mac = ?")
		args = append(args, nullable(*c.MAC))
	}
	if c.Description != nil {
		sets = append(sets, "descr = ?")
		args = append(args, nullable(*c.Description))
	}
	if c.DHCP != nil {
		current.DHCP = *c.DHCP
		sets = append(sets, "dhcp = ?")
		args = append(args, dhcpFlag(*c.DHCP))
	}
	if current.DHCP && current.MAC == "" {
		return fmt.Errorf("cannot use DHCP without a MAC")
	}

	args = append(args, host)
	res, err := tx.ExecContext(ctx, "UPDATE hms_ip SET "+strings.Join(sets, ", ")+" WHERE host = ?", args...)
	if err != nil {
		return &errs.StoreQueryError{Op: "modify host", Err: err}
	}
	if err := expectOneRow(res, "host "+host); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &errs.StoreQueryError{Op: "commit", Err: err}
	}
	return nil
}

// DeleteHost frees the address held by host, or the address ip. Exactly one
// of the two must be given.
func (s *Store) DeleteHost(ctx context.Context, host, ip string) (HostRecord, error) {
	column, value, err := oneOf(host, ip)
	if err != nil {
		return HostRecord{}, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	current, err := lookup(ctx, tx, column, value)
	if err != nil {
		return HostRecord{}, err
	}
	if !current.Assigned() {
		return HostRecord{}, fmt.Errorf("address %s is not in use: %w", current.IP, ErrNotFound)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE hms_ip SET host = NULL, descr = NULL, mac = NULL, dhcp = 'N' WHERE ip = ? AND host IS NOT NULL",
		current.IP)
	if err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "delete host", Err: err}
	}
	if err := expectOneRow(res, "address "+current.IP); err != nil {
		return HostRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "commit", Err: err}
	}
	return current, nil
}

// RenameHost changes the name of an existing host.
func (s *Store) RenameHost(ctx context.Context, from, to string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &errs.StoreQueryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if _, err := lookup(ctx, tx, "host", from); err != nil {
		return err
	}
	if err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_ip WHERE host = ?", to); err != nil {
		return fmt.Errorf("host %s: %w", to, err)
	}

	res, err := tx.ExecContext(ctx, "UPDATE hms_ip SET host = ? WHERE host = ?", to, from)
	if err != nil {
		return &errs.StoreQueryError{Op: "rename host", Err: err}
	}
	if err := expectOneRow(res, "host "+from); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &errs.StoreQueryError{Op: "commit", Err: err}
	}
	return nil
}

// Lookup returns the row for a host name or an address. Exactly one of the
// two must be given.
func (s *Store) Lookup(ctx context.Context, host, ip string) (HostRecord, error) {
	column, value, err := oneOf(host, ip)
	if err != nil {
		return HostRecord{}, err
	}
	return lookup(ctx, s.conn, column, value)
}

// FreeList returns every unassigned address in store order.
func (s *Store) FreeList(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT ip FROM hms_ip WHERE host IS NULL ORDER BY rowid")
	if err != nil {
		return nil, &errs.StoreQueryError{Op: "free list", Err: err}
	}
	defer rows.Close()

	var free []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, &errs.StoreQueryError{Op: "free list", Err: err}
		}
		free = append(free, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.StoreQueryError{Op: "free list", Err: err}
	}
	return free, nil
}

// AddPool seeds every usable address of prefix as free. Network and broadcast
// addresses are skipped for prefixes shorter than /31. Addresses already known
// are left untouched. It returns how many addresses were added.
func (s *Store) AddPool(ctx context.Context, prefix netip.Prefix) (int, error) {
	prefix = prefix.Masked()
	if !prefix.Addr().Is4() {
		return 0, fmt.Errorf("%s is not an IPv4 prefix", prefix)
	}
	size := 1 << (32 - prefix.Bits())
	if size > MaxPoolSize {
		return 0, fmt.Errorf("%s holds %d addresses, more than %d", prefix, size, MaxPoolSize)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, &errs.StoreQueryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO hms_ip (ip) VALUES (?)")
	if err != nil {
		return 0, &errs.StoreQueryError{Op: "prepare pool insert", Err: err}
	}
	defer stmt.Close()

	added := 0
	addr := prefix.Addr()
	for i := 0; i < size; i, addr = i+1, addr.Next() {
		if prefix.Bits() < 31 && (i == 0 || i == size-1) {
			continue
		}
		res, err := stmt.ExecContext(ctx, addr.String())
		if err != nil {
			return 0, &errs.StoreQueryError{Op: "add pool address " + addr.String(), Err: err}
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &errs.StoreQueryError{Op: "commit", Err: err}
	}
	return added, nil
}

// AddAlias creates a CNAME. The alias must not collide with an existing alias
// or host name.
func (s *Store) AddAlias(ctx context.Context, a AliasRecord) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return &errs.StoreQueryError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_alias WHERE alias = ?", a.Alias); err != nil {
		return fmt.Errorf("alias %s: %w", a.Alias, err)
	}
	if err := expectAbsent(ctx, tx, "SELECT 1 FROM hms_ip WHERE host = ?", a.Alias); err != nil {
		return fmt.Errorf("alias %s collides with a host: %w", a.Alias, err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO hms_alias (alias, target) VALUES (?, ?)", a.Alias, a.Target); err != nil {
		return &errs.StoreQueryError{Op: "add alias", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &errs.StoreQueryError{Op: "commit", Err: err}
	}
	return nil
}

// DeleteAlias removes a CNAME.
func (s *Store) DeleteAlias(ctx context.Context, alias string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM hms_alias WHERE alias = ?", alias)
	if err != nil {
		return &errs.StoreQueryError{Op: "delete alias", Err: err}
	}
	return expectOneRow(res, "alias "+alias)
}

func lookup(ctx context.Context, q txQuerier, column, value string) (HostRecord, error) {
	// column is always one of the two literals passed by this package
	query := "SELECT " + hostColumns + " FROM hms_ip WHERE " + column + " = ?"
	h, err := scanHost(q.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return HostRecord{}, fmt.Errorf("%s %s: %w", column, value, ErrNotFound)
	}
	if err != nil {
		return HostRecord{}, &errs.StoreQueryError{Op: "lookup " + column, Err: err}
	}
	return h, nil
}

func expectAbsent(ctx context.Context, q txQuerier, query string, args ...any) error {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return &errs.StoreQueryError{Op: "check usage", Err: err}
	}
	return ErrInUse
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.StoreQueryError{Op: "rows affected", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func oneOf(host, ip string) (string, string, error) {
	switch {
	case host != "" && ip != "":
		return "", "", fmt.Errorf("specify either a host or an address, not both")
	case host != "":
		return "host", host, nil
	case ip != "":
		return "ip", ip, nil
	}
	return "", "", fmt.Errorf("specify either a host or an address")
}
