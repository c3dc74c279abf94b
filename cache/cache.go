// Package cache keeps track of previously generated artifacts so that
// unchanged sources can be skipped on subsequent runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `CREATE TABLE IF NOT EXISTS artifacts (
	pkg_path  TEXT NOT NULL,
	type_name TEXT NOT NULL,
	digest    TEXT NOT NULL,
	kind      TEXT NOT NULL,
	output    TEXT NOT NULL,
	version   TEXT NOT NULL,
	run_id    TEXT NOT NULL DEFAULT '',
	stamp     INTEGER NOT NULL,
	PRIMARY KEY (pkg_path, type_name)
)`

// Cache is a single-connection sqlite database mapping annotated types to
// their last generated artifacts.
// NOTE: presently not to be used concurrently!
type Cache struct {
	conn *sqlite.Conn
}

// Entry describes one generated artifact.
type Entry struct {
	PkgPath  string
	TypeName string
	Digest   string
	Kind     string
	Output   string
	Version  string
	Run      string // id of the generation run that produced the artifact
	Stamp    time.Time
}

// Open opens (creating when necessary) cache database at path.
func Open(path string) (*Cache, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("unable to open generation cache (%s): %w", path, err)
	}
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare generation cache schema: %w", err)
	}
	return &Cache{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if c == nil || c.conn == nil {
		// Ignore uninitialized cases to avoid checking in many places. This means no cache has been requested.
		return nil
	}
	return c.conn.Close()
}

// Lookup returns the stored entry for the type or nil when none exists.
func (c *Cache) Lookup(pkgPath, typeName string) (*Entry, error) {
	if c == nil || c.conn == nil {
		return nil, nil
	}

	var e *Entry
	err := sqlitex.Execute(c.conn,
		`SELECT digest, kind, output, version, run_id, stamp FROM artifacts WHERE pkg_path = ? AND type_name = ?`,
		&sqlitex.ExecOptions{
			Args: []any{pkgPath, typeName},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				e = &Entry{
					PkgPath:  pkgPath,
					TypeName: typeName,
					Digest:   stmt.ColumnText(0),
					Kind:     stmt.ColumnText(1),
					Output:   stmt.ColumnText(2),
					Version:  stmt.ColumnText(3),
					Run:      stmt.ColumnText(4),
					Stamp:    time.Unix(stmt.ColumnInt64(5), 0),
				}
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to query generation cache: %w", err)
	}
	return e, nil
}

// Store saves or replaces the entry for its type.
func (c *Cache) Store(e *Entry) error {
	if c == nil || c.conn == nil {
		return nil
	}

	stamp := e.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	err := sqlitex.Execute(c.conn,
		`INSERT INTO artifacts (pkg_path, type_name, digest, kind, output, version, run_id, stamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (pkg_path, type_name) DO UPDATE SET
				digest = excluded.digest, kind = excluded.kind, output = excluded.output,
				version = excluded.version, run_id = excluded.run_id, stamp = excluded.stamp`,
		&sqlitex.ExecOptions{
			Args: []any{e.PkgPath, e.TypeName, e.Digest, e.Kind, e.Output, e.Version, e.Run, stamp.Unix()},
		})
	if err != nil {
		return fmt.Errorf("unable to update generation cache: %w", err)
	}
	return nil
}

// List returns all entries ordered by package path and type name.
func (c *Cache) List() ([]Entry, error) {
	if c == nil || c.conn == nil {
		return nil, nil
	}

	var entries []Entry
	err := sqlitex.Execute(c.conn,
		`SELECT pkg_path, type_name, digest, kind, output, version, run_id, stamp FROM artifacts ORDER BY pkg_path, type_name`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entries = append(entries, Entry{
					PkgPath:  stmt.ColumnText(0),
					TypeName: stmt.ColumnText(1),
					Digest:   stmt.ColumnText(2),
					Kind:     stmt.ColumnText(3),
					Output:   stmt.ColumnText(4),
					Version:  stmt.ColumnText(5),
					Run:      stmt.ColumnText(6),
					Stamp:    time.Unix(stmt.ColumnInt64(7), 0),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to query generation cache: %w", err)
	}
	return entries, nil
}

// Prune drops entries whose output files no longer exist and reports how
// many were removed.
func (c *Cache) Prune() (int, error) {
	entries, err := c.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if _, err := os.Stat(e.Output); err == nil {
			continue
		}
		err := sqlitex.Execute(c.conn,
			`DELETE FROM artifacts WHERE pkg_path = ? AND type_name = ?`,
			&sqlitex.ExecOptions{Args: []any{e.PkgPath, e.TypeName}})
		if err != nil {
			return removed, fmt.Errorf("unable to prune generation cache: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Reset empties the cache.
func (c *Cache) Reset() error {
	if c == nil || c.conn == nil {
		return nil
	}
	if err := sqlitex.ExecuteTransient(c.conn, `DELETE FROM artifacts`, nil); err != nil {
		return fmt.Errorf("unable to reset generation cache: %w", err)
	}
	return nil
}

// Digest produces the cache key content hash over any number of inputs.
func Digest(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
