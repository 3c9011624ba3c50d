// Package cache keeps compiled rules between runs so incremental callers do
// not have to recompile tokens they have already seen. Rules are stored per
// configuration fingerprint, a change of configuration never serves stale
// rules.
package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"twc/css"
)

// MemoryPath opens private in-memory database.
const MemoryPath = ":memory:"

const schemaVersion = "1"

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rules (
	fingerprint TEXT NOT NULL,
	token       TEXT NOT NULL,
	payload     BLOB NOT NULL,
	PRIMARY KEY (fingerprint, token)
);
`

// Store is sqlite backed rule cache. Nil *Store is valid and behaves as
// disabled cache: lookups find nothing and writes are dropped. Store is safe
// for concurrent use, access to the connection is serialized.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
	log  *zap.Logger
}

// Open opens (creating when necessary) cache database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL}
	if path == MemoryPath {
		flags = []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenMemory}
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}

	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("open cache %q: %w", path, err)
	}

	s := &Store{conn: conn, path: path, log: log.Named("cache")}
	if err := s.prepare(); err != nil {
		conn.Close()
		return nil, err
	}
	s.log.Debug("Cache opened", zap.String("path", path))
	return s, nil
}

// prepare creates schema, dropping rules written by incompatible version.
func (s *Store) prepare() error {
	if err := sqlitex.ExecuteScript(s.conn, schema, nil); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}

	var version string
	err := sqlitex.Execute(s.conn, `SELECT value FROM meta WHERE key = 'schema'`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			version = stmt.ColumnText(0)
			return nil
		}})
	if err != nil {
		return fmt.Errorf("read cache schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}
	if version != "" {
		s.log.Info("Cache schema changed, dropping cached rules", zap.String("was", version), zap.String("now", schemaVersion))
		if err := sqlitex.Execute(s.conn, `DELETE FROM rules`, nil); err != nil {
			return fmt.Errorf("reset cache: %w", err)
		}
	}
	err = sqlitex.Execute(s.conn, `INSERT OR REPLACE INTO meta (key, value) VALUES ('schema', ?)`,
		&sqlitex.ExecOptions{Args: []any{schemaVersion}})
	if err != nil {
		return fmt.Errorf("write cache schema version: %w", err)
	}
	return nil
}

// Path returns database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Lookup returns cached rules for tokens under fingerprint. Tokens which are
// not cached are absent from the result. Undecodable entries are treated as
// misses.
func (s *Store) Lookup(fingerprint string, tokens []string) (map[string]css.Rule, error) {
	if s == nil || len(tokens) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	found := make(map[string]css.Rule)
	for _, token := range tokens {
		err := sqlitex.Execute(s.conn, `SELECT payload FROM rules WHERE fingerprint = ? AND token = ?`,
			&sqlitex.ExecOptions{
				Args: []any{fingerprint, token},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					payload, err := io.ReadAll(stmt.ColumnReader(0))
					if err != nil {
						return err
					}
					var rule css.Rule
					if err := msgpack.Unmarshal(payload, &rule); err != nil {
						s.log.Debug("Ignoring undecodable cache entry", zap.String("token", token), zap.Error(err))
						return nil
					}
					found[token] = rule
					return nil
				},
			})
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", token, err)
		}
	}
	return found, nil
}

// Store writes rules under fingerprint keyed by rule class in a single
// savepoint: either all rules are written or none.
func (s *Store) Store(fingerprint string, rules []css.Rule) (err error) {
	if s == nil || len(rules) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	defer sqlitex.Save(s.conn)(&err)

	for _, rule := range rules {
		if rule.Class == "" {
			return errors.New("rule without class cannot be cached")
		}
		payload, err := msgpack.Marshal(&rule)
		if err != nil {
			return fmt.Errorf("encode rule %q: %w", rule.Class, err)
		}
		err = sqlitex.Execute(s.conn, `INSERT OR REPLACE INTO rules (fingerprint, token, payload) VALUES (?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{fingerprint, rule.Class, payload}})
		if err != nil {
			return fmt.Errorf("store rule %q: %w", rule.Class, err)
		}
	}
	return nil
}

// Count returns number of rules cached under fingerprint.
func (s *Store) Count(fingerprint string) (int, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := sqlitex.Execute(s.conn, `SELECT count(*) FROM rules WHERE fingerprint = ?`,
		&sqlitex.ExecOptions{
			Args: []any{fingerprint},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n = stmt.ColumnInt(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("count rules: %w", err)
	}
	return n, nil
}

// Purge removes all rules cached under fingerprint.
func (s *Store) Purge(fingerprint string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := sqlitex.Execute(s.conn, `DELETE FROM rules WHERE fingerprint = ?`,
		&sqlitex.ExecOptions{Args: []any{fingerprint}}); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	s.log.Debug("Cache purged", zap.String("fingerprint", fingerprint), zap.Int("changes", s.conn.Changes()))
	return nil
}

// Close closes database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
