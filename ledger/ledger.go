// Package ledger persists capture sessions in SQLite so a later process can
// learn which classes are already present in pre-rendered output.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"stylo/registry"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id      TEXT PRIMARY KEY,
	created INTEGER NOT NULL,
	css     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS identifiers (
	session    TEXT NOT NULL REFERENCES sessions(id),
	seq        INTEGER NOT NULL,
	identifier TEXT NOT NULL,
	PRIMARY KEY (session, seq)
);
CREATE INDEX IF NOT EXISTS identifiers_by_name ON identifiers(identifier);
`

// Ledger is a SQLite database of recorded captures. A single connection is
// shared under a mutex.
type Ledger struct {
	log  *zap.Logger
	mu   sync.Mutex
	conn *sqlite.Conn
}

// Open opens or creates ledger database at path.
func Open(path string, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open ledger %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare ledger schema: %w", err)
	}
	l := &Ledger{log: log.Named("ledger"), conn: conn}
	l.log.Debug("Ledger opened", zap.String("path", path))
	return l, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.Close()
}

// Record stores a capture session. Captures without classes are skipped.
func (l *Ledger) Record(ctx context.Context, c registry.Capture) (err error) {
	if len(c.Identifiers) == 0 {
		l.log.Debug("Nothing to record", zap.String("session", c.Session))
		return nil
	}
	if c.Session == "" {
		return fmt.Errorf("capture has no session id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.conn.SetInterrupt(l.conn.SetInterrupt(ctx.Done()))

	defer sqlitex.Save(l.conn)(&err)

	if err = sqlitex.Execute(l.conn, `INSERT INTO sessions (id, created, css) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{c.Session, time.Now().UnixNano(), c.CSS}}); err != nil {
		return fmt.Errorf("record session %s: %w", c.Session, err)
	}
	for i, id := range c.Identifiers {
		if err = sqlitex.Execute(l.conn, `INSERT INTO identifiers (session, seq, identifier) VALUES (?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{c.Session, i, id}}); err != nil {
			return fmt.Errorf("record identifier %s: %w", id, err)
		}
	}
	l.log.Debug("Recorded capture", zap.String("session", c.Session), zap.Int("classes", len(c.Identifiers)))
	return nil
}

// Identifiers returns every recorded class name once, in order of first
// recording.
func (l *Ledger) Identifiers(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.conn.SetInterrupt(l.conn.SetInterrupt(ctx.Done()))

	var ids []string
	err := sqlitex.Execute(l.conn, `
SELECT identifier FROM identifiers
GROUP BY identifier
ORDER BY MIN(rowid)`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			ids = append(ids, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("read identifiers: %w", err)
	}
	return ids, nil
}

// Stylesheet returns CSS of all recorded sessions concatenated in
// recording order.
func (l *Ledger) Stylesheet(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.conn.SetInterrupt(l.conn.SetInterrupt(ctx.Done()))

	var css []byte
	err := sqlitex.Execute(l.conn, `SELECT css FROM sessions ORDER BY rowid`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			css = append(css, stmt.ColumnText(0)...)
			return nil
		}})
	if err != nil {
		return "", fmt.Errorf("read stylesheet: %w", err)
	}
	return string(css), nil
}

// Sessions returns number of recorded sessions.
func (l *Ledger) Sessions(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.conn.SetInterrupt(l.conn.SetInterrupt(ctx.Done()))

	var n int
	err := sqlitex.Execute(l.conn, `SELECT count(*) FROM sessions`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			n = stmt.ColumnInt(0)
			return nil
		}})
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
