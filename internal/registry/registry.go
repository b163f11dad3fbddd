// Package registry stores assembled programs in a SQLite database so they
// can be launched later by name. The bytecode column holds the program in
// its wire encoding; decoding it restores exactly the stream that was
// assembled.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/stackvm/internal/bytecode"
)

var (
	ErrNotFound      = errors.New("program not found")
	ErrDuplicateName = errors.New("program name already taken")
)

// Program is one stored, fully assembled program.
type Program struct {
	ID        string
	Name      string
	Source    string
	Words     []int64
	CreatedAt time.Time
}

// Registry is a handle to the program store. Safe for use from a single
// process; SQLite serializes writers.
type Registry struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS programs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	bytecode   BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Open creates or opens the registry database at path.
func Open(ctx context.Context, path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init registry schema: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close releases the database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Save stores an assembled program under a unique name.
func (r *Registry) Save(ctx context.Context, name, source string, words []int64) (*Program, error) {
	prog := &Program{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		Words:     words,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO programs (id, name, source, bytecode, created_at) VALUES (?, ?, ?, ?, ?)`,
		prog.ID, prog.Name, prog.Source, bytecode.Encode(words), prog.CreatedAt.Unix(),
	)
	if err != nil {
		// UNIQUE on name is the only constraint on this table; anything
		// else (cancelled context, locked database, full disk) keeps its
		// underlying cause.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("save program: %w", err)
	}
	return prog, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Get loads a program by name.
func (r *Registry) Get(ctx context.Context, name string) (*Program, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, source, bytecode, created_at FROM programs WHERE name = ?`, name)
	return scanProgram(row)
}

// List returns all stored programs, newest first.
func (r *Registry) List(ctx context.Context) ([]*Program, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, source, bytecode, created_at FROM programs ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var progs []*Program
	for rows.Next() {
		prog, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		progs = append(progs, prog)
	}
	return progs, rows.Err()
}

// Delete removes a program by name.
func (r *Registry) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*Program, error) {
	var (
		prog      Program
		encoded   []byte
		createdAt int64
	)
	if err := row.Scan(&prog.ID, &prog.Name, &prog.Source, &encoded, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan program: %w", err)
	}

	words, err := bytecode.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("stored bytecode for %q is corrupt: %w", prog.Name, err)
	}
	prog.Words = words
	prog.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &prog, nil
}
