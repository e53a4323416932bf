// Package storage implements the persistence layer on top of Postgres.
//
// All operations take a context and run against a narrow DB seam satisfied
// by *sqlx.DB, which keeps the methods testable without a live database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no rows.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidStatField is returned for counter names outside the fixed set.
	ErrInvalidStatField = errors.New("storage: invalid stat field")
)

// statColumns maps allowed stat field names to their column names.
// Lookup through this map is what keeps field names out of SQL text.
var statColumns = map[string]string{
	"searched": "searched",
	"viewed":   "viewed",
}

// Tx is the transactional subset used by multi-statement operations.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Commit() error
	Rollback() error
}

// DB is the subset of *sqlx.DB the storage layer depends on.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

// sqlxConn adapts *sqlx.DB to the DB seam; BeginTxx returns the concrete
// *sqlx.Tx, which satisfies Tx.
type sqlxConn struct{ *sqlx.DB }

func (c sqlxConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return c.DB.BeginTxx(ctx, opts)
}

// Code is a movie/anime entry addressed by its numeric code.
type Code struct {
	Code        int            `db:"code"`
	Title       *string        `db:"title"`
	Channel     *string        `db:"channel"`
	MessageID   *int           `db:"message_id"`
	PostCount   *int           `db:"post_count"`
	Parts       *int           `db:"parts"`
	Status      *string        `db:"status"`
	Voice       *string        `db:"voice"`
	Genres      pq.StringArray `db:"genres"`
	VideoFileID *string        `db:"video_file_id"`
	Caption     *string        `db:"caption"`
}

// Stat holds per-code usage counters.
type Stat struct {
	Code     int `db:"code"`
	Searched int `db:"searched"`
	Viewed   int `db:"viewed"`
}

// CommandDef is a registered panel command.
type CommandDef struct {
	ID          int       `db:"id"`
	Panel       string    `db:"panel"`
	SubPanel    string    `db:"sub_panel"`
	Name        string    `db:"command_name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Storage provides typed access to the bot's Postgres tables.
type Storage struct {
	db DB
}

// New wraps the given database handle.
func New(db *sqlx.DB) *Storage {
	return newStorage(sqlxConn{db})
}

func newStorage(db DB) *Storage {
	return &Storage{db: db}
}
