package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
)

type execCall struct {
	query string
	args  []interface{}
}

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// fakeDB records calls and returns canned responses.
type fakeDB struct {
	execCalls []execCall
	execErr   error
	execRows  int64

	getFn    func(dest interface{}, query string, args ...interface{}) error
	selectFn func(dest interface{}, query string, args ...interface{}) error

	txBeginErr  error
	txExecErrAt int // 1-based exec index inside a tx that fails; 0 = never
	txExecCalls []execCall
	txCommits   int
	txRollbacks int
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.execCalls = append(f.execCalls, execCall{query: query, args: args})
	if f.execErr != nil {
		return nil, f.execErr
	}
	return fakeResult{rows: f.execRows}, nil
}

func (f *fakeDB) GetContext(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	if f.getFn == nil {
		return sql.ErrNoRows
	}
	return f.getFn(dest, query, args...)
}

func (f *fakeDB) SelectContext(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	if f.selectFn == nil {
		return nil
	}
	return f.selectFn(dest, query, args...)
}

func (f *fakeDB) BeginTx(context.Context, *sql.TxOptions) (Tx, error) {
	if f.txBeginErr != nil {
		return nil, f.txBeginErr
	}
	return &fakeTx{db: f}, nil
}

// fakeTx records statements into its parent fakeDB.
type fakeTx struct {
	db        *fakeDB
	committed bool
}

func (t *fakeTx) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	t.db.txExecCalls = append(t.db.txExecCalls, execCall{query: query, args: args})
	if t.db.txExecErrAt == len(t.db.txExecCalls) {
		return nil, errors.New("fake: exec failed")
	}
	return fakeResult{rows: 1}, nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	t.db.txCommits++
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.committed {
		return sql.ErrTxDone
	}
	t.db.txRollbacks++
	return nil
}

func TestIncrementStatRejectsUnknownField(t *testing.T) {
	db := &fakeDB{}
	s := newStorage(db)

	err := s.IncrementStat(context.Background(), 7, "searched; DROP TABLE stats")
	if !errors.Is(err, ErrInvalidStatField) {
		t.Fatalf("expected ErrInvalidStatField, got %v", err)
	}
	if len(db.execCalls) != 0 {
		t.Fatalf("database touched despite invalid field: %d calls", len(db.execCalls))
	}
}

func TestIncrementStatUsesFixedColumns(t *testing.T) {
	for field, column := range map[string]string{"searched": "searched", "viewed": "viewed"} {
		db := &fakeDB{execRows: 1}
		s := newStorage(db)

		if err := s.IncrementStat(context.Background(), 42, field); err != nil {
			t.Fatalf("IncrementStat(%q): %v", field, err)
		}
		if len(db.execCalls) != 1 {
			t.Fatalf("expected one exec, got %d", len(db.execCalls))
		}
		got := db.execCalls[0]
		if !strings.Contains(got.query, column+" = "+column+" + 1") {
			t.Errorf("query %q does not increment column %q", got.query, column)
		}
		if len(got.args) != 1 || got.args[0] != 42 {
			t.Errorf("unexpected args: %v", got.args)
		}
	}
}

func TestUpsertCodeRunsBothStatementsInOneTx(t *testing.T) {
	db := &fakeDB{}
	s := newStorage(db)

	title := "Naruto"
	err := s.UpsertCode(context.Background(), Code{Code: 12, Title: &title})
	if err != nil {
		t.Fatalf("UpsertCode: %v", err)
	}
	if len(db.execCalls) != 0 {
		t.Fatalf("statements ran outside the transaction: %d", len(db.execCalls))
	}
	if len(db.txExecCalls) != 2 {
		t.Fatalf("expected 2 tx statements, got %d", len(db.txExecCalls))
	}
	if db.txCommits != 1 {
		t.Fatalf("expected one commit, got %d", db.txCommits)
	}

	upsert := db.txExecCalls[0].query
	if !strings.Contains(upsert, "INSERT INTO kino_codes") ||
		!strings.Contains(upsert, "ON CONFLICT (code) DO UPDATE") {
		t.Errorf("first statement is not the code upsert: %q", upsert)
	}
	statInsert := db.txExecCalls[1].query
	if !strings.Contains(statInsert, "INSERT INTO stats") {
		t.Errorf("second statement is not the stats insert: %q", statInsert)
	}
	if db.txExecCalls[1].args[0] != 12 {
		t.Errorf("stats row keyed by %v, want 12", db.txExecCalls[1].args[0])
	}
}

func TestUpsertCodeOverwritesEveryMutableColumn(t *testing.T) {
	db := &fakeDB{}
	s := newStorage(db)

	if err := s.UpsertCode(context.Background(), Code{Code: 3}); err != nil {
		t.Fatalf("UpsertCode: %v", err)
	}

	// Last write wins: the conflict branch must replace every column that is
	// not the key, so a repeat upsert never leaves a partial merge.
	upsert := db.txExecCalls[0].query
	for _, col := range []string{
		"channel", "message_id", "post_count", "title", "parts",
		"status", "voice", "genres", "video_file_id", "caption",
	} {
		if !strings.Contains(upsert, col+" ") && !strings.Contains(upsert, col+" =") {
			t.Errorf("column %q missing from upsert", col)
		}
		if !strings.Contains(upsert, "EXCLUDED."+col) {
			t.Errorf("column %q not overwritten from EXCLUDED", col)
		}
	}
}

func TestUpsertCodeNeverResetsCounters(t *testing.T) {
	db := &fakeDB{}
	s := newStorage(db)

	for i := 0; i < 2; i++ {
		if err := s.UpsertCode(context.Background(), Code{Code: 5}); err != nil {
			t.Fatalf("UpsertCode #%d: %v", i+1, err)
		}
	}

	if len(db.txExecCalls) != 4 {
		t.Fatalf("expected 4 tx statements over two upserts, got %d", len(db.txExecCalls))
	}
	for _, i := range []int{1, 3} {
		q := db.txExecCalls[i].query
		if !strings.Contains(q, "ON CONFLICT DO NOTHING") {
			t.Errorf("stats insert %d is not conflict-safe: %q", i, q)
		}
		if strings.Contains(q, "searched") || strings.Contains(q, "viewed") {
			t.Errorf("stats insert %d touches counters: %q", i, q)
		}
	}
}

func TestUpsertCodeRollsBackWhenStatInsertFails(t *testing.T) {
	db := &fakeDB{txExecErrAt: 2}
	s := newStorage(db)

	err := s.UpsertCode(context.Background(), Code{Code: 9})
	if err == nil {
		t.Fatal("expected error when the stats insert fails")
	}
	if db.txCommits != 0 {
		t.Errorf("transaction committed despite failure")
	}
	if db.txRollbacks == 0 {
		t.Errorf("transaction not rolled back")
	}
}

func TestStatsRowCascadesWithCode(t *testing.T) {
	schema, err := os.ReadFile("../../migrations/000001_init_schema.up.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	// Deleting a code must take its counters with it; the schema owns that.
	if !strings.Contains(string(schema), "ON DELETE CASCADE") {
		t.Error("stats foreign key does not cascade on code deletion")
	}
}

func TestDeleteCodeReportsAffectedRow(t *testing.T) {
	db := &fakeDB{execRows: 1}
	s := newStorage(db)

	deleted, err := s.DeleteCode(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteCode: %v", err)
	}
	if !deleted {
		t.Error("expected deleted=true for affected row")
	}

	db = &fakeDB{execRows: 0}
	s = newStorage(db)
	deleted, err = s.DeleteCode(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteCode: %v", err)
	}
	if deleted {
		t.Error("expected deleted=false when nothing matched")
	}
}

func TestHighestCodeEmptyTable(t *testing.T) {
	s := newStorage(&fakeDB{}) // GetContext returns sql.ErrNoRows

	_, err := s.HighestCode(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty table, got %v", err)
	}
}

func TestGetCodeNotFound(t *testing.T) {
	s := newStorage(&fakeDB{})

	_, err := s.GetCode(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddCommandInsertsAllFields(t *testing.T) {
	db := &fakeDB{execRows: 1}
	s := newStorage(db)

	err := s.AddCommand(context.Background(), "User Panel", "Testlik", "quiz", "Starts a quiz")
	if err != nil {
		t.Fatalf("AddCommand: %v", err)
	}
	if len(db.execCalls) != 1 {
		t.Fatalf("expected one exec, got %d", len(db.execCalls))
	}
	args := db.execCalls[0].args
	want := []interface{}{"User Panel", "Testlik", "quiz", "Starts a quiz"}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(args))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: got %v, want %v", i, args[i], want[i])
		}
	}
}

func TestCommandsForPanelQueriesPanelAlone(t *testing.T) {
	var gotQuery string
	var gotArgs []interface{}
	db := &fakeDB{selectFn: func(_ interface{}, query string, args ...interface{}) error {
		gotQuery = query
		gotArgs = args
		return nil
	}}
	s := newStorage(db)

	if _, err := s.CommandsForPanel(context.Background(), "Admin Panel"); err != nil {
		t.Fatalf("CommandsForPanel: %v", err)
	}
	if !strings.Contains(gotQuery, "WHERE panel = $1") || strings.Contains(gotQuery, "sub_panel = ") {
		t.Errorf("query not keyed by panel alone: %q", gotQuery)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "Admin Panel" {
		t.Errorf("unexpected args: %v", gotArgs)
	}
}

func TestAddUserIdempotentConflictClause(t *testing.T) {
	db := &fakeDB{execRows: 1}
	s := newStorage(db)

	if err := s.AddUser(context.Background(), 123456); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if !strings.Contains(db.execCalls[0].query, "ON CONFLICT DO NOTHING") {
		t.Errorf("user insert is not conflict-safe: %q", db.execCalls[0].query)
	}
}

func TestWithRetryStopsOnBusinessError(t *testing.T) {
	calls := 0
	permErr := errors.New("duplicate key value violates unique constraint")
	err := withRetry(context.Background(), "test", func() error {
		calls++
		return permErr
	})
	if !errors.Is(err, permErr) {
		t.Fatalf("expected business error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("business error retried %d times", calls)
	}
}

func TestWithRetryRecoversTransientError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), "test", func() error {
		calls++
		if calls < 2 {
			return &transientErr{}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

type transientErr struct{}

func (*transientErr) Error() string   { return "connection reset" }
func (*transientErr) Timeout() bool   { return true }
func (*transientErr) Temporary() bool { return true }
