package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// execRecorder records Exec calls and fails them with err when set
type execRecorder struct {
	querier
	err  error
	sql  []string
	args [][]any
}

func (r *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func TestTouchEvent(t *testing.T) {
	rec := &execRecorder{}
	if err := touchEvent(context.Background(), rec, 42); err != nil {
		t.Fatalf("touchEvent() error = %v", err)
	}
	if len(rec.sql) != 1 || !strings.Contains(rec.sql[0], "updated_at = NOW()") {
		t.Fatalf("executed %v", rec.sql)
	}
	if len(rec.args[0]) != 1 || rec.args[0][0] != 42 {
		t.Errorf("args = %v, want [42]", rec.args[0])
	}
}

func TestTouchEventReturnsExecError(t *testing.T) {
	connErr := errors.New("connection reset")
	rec := &execRecorder{err: connErr}

	err := touchEvent(context.Background(), rec, 7)
	if !errors.Is(err, connErr) {
		t.Fatalf("touchEvent() error = %v, want %v", err, connErr)
	}
	if !strings.Contains(err.Error(), "event 7") {
		t.Errorf("error %q does not name the event", err)
	}
}
