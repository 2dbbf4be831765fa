package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"podcaster/internal/domain"
	"podcaster/internal/sqlinline"
)

type call struct {
	query string
	args  []any
}

type stubExecutor struct {
	calls   []call
	row     []any
	rowErr  error
	execErr error
}

func (s *stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return pgconn.NewCommandTag("UPDATE 1"), s.execErr
}

func (s *stubExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query: query, args: args})
	return stubRow{values: s.row, err: s.rowErr}
}

func (s *stubExecutor) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("dest count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *int:
			*p = r.values[i].(int)
		case *[]byte:
			*p = r.values[i].([]byte)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func TestPublishInsertsRetryEvent(t *testing.T) {
	exec := &stubExecutor{row: []any{"evt-1"}}
	outbox := NewOutbox(exec, Options{MaxAttempts: 5})

	event := domain.RetryEvent{
		ProjectID:    "p1",
		Job:          domain.JobTitles,
		UserID:       "u1",
		OriginalPlan: domain.PlanFree,
		CurrentPlan:  domain.PlanStandard,
	}
	if err := outbox.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(exec.calls) != 1 || exec.calls[0].query != sqlinline.QInsertEvent {
		t.Fatalf("calls = %+v", exec.calls)
	}
	args := exec.calls[0].args
	if args[0] != domain.RetryJobEventName || args[2] != 5 {
		t.Fatalf("args = %v", args)
	}
	var decoded map[string]string
	if err := json.Unmarshal(args[1].([]byte), &decoded); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	want := map[string]string{"projectId": "p1", "job": "titles", "userId": "u1", "originalPlan": "free", "currentPlan": "standard"}
	for k, v := range want {
		if decoded[k] != v {
			t.Fatalf("payload[%s] = %q, want %q", k, decoded[k], v)
		}
	}
}

func TestPublishPropagatesError(t *testing.T) {
	boom := errors.New("db down")
	outbox := NewOutbox(&stubExecutor{rowErr: boom}, Options{})
	if err := outbox.Publish(context.Background(), domain.RetryEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestClaim(t *testing.T) {
	payload := []byte(`{"projectId":"p1","job":"summary"}`)
	exec := &stubExecutor{row: []any{"evt-1", domain.RetryJobEventName, payload, 1, 3}}
	evt, err := NewOutbox(exec, Options{}).Claim(context.Background())
	if err != nil {
		t.Fatalf("Claim error: %v", err)
	}
	if evt.ID != "evt-1" || evt.Attempts != 1 || evt.MaxAttempts != 3 {
		t.Fatalf("event = %+v", evt)
	}
	var re domain.RetryEvent
	if err := evt.Decode(&re); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if re.ProjectID != "p1" || re.Job != domain.JobSummary {
		t.Fatalf("decoded = %+v", re)
	}
}

func TestClaimEmptyQueue(t *testing.T) {
	_, err := NewOutbox(&stubExecutor{rowErr: pgx.ErrNoRows}, Options{}).Claim(context.Background())
	if !errors.Is(err, ErrNoEvent) {
		t.Fatalf("expected ErrNoEvent, got %v", err)
	}
}

func TestFailReportsStatus(t *testing.T) {
	exec := &stubExecutor{row: []any{StatusQueued}}
	status, err := NewOutbox(exec, Options{RetryDelay: 30 * time.Second}).Fail(context.Background(), "evt-1", errors.New("model down"))
	if err != nil {
		t.Fatalf("Fail error: %v", err)
	}
	if status != StatusQueued {
		t.Fatalf("status = %q", status)
	}
	args := exec.calls[0].args
	if args[1] != "model down" || args[2] != 30 {
		t.Fatalf("args = %v", args)
	}
}

func TestCompleteAndRelease(t *testing.T) {
	exec := &stubExecutor{}
	outbox := NewOutbox(exec, Options{})
	if err := outbox.Complete(context.Background(), "evt-1"); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if err := outbox.Release(context.Background(), "evt-1", 5*time.Second); err != nil {
		t.Fatalf("Release error: %v", err)
	}
	if exec.calls[0].query != sqlinline.QCompleteEvent || exec.calls[1].query != sqlinline.QReleaseEvent {
		t.Fatalf("calls = %+v", exec.calls)
	}
	if exec.calls[1].args[1] != 5 {
		t.Fatalf("release delay arg = %v", exec.calls[1].args[1])
	}

	boom := errors.New("boom")
	if err := NewOutbox(&stubExecutor{execErr: boom}, Options{}).Complete(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
