package repo

import (
	"context"
	"errors"
	"reflect"
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
	tag     pgconn.CommandTag
	execErr error
}

func (s *stubExecutor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return s.tag, s.execErr
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

// Scan assigns values positionally; nil values leave the destination zeroed.
func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("dest count mismatch")
	}
	for i, d := range dest {
		if r.values[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

const projectID = "5b0c6a3e-2f1d-4c8b-9a7e-3d2f1c0b9a8e"

func TestGetProjectDecodesAssets(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	exec := &stubExecutor{row: []any{
		projectID, "user_1", "Episode 1", "completed",
		[]byte(`{"text":"hello","chapters":[{"start":0,"end":1000,"headline":"Intro"}]}`),
		[]byte(`{"full":"f","bullets":["b"],"insights":["i"],"tldr":"t"}`),
		nil,
		[]byte(`null`),
		nil,
		[]byte(`{"moments":[{"time":"0:00","timestamp":0,"text":"x","description":"y"}]}`),
		nil,
		nil,
		created, created,
	}}
	p, err := NewProjectRepository(exec).GetProject(context.Background(), projectID)
	if err != nil {
		t.Fatalf("GetProject error: %v", err)
	}
	if p.UserID != "user_1" || p.Transcript == nil || p.Transcript.Text != "hello" {
		t.Fatalf("project = %+v", p)
	}
	if p.Summary == nil || p.Summary.TLDR != "t" {
		t.Fatalf("summary = %+v", p.Summary)
	}
	if p.Titles != nil {
		t.Fatal("JSON null must decode to a nil asset")
	}
	want := domain.AssetPresence{Summary: true, KeyMoments: true}
	if p.Assets() != want {
		t.Fatalf("assets = %+v, want %+v", p.Assets(), want)
	}
	if exec.calls[0].query != sqlinline.QSelectProjectByID {
		t.Fatal("unexpected query")
	}
}

func TestGetProjectNotFound(t *testing.T) {
	cases := []struct {
		name string
		id   string
		exec *stubExecutor
	}{
		{name: "malformed id", id: "nope", exec: &stubExecutor{}},
		{name: "no rows", id: projectID, exec: &stubExecutor{rowErr: pgx.ErrNoRows}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProjectRepository(tc.exec).GetProject(context.Background(), tc.id)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestGetProjectCorruptColumn(t *testing.T) {
	exec := &stubExecutor{row: []any{
		projectID, "user_1", "", "completed",
		nil, []byte(`{"full":`), nil, nil, nil, nil, nil, nil, time.Time{}, time.Time{},
	}}
	_, err := NewProjectRepository(exec).GetProject(context.Background(), projectID)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestGetUserProjectCount(t *testing.T) {
	exec := &stubExecutor{row: []any{4}}
	n, err := NewProjectRepository(exec).GetUserProjectCount(context.Background(), "user_1", true)
	if err != nil {
		t.Fatalf("GetUserProjectCount error: %v", err)
	}
	if n != 4 {
		t.Fatalf("count = %d", n)
	}
	if args := exec.calls[0].args; args[0] != "user_1" || args[1] != true {
		t.Fatalf("args = %v", args)
	}
}

func TestSaveAsset(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewProjectRepository(exec)
	err := repo.SaveAsset(context.Background(), projectID, domain.JobHashtags, domain.Hashtags{Youtube: []string{"#a"}})
	if err != nil {
		t.Fatalf("SaveAsset error: %v", err)
	}
	args := exec.calls[0].args
	if exec.calls[0].query != sqlinline.QUpdateProjectAsset || args[1] != "hashtags" {
		t.Fatalf("call = %+v", exec.calls[0])
	}

	if err := repo.SaveAsset(context.Background(), projectID, "podcastArt", nil); !errors.Is(err, domain.ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}

	missing := NewProjectRepository(&stubExecutor{tag: pgconn.NewCommandTag("UPDATE 0")})
	if err := missing.SaveAsset(context.Background(), projectID, domain.JobSummary, domain.Summary{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
