// Package events is a Postgres-backed outbox. Producers insert events in the
// request path; the worker claims them with skip-locked polling and settles
// each one as done, re-queued or failed. Delivery is at least once.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"podcaster/internal/domain"
	"podcaster/internal/infra"
	"podcaster/internal/sqlinline"
)

// ErrNoEvent is returned by Claim when the queue is empty.
var ErrNoEvent = errors.New("no event available")

const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Event is a claimed outbox row.
type Event struct {
	ID          string
	Name        string
	Payload     json.RawMessage
	Attempts    int
	MaxAttempts int
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode event %s: %w", e.ID, err)
	}
	return nil
}

type Options struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

type Outbox struct {
	sql         infra.SQLExecutor
	maxAttempts int
	retryDelay  time.Duration
}

func NewOutbox(sql infra.SQLExecutor, opts Options) *Outbox {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 10 * time.Second
	}
	return &Outbox{sql: sql, maxAttempts: opts.MaxAttempts, retryDelay: opts.RetryDelay}
}

// Emit stores an arbitrary named event and returns its id.
func (o *Outbox) Emit(ctx context.Context, name string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode event %s: %w", name, err)
	}
	var id string
	if err := o.sql.QueryRow(ctx, sqlinline.QInsertEvent, name, raw, o.maxAttempts).Scan(&id); err != nil {
		return "", fmt.Errorf("insert event %s: %w", name, err)
	}
	return id, nil
}

// Publish emits a retry-job event.
func (o *Outbox) Publish(ctx context.Context, event domain.RetryEvent) error {
	_, err := o.Emit(ctx, domain.RetryJobEventName, event)
	return err
}

// Claim marks the oldest available event as running and returns it.
func (o *Outbox) Claim(ctx context.Context) (*Event, error) {
	var e Event
	var payload []byte
	err := o.sql.QueryRow(ctx, sqlinline.QClaimEvent).Scan(&e.ID, &e.Name, &payload, &e.Attempts, &e.MaxAttempts)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, ErrNoEvent
		}
		return nil, fmt.Errorf("claim event: %w", err)
	}
	e.Payload = payload
	return &e, nil
}

func (o *Outbox) Complete(ctx context.Context, id string) error {
	if _, err := o.sql.Exec(ctx, sqlinline.QCompleteEvent, id); err != nil {
		return fmt.Errorf("complete event %s: %w", id, err)
	}
	return nil
}

// Fail records cause and re-queues the event unless its attempts are spent.
// It reports the resulting status.
func (o *Outbox) Fail(ctx context.Context, id string, cause error) (string, error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	var status string
	if err := o.sql.QueryRow(ctx, sqlinline.QFailEvent, id, msg, int(o.retryDelay/time.Second)).Scan(&status); err != nil {
		return "", fmt.Errorf("fail event %s: %w", id, err)
	}
	return status, nil
}

// Release re-queues a claimed event after delay without counting the attempt.
func (o *Outbox) Release(ctx context.Context, id string, delay time.Duration) error {
	if _, err := o.sql.Exec(ctx, sqlinline.QReleaseEvent, id, int(delay/time.Second)); err != nil {
		return fmt.Errorf("release event %s: %w", id, err)
	}
	return nil
}

// Discard marks an event failed without further attempts.
func (o *Outbox) Discard(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if _, err := o.sql.Exec(ctx, sqlinline.QDiscardEvent, id, msg); err != nil {
		return fmt.Errorf("discard event %s: %w", id, err)
	}
	return nil
}
