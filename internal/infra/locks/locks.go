// Package locks provides short-lived named locks so only one worker at a time
// writes a given project field.
package locks

import (
	"context"
	"time"
)

// Locker acquires a lock on key for at most ttl. ok is false when another
// holder has it; release is a no-op in that case.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// Key builds the lock key for one job of one project.
func Key(projectID, job string) string {
	return "lock:project:" + projectID + ":" + job
}

func noop() {}
