package db

import (
	"context"
	"strings"
	"time"

	"github.com/banshee-data/roadline/internal/timeutil"
)

const (
	busyRetries = 5
	busyBackoff = 20 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs fn until it succeeds, fails with something other than
// SQLITE_BUSY, runs out of attempts or ctx is done. Backoff doubles each
// attempt.
func retryOnBusy(ctx context.Context, clock timeutil.Clock, fn func() error) error {
	wait := busyBackoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if !isSQLiteBusy(err) || attempt == busyRetries {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		clock.Sleep(wait)
		wait *= 2
	}
}
