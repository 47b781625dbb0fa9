package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitFor polls check until it returns true, failing the test after timeout.
//
//	go mgr.Start(ctx)
//	testutil.WaitFor(t, func() bool { return mgr.Steps() > 0 }, time.Second)
func WaitFor(t testing.TB, check func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("condition not met within %v", timeout)
		case <-ticker.C:
			if check() {
				return
			}
		}
	}
}
