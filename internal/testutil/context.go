package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout возвращает context с timeout, который отменяется при завершении теста.
func ContextWithTimeout(tb testing.TB, d time.Duration) context.Context {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	tb.Cleanup(cancel)

	return ctx
}
