package service

import (
	"context"
	"errors"
	"time"

	"github.com/mmcdole/storyreel/internal/domain"
)

func isOffline(err error) bool {
	return errors.Is(err, domain.ErrServerOffline)
}

// withTimeout bounds ctx by d. A non-positive d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
