package mediator

import (
	"context"
	"sync"
)

// SerializeMiddleware runs requests one at a time. Workshops and the jobs they
// touch are not safe for concurrent use, so every entry point that mutates them
// (ticks, queue edits, gRPC calls) goes through the same lock.
func SerializeMiddleware() Middleware {
	var mu sync.Mutex
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		mu.Lock()
		defer mu.Unlock()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return next(ctx, request)
	}
}
