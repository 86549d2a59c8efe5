// Package runid assigns a correlation id to one generation run, threaded
// through context.Context for structured logging and metrics (spec §4.11
// / C13). Adapted from the request-id pattern used at the HTTP boundary
// in the teacher's gin middleware, repurposed as a plain context value
// since the core has no HTTP framework (see Non-goals).
package runid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type contextKey struct{}

// New generates a fresh run id: 16 random bytes hex-encoded, falling back
// to a monotonic-clock-derived id if the system RNG is unavailable.
func New() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

// WithValue attaches `id` to ctx.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the run id stored in ctx, or "" if none was set.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
