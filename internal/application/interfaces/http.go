package interfaces

import (
	"context"
	"net/http"
)

// HTTPHandler is the API surface served by cmd/server.
type HTTPHandler interface {
	http.Handler
	InvalidateCache(ctx context.Context) error
}
