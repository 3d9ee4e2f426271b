package adapter

import (
	"context"

	"github.com/homekeepapp/go-home-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SyncTransport is the outbound contract to the remote sync authority. The
// engine never talks HTTP directly: it sees only these two logical calls.
// Auth, framing, and encoding are the adapter's concern.
type SyncTransport interface {
	// Pull fetches every change in the requested scope past the client's
	// checkpoint, including soft-deleted ids when asked.
	Pull(ctx context.Context, req models.PullRequest) (*models.PullResponse, error)

	// Push uploads locally pending entities and returns the server's
	// per-entity verdicts.
	Push(ctx context.Context, req models.PushRequest) (*models.PushResponse, error)
}
