package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the client's
	// credentials; the session layer owns recovery.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrVersionConflict is returned when the server refuses a push because
	// it holds a newer version of an entity.
	ErrVersionConflict = errors.New("version conflict")

	// ErrServerUnavailable is returned for 5xx responses; the scheduler
	// treats it as transient and retries with backoff.
	ErrServerUnavailable = errors.New("sync server unavailable")
)
