package models

import "time"

// SyncDelta is the reconciled outcome of one sync pass: the net set of
// created, updated, and deleted entities plus confirmations of local pending
// pushes. The application state layer applies Created/Updated as upserts and
// Deleted as removals without re-reading the full entity set from storage.
type SyncDelta struct {
	// Created holds entities that arrived from the server and were not
	// previously known locally.
	Created []Syncable

	// Updated holds entities whose business payload changed this pass,
	// whether by a merged pull or a confirmed push.
	Updated []Syncable

	// Deleted holds ids of entities tombstoned this pass.
	Deleted []string

	// Confirmed holds ids of previously-pending local entities whose push
	// was acknowledged by the server.
	Confirmed []string

	// Unchanged is true iff Created, Updated, and Deleted are all empty.
	Unchanged bool

	// ServerTimestamp is the server clock reported by the round trip that
	// produced this delta; zero when the pass did not reach the server.
	ServerTimestamp time.Time

	// Checkpoint is the cursor state after this pass.
	Checkpoint Checkpoint
}

// EmptyDelta returns the "nothing happened this cycle" delta used when a sync
// pass fails and recovers.
func EmptyDelta() *SyncDelta {
	return &SyncDelta{Unchanged: true}
}
