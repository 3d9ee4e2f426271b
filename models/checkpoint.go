// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package models

import (
	"fmt"
	"time"
)

// Checkpoint is the per-(home, entity type) sync cursor: it marks how much of
// the server's change history this client has already consumed.
//
// LastPulledVersion is server-assigned and defined by the server to be
// monotonic; callers must only ever write back checkpoints returned by a
// successful pull, which keeps the stored value non-decreasing.
type Checkpoint struct {
	HomeID            string     `json:"home_id"`
	EntityType        EntityType `json:"entity_type"`
	LastPulledVersion int64      `json:"last_pulled_version"`
	LastPushedVersion int64      `json:"last_pushed_version"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	ServerTimestamp   *time.Time `json:"server_timestamp,omitempty"`
}

// Key returns the composite storage key for this checkpoint.
func (c Checkpoint) Key() string {
	return CheckpointKey(c.HomeID, c.EntityType)
}

// CheckpointKey builds the composite "homeID:entityType" storage key.
func CheckpointKey(homeID string, entityType EntityType) string {
	return fmt.Sprintf("%s:%s", homeID, entityType)
}
