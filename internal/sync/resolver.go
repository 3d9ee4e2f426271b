// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

// Package sync implements the offline-first synchronization engine: a
// single-worker task scheduler draining a deduplicated queue, a generic
// pull/push protocol shared by every entity type, deterministic whole-entity
// conflict resolution, and opportunistic tombstone cleanup.
package sync

import (
	"github.com/homekeepapp/go-home-keeper/models"
)

// Resolve merges one local and one server replica of the same logical entity
// and returns the winner. It is pure, deterministic, and idempotent:
// Resolve(Resolve(a, b), b) == Resolve(a, b).
//
// The policy is whole-entity last-write-wins. Tombstones participate: a
// deletion only beats a live replica when the deletion happened after the
// live replica's last update, which gives concurrent edits an implicit
// undelete.
func Resolve(local, server models.Syncable) models.Syncable {
	switch {
	case local == nil:
		return server
	case server == nil:
		return local
	}

	localMeta := local.Meta()
	serverMeta := server.Meta()

	switch {
	case localMeta.IsDeleted() && serverMeta.IsDeleted():
		if serverMeta.DeletedAt.After(*localMeta.DeletedAt) {
			return server
		}
		return local

	case serverMeta.IsDeleted():
		// the deletion wins only if it was issued after the local edit
		if serverMeta.DeletedAt.After(localMeta.LastUpdate()) {
			return server
		}
		return local

	case localMeta.IsDeleted():
		if localMeta.DeletedAt.After(serverMeta.LastUpdate()) {
			return local
		}
		return server
	}

	// both live: last write wins, ties keep the local copy to avoid a
	// needless write
	if server.Meta().LastUpdate().After(local.Meta().LastUpdate()) {
		return server
	}
	return local
}
