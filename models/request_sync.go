// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HomeKeep Authors

package models

import "time"

// Push statuses reported by the server per pushed entity.
const (
	PushStatusCreated       = "created"
	PushStatusUpdated       = "updated"
	PushStatusDeleted       = "deleted"
	PushStatusServerVersion = "server_version"
	PushStatusConflict      = "conflict"
)

// ServerEntity is the transport representation of one entity: sync metadata
// the engine interprets plus an opaque business payload the type adapter
// decodes.
type ServerEntity struct {
	ID              string         `json:"id"`
	Version         int64          `json:"version"`
	UpdatedAt       time.Time      `json:"updated_at"`
	ClientUpdatedAt *time.Time     `json:"client_updated_at,omitempty"`
	DeletedAt       *time.Time     `json:"deleted_at,omitempty"`
	Data            map[string]any `json:"data"`
}

// PullRequest asks the server for every change in the scope past the
// client's checkpoint.
type PullRequest struct {
	EntityType     EntityType `json:"entity_type"`
	HomeID         string     `json:"home_id"`
	DeviceID       string     `json:"device_id"`
	Checkpoint     int64      `json:"checkpoint"`
	IncludeDeleted bool       `json:"include_deleted"`
}

// PullResponse carries the server-side changes since the requested
// checkpoint.
type PullResponse struct {
	Entities        []ServerEntity `json:"entities"`
	DeletedIDs      []string       `json:"deleted_ids"`
	Checkpoint      int64          `json:"checkpoint"`
	ServerTimestamp time.Time      `json:"server_timestamp"`
}

// PushRequest uploads every locally pending entity of one type.
type PushRequest struct {
	EntityType EntityType     `json:"entity_type"`
	HomeID     string         `json:"home_id"`
	DeviceID   string         `json:"device_id"`
	Checkpoint int64          `json:"checkpoint"`
	Entities   []ServerEntity `json:"entities"`
}

// PushResult reports the server's verdict on one pushed entity.
type PushResult struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	ServerVersion int64  `json:"server_version,omitempty"`

	// ServerData is populated for status "server_version": the server's
	// newer copy the client must adopt in place of its pending edit.
	ServerData *ServerEntity `json:"server_data,omitempty"`
}

// PushResponse carries per-entity push results.
type PushResponse struct {
	Results         []PushResult `json:"results"`
	Checkpoint      int64        `json:"checkpoint"`
	ServerTimestamp time.Time    `json:"server_timestamp"`
}
