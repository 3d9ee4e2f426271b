package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/homekeepapp/go-home-keeper/models"
)

func replicaAt(id string, updatedAt time.Time, deletedAt *time.Time, name string) *models.Item {
	return &models.Item{
		SyncMeta: models.SyncMeta{
			ID:              id,
			HomeID:          "home-1",
			Version:         1,
			UpdatedAt:       updatedAt,
			ClientUpdatedAt: updatedAt,
			DeletedAt:       deletedAt,
		},
		Name: name,
	}
}

func TestResolve(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	at := func(offset time.Duration) time.Time { return base.Add(offset) }
	tombstone := func(offset time.Duration) *time.Time {
		ts := at(offset)
		return &ts
	}

	tests := []struct {
		name   string
		local  models.Syncable
		server models.Syncable
		want   string // name of the expected winner's payload
	}{
		{
			name:   "only local side exists",
			local:  replicaAt("x", at(0), nil, "local"),
			server: nil,
			want:   "local",
		},
		{
			name:   "only server side exists",
			local:  nil,
			server: replicaAt("x", at(0), nil, "server"),
			want:   "server",
		},
		{
			name:   "both tombstoned keeps later tombstone",
			local:  replicaAt("x", at(0), tombstone(time.Hour), "local"),
			server: replicaAt("x", at(0), tombstone(2*time.Hour), "server"),
			want:   "server",
		},
		{
			name:   "server tombstone beats older local edit",
			local:  replicaAt("x", at(time.Hour), nil, "local"),
			server: replicaAt("x", at(0), tombstone(2*time.Hour), "server"),
			want:   "server",
		},
		{
			name:   "local edit after server tombstone undeletes",
			local:  replicaAt("x", at(8*time.Minute), nil, "local"),
			server: replicaAt("x", at(0), tombstone(5*time.Minute), "server"),
			want:   "local",
		},
		{
			name:   "local tombstone beats older server edit",
			local:  replicaAt("x", at(0), tombstone(3*time.Hour), "local"),
			server: replicaAt("x", at(time.Hour), nil, "server"),
			want:   "local",
		},
		{
			name:   "server edit after local tombstone revives",
			local:  replicaAt("x", at(0), tombstone(time.Hour), "local"),
			server: replicaAt("x", at(2*time.Hour), nil, "server"),
			want:   "server",
		},
		{
			name:   "both live last write wins",
			local:  replicaAt("x", at(10*time.Minute), nil, "local"),
			server: replicaAt("x", at(20*time.Minute), nil, "server"),
			want:   "server",
		},
		{
			name:   "exact tie keeps local",
			local:  replicaAt("x", at(time.Hour), nil, "local"),
			server: replicaAt("x", at(time.Hour), nil, "server"),
			want:   "local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.local, tt.server)
			assert.Equal(t, tt.want, got.(*models.Item).Name)

			// reapplying the merge to its own output is a fixed point
			assert.Equal(t, got, Resolve(got, tt.server))
		})
	}
}

func TestResolve_ClientUpdatedAtParticipates(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	local := replicaAt("x", base, nil, "local")
	local.ClientUpdatedAt = base.Add(time.Hour)
	server := replicaAt("x", base.Add(30*time.Minute), nil, "server")

	// local's client-observed timestamp is later than the server's update
	got := Resolve(local, server)
	assert.Equal(t, "local", got.(*models.Item).Name)
}
