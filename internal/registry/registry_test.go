package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homekeepapp/go-home-keeper/models"
)

func TestRegistry_Get(t *testing.T) {
	r := New()

	tests := []struct {
		name       string
		entityType models.EntityType
		wantErr    error
	}{
		{name: "items", entityType: models.EntityTypeItem},
		{name: "categories", entityType: models.EntityTypeCategory},
		{name: "locations", entityType: models.EntityTypeLocation},
		{name: "todos", entityType: models.EntityTypeTodo},
		{name: "settings", entityType: models.EntityTypeSetting},
		{name: "unknown type", entityType: "recipes", wantErr: ErrUnknownEntityType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := r.Get(tt.entityType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.entityType, adapter.Type())
		})
	}
}

func TestRegistry_All(t *testing.T) {
	adapters := New().All()

	require.Len(t, adapters, len(models.AllEntityTypes()))
	for i, entityType := range models.AllEntityTypes() {
		assert.Equal(t, entityType, adapters[i].Type())
	}
}

func TestItemAdapter_Create(t *testing.T) {
	adapter := NewItemAdapter()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   map[string]any
		check   func(t *testing.T, entity models.Syncable)
		wantErr error
	}{
		{
			name:  "full input",
			input: map[string]any{"name": "Drill", "quantity": 2, "tags": []string{"tools"}},
			check: func(t *testing.T, entity models.Syncable) {
				item := entity.(*models.Item)
				assert.Equal(t, "Drill", item.Name)
				assert.Equal(t, 2, item.Quantity)
				assert.Equal(t, []string{"tools"}, item.Tags)
			},
		},
		{
			name:  "quantity defaults to one",
			input: map[string]any{"name": "Hammer"},
			check: func(t *testing.T, entity models.Syncable) {
				assert.Equal(t, 1, entity.(*models.Item).Quantity)
			},
		},
		{
			name:    "missing name",
			input:   map[string]any{"quantity": 3},
			wantErr: ErrMissingRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, err := adapter.Create(tt.input, "home-1", "item-1", now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			meta := entity.Meta()
			assert.Equal(t, "item-1", meta.ID)
			assert.Equal(t, "home-1", meta.HomeID)
			assert.EqualValues(t, 1, meta.Version)
			assert.Equal(t, now, meta.UpdatedAt)
			assert.True(t, meta.PendingCreate)
			assert.False(t, meta.PendingUpdate)

			tt.check(t, entity)
		})
	}
}

func TestJSONAdapter_RoundTrip(t *testing.T) {
	adapter := NewTodoAdapter()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	created, err := adapter.Create(map[string]any{"title": "Buy bulbs", "assignee": "sam"}, "home-1", "todo-1", now)
	require.NoError(t, err)

	data, err := adapter.EncodeList([]models.Syncable{created})
	require.NoError(t, err)

	decoded, err := adapter.DecodeList(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, created, decoded[0])

	empty, err := adapter.DecodeList(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestJSONAdapter_ServerDataExcludesSyncMeta(t *testing.T) {
	adapter := NewItemAdapter()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	entity, err := adapter.Create(map[string]any{"name": "Ladder"}, "home-1", "item-1", now)
	require.NoError(t, err)

	payload, err := adapter.ToServerData(entity)
	require.NoError(t, err)

	assert.Equal(t, "Ladder", payload["name"])
	for _, key := range syncMetaKeys {
		assert.NotContains(t, payload, key)
	}
}

func TestJSONAdapter_FromServerData(t *testing.T) {
	adapter := NewItemAdapter()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	meta := models.SyncMeta{
		ID:              "item-9",
		HomeID:          "home-1",
		Version:         4,
		UpdatedAt:       now,
		ClientUpdatedAt: now,
	}
	entity, err := adapter.FromServerData(models.ServerEntity{
		ID:      "item-9",
		Version: 4,
		Data:    map[string]any{"name": "Shovel", "quantity": float64(2)},
	}, meta)
	require.NoError(t, err)

	item := entity.(*models.Item)
	assert.Equal(t, "Shovel", item.Name)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, meta, *item.Meta())
}

func TestJSONAdapter_ApplyUpdate(t *testing.T) {
	adapter := NewItemAdapter()
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	edited := created.Add(time.Hour)

	entity, err := adapter.Create(map[string]any{"name": "Paint", "quantity": 1}, "home-1", "item-1", created)
	require.NoError(t, err)

	err = adapter.ApplyUpdate(entity, map[string]any{
		"quantity": 5,
		// metadata in update input must not leak into bookkeeping
		"version":        99,
		"pending_delete": true,
	}, edited)
	require.NoError(t, err)

	item := entity.(*models.Item)
	assert.Equal(t, "Paint", item.Name)
	assert.Equal(t, 5, item.Quantity)
	assert.EqualValues(t, 2, item.Version)
	assert.Equal(t, edited, item.UpdatedAt)
	assert.False(t, item.PendingDelete)
}

func TestJSONAdapter_PayloadEqual(t *testing.T) {
	adapter := NewItemAdapter()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	a, err := adapter.Create(map[string]any{"name": "Rope", "quantity": 1}, "home-1", "item-1", now)
	require.NoError(t, err)
	b, err := adapter.Create(map[string]any{"name": "Rope", "quantity": 1}, "home-1", "item-2", now.Add(time.Hour))
	require.NoError(t, err)

	// differing sync metadata must not register as a payload difference
	assert.True(t, adapter.PayloadEqual(a, b))

	require.NoError(t, adapter.ApplyUpdate(b, map[string]any{"quantity": 3}, now.Add(2*time.Hour)))
	assert.False(t, adapter.PayloadEqual(a, b))
}
