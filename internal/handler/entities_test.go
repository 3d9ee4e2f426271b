package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/service"
	"github.com/homekeepapp/go-home-keeper/models"
)

func testItem(id, name string) *models.Item {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return &models.Item{
		SyncMeta: models.SyncMeta{
			ID:              id,
			HomeID:          "home-1",
			Version:         1,
			UpdatedAt:       now,
			ClientUpdatedAt: now,
		},
		Name:     name,
		Quantity: 1,
	}
}

func TestHandler_ListEntities(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		List(gomock.Any(), models.EntityTypeItem).
		Return([]models.Syncable{testItem("item-1", "Drill"), testItem("item-2", "Ladder")}, nil)

	rec := f.do(t, http.MethodGet, "/api/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Entities []models.Item `json:"entities"`
		Length   int           `json:"length"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Length)
	require.Len(t, resp.Entities, 2)
	assert.Equal(t, "Drill", resp.Entities[0].Name)
}

func TestHandler_ListEntities_UnknownType(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		List(gomock.Any(), models.EntityType("gadgets")).
		Return(nil, fmt.Errorf("%w: gadgets", registry.ErrUnknownEntityType))

	rec := f.do(t, http.MethodGet, "/api/gadgets", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CreateEntity(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		Create(gomock.Any(), models.EntityTypeItem, map[string]any{"name": "Drill"}).
		Return(testItem("item-1", "Drill"), nil)

	rec := f.do(t, http.MethodPost, "/api/items", strings.NewReader(`{"name":"Drill"}`))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "item-1", created.ID)
	assert.Equal(t, "Drill", created.Name)
}

func TestHandler_CreateEntity_InvalidJSON(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/items", strings.NewReader("{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CreateEntity_MissingRequiredField(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		Create(gomock.Any(), models.EntityTypeItem, gomock.Any()).
		Return(nil, fmt.Errorf("create items: %w: name", registry.ErrMissingRequiredField))

	rec := f.do(t, http.MethodPost, "/api/items", strings.NewReader(`{"quantity":2}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetEntity(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		Get(gomock.Any(), models.EntityTypeTodo, "todo-1").
		Return(&models.Todo{
			SyncMeta: models.SyncMeta{ID: "todo-1", HomeID: "home-1", Version: 1},
			Title:    "Fix the fence",
		}, nil)

	rec := f.do(t, http.MethodGet, "/api/todos/todo-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var todo models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todo))
	assert.Equal(t, "Fix the fence", todo.Title)
}

func TestHandler_GetEntity_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		Get(gomock.Any(), models.EntityTypeItem, "missing").
		Return(nil, fmt.Errorf("get items missing: %w", service.ErrEntityNotFound))

	rec := f.do(t, http.MethodGet, "/api/items/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateEntity(t *testing.T) {
	f := newHandlerFixture(t)
	updated := testItem("item-1", "Cordless drill")
	updated.Version = 2
	f.entities.EXPECT().
		Update(gomock.Any(), models.EntityTypeItem, "item-1", map[string]any{"name": "Cordless drill"}).
		Return(updated, nil)

	rec := f.do(t, http.MethodPatch, "/api/items/item-1", strings.NewReader(`{"name":"Cordless drill"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var item models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Cordless drill", item.Name)
	assert.EqualValues(t, 2, item.Version)
}

func TestHandler_DeleteEntity(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		Delete(gomock.Any(), models.EntityTypeItem, "item-1").
		Return(nil)

	rec := f.do(t, http.MethodDelete, "/api/items/item-1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_DeleteEntity_StorageFailure(t *testing.T) {
	f := newHandlerFixture(t)
	f.entities.EXPECT().
		Delete(gomock.Any(), models.EntityTypeItem, "item-1").
		Return(fmt.Errorf("write items collection: %w", assert.AnError))

	rec := f.do(t, http.MethodDelete, "/api/items/item-1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
