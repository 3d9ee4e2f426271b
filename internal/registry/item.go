package registry

import (
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

type itemAdapter struct {
	jsonAdapter[models.Item, *models.Item]
}

// NewItemAdapter returns the TypeAdapter for inventory items.
func NewItemAdapter() TypeAdapter {
	return &itemAdapter{jsonAdapter[models.Item, *models.Item]{
		entityType: models.EntityTypeItem,
		fileKey:    "items",
	}}
}

func (a *itemAdapter) Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error) {
	entity, err := a.jsonAdapter.Create(input, homeID, id, now)
	if err != nil {
		return nil, err
	}

	item := entity.(*models.Item)
	if item.Name == "" {
		return nil, ErrMissingRequiredField
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	return item, nil
}
