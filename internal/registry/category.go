package registry

import (
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

type categoryAdapter struct {
	jsonAdapter[models.Category, *models.Category]
}

// NewCategoryAdapter returns the TypeAdapter for item categories.
func NewCategoryAdapter() TypeAdapter {
	return &categoryAdapter{jsonAdapter[models.Category, *models.Category]{
		entityType: models.EntityTypeCategory,
		fileKey:    "categories",
	}}
}

func (a *categoryAdapter) Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error) {
	entity, err := a.jsonAdapter.Create(input, homeID, id, now)
	if err != nil {
		return nil, err
	}

	category := entity.(*models.Category)
	if category.Name == "" {
		return nil, ErrMissingRequiredField
	}
	return category, nil
}
