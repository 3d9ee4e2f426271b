package registry

import (
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

type locationAdapter struct {
	jsonAdapter[models.Location, *models.Location]
}

// NewLocationAdapter returns the TypeAdapter for storage locations.
func NewLocationAdapter() TypeAdapter {
	return &locationAdapter{jsonAdapter[models.Location, *models.Location]{
		entityType: models.EntityTypeLocation,
		fileKey:    "locations",
	}}
}

func (a *locationAdapter) Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error) {
	entity, err := a.jsonAdapter.Create(input, homeID, id, now)
	if err != nil {
		return nil, err
	}

	location := entity.(*models.Location)
	if location.Name == "" {
		return nil, ErrMissingRequiredField
	}
	return location, nil
}
