package registry

import (
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

type settingAdapter struct {
	jsonAdapter[models.Setting, *models.Setting]
}

// NewSettingAdapter returns the TypeAdapter for per-home settings.
func NewSettingAdapter() TypeAdapter {
	return &settingAdapter{jsonAdapter[models.Setting, *models.Setting]{
		entityType: models.EntityTypeSetting,
		fileKey:    "settings",
	}}
}

func (a *settingAdapter) Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error) {
	entity, err := a.jsonAdapter.Create(input, homeID, id, now)
	if err != nil {
		return nil, err
	}

	setting := entity.(*models.Setting)
	if setting.Key == "" {
		return nil, ErrMissingRequiredField
	}
	return setting, nil
}
