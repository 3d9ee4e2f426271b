package registry

import (
	"errors"
	"fmt"

	"github.com/homekeepapp/go-home-keeper/models"
)

// ErrMissingRequiredField is returned by Create when mandatory business
// fields are absent from the input.
var ErrMissingRequiredField = errors.New("missing required field")

// ErrUnknownEntityType is returned when a lookup names an entity type no
// adapter was registered for.
var ErrUnknownEntityType = errors.New("unknown entity type")

// Registry is the closed set of type adapters, one per syncable entity kind.
type Registry struct {
	adapters map[models.EntityType]TypeAdapter
	order    []models.EntityType
}

// New builds a Registry with all five entity-type adapters registered.
func New() *Registry {
	r := &Registry{
		adapters: make(map[models.EntityType]TypeAdapter),
	}
	for _, adapter := range []TypeAdapter{
		NewItemAdapter(),
		NewCategoryAdapter(),
		NewLocationAdapter(),
		NewTodoAdapter(),
		NewSettingAdapter(),
	} {
		r.adapters[adapter.Type()] = adapter
		r.order = append(r.order, adapter.Type())
	}
	return r
}

// Get returns the adapter for the entity type or ErrUnknownEntityType.
func (r *Registry) Get(entityType models.EntityType) (TypeAdapter, error) {
	adapter, ok := r.adapters[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, entityType)
	}
	return adapter, nil
}

// All returns every registered adapter in registration order.
func (r *Registry) All() []TypeAdapter {
	adapters := make([]TypeAdapter, 0, len(r.order))
	for _, entityType := range r.order {
		adapters = append(adapters, r.adapters[entityType])
	}
	return adapters
}
