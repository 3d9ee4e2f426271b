package registry

import (
	"time"

	"github.com/homekeepapp/go-home-keeper/models"
)

type todoAdapter struct {
	jsonAdapter[models.Todo, *models.Todo]
}

// NewTodoAdapter returns the TypeAdapter for household todos.
func NewTodoAdapter() TypeAdapter {
	return &todoAdapter{jsonAdapter[models.Todo, *models.Todo]{
		entityType: models.EntityTypeTodo,
		fileKey:    "todos",
	}}
}

func (a *todoAdapter) Create(input map[string]any, homeID, id string, now time.Time) (models.Syncable, error) {
	entity, err := a.jsonAdapter.Create(input, homeID, id, now)
	if err != nil {
		return nil, err
	}

	todo := entity.(*models.Todo)
	if todo.Title == "" {
		return nil, ErrMissingRequiredField
	}
	return todo, nil
}
