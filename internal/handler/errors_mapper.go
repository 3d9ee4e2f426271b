package handler

import (
	"errors"
	"net/http"

	"github.com/homekeepapp/go-home-keeper/internal/registry"
	"github.com/homekeepapp/go-home-keeper/internal/service"
	"github.com/homekeepapp/go-home-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrEntityNotFound:        http.StatusNotFound,
	registry.ErrUnknownEntityType:    http.StatusNotFound,
	registry.ErrMissingRequiredField: http.StatusBadRequest,

	store.ErrCollectionNotSaved: http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
