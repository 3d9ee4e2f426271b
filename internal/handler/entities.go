package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/utils"
	"github.com/homekeepapp/go-home-keeper/models"
)

type listResponse struct {
	Entities []models.Syncable `json:"entities"`
	Length   int               `json:"length"`
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	entityType := models.EntityType(chi.URLParam(r, "entityType"))

	entities, err := h.entities.List(r.Context(), entityType)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntities").Msg("error listing entities")
		http.Error(w, "error listing entities", statusFromError(err))
		return
	}

	utils.WriteJSON(w, listResponse{Entities: entities, Length: len(entities)}, http.StatusOK)
}

func (h *Handler) createEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	entityType := models.EntityType(chi.URLParam(r, "entityType"))

	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Err(err).Str("func", "*Handler.createEntity").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	entity, err := h.entities.Create(r.Context(), entityType, input)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createEntity").Msg("error creating entity")
		http.Error(w, "error creating entity", statusFromError(err))
		return
	}

	utils.WriteJSON(w, entity, http.StatusCreated)
}

func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	entityType := models.EntityType(chi.URLParam(r, "entityType"))
	id := chi.URLParam(r, "id")

	entity, err := h.entities.Get(r.Context(), entityType, id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntity").Msg("error getting entity")
		http.Error(w, "error getting entity", statusFromError(err))
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}

func (h *Handler) updateEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	entityType := models.EntityType(chi.URLParam(r, "entityType"))
	id := chi.URLParam(r, "id")

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		log.Err(err).Str("func", "*Handler.updateEntity").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	entity, err := h.entities.Update(r.Context(), entityType, id, updates)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateEntity").Msg("error updating entity")
		http.Error(w, "error updating entity", statusFromError(err))
		return
	}

	utils.WriteJSON(w, entity, http.StatusOK)
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	entityType := models.EntityType(chi.URLParam(r, "entityType"))
	id := chi.URLParam(r, "id")

	if err := h.entities.Delete(r.Context(), entityType, id); err != nil {
		log.Err(err).Str("func", "*Handler.deleteEntity").Msg("error deleting entity")
		http.Error(w, "error deleting entity", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
