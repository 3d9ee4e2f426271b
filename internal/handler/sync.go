package handler

import (
	"net/http"

	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/utils"
	"github.com/homekeepapp/go-home-keeper/models"
)

type syncStatusResponse struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, syncStatusResponse{Enabled: h.engine.Enabled()}, http.StatusOK)
}

// enableSync flips the durable sync switch on. The call blocks through the
// initial full sync, so the UI can refresh its views as soon as it returns.
func (h *Handler) enableSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.engine.Enable(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.enableSync").Msg("error enabling sync")
		http.Error(w, "error enabling sync", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) disableSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.engine.Disable(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.disableSync").Msg("error disabling sync")
		http.Error(w, "error disabling sync", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// triggerSync enqueues a high-priority full sync, either for the entity type
// named in the "entity_type" query parameter or for every type when the
// parameter is absent. The work is asynchronous; listeners on the event bus
// observe the outcome.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if requested := r.URL.Query().Get("entity_type"); requested != "" {
		entityType, ok := parseEntityType(requested)
		if !ok {
			log.Error().
				Str("func", "*Handler.triggerSync").
				Str("entity_type", requested).
				Msg("unknown entity type requested")
			http.Error(w, "unknown entity type", http.StatusBadRequest)
			return
		}
		h.engine.Enqueue(entityType, models.OpFull, models.PriorityHigh)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	for _, entityType := range models.AllEntityTypes() {
		h.engine.Enqueue(entityType, models.OpFull, models.PriorityHigh)
	}
	w.WriteHeader(http.StatusAccepted)
}

func parseEntityType(s string) (models.EntityType, bool) {
	for _, entityType := range models.AllEntityTypes() {
		if string(entityType) == s {
			return entityType, true
		}
	}
	return "", false
}
