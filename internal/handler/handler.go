package handler

import (
	"github.com/homekeepapp/go-home-keeper/internal/logger"
	"github.com/homekeepapp/go-home-keeper/internal/service"
)

type Handler struct {
	entities service.EntityService
	engine   SyncController
	version  string

	logger *logger.Logger
}

func NewHandler(entities service.EntityService, engine SyncController, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		entities: entities,
		engine:   engine,
		version:  version,
		logger:   logger,
	}
}
