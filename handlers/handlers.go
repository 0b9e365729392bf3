package handlers

import (
	"log/slog"

	"datadeck/agents"
	"datadeck/service"
	"datadeck/warehouse"
)

// @title           DataDeck Analytics Assistant API
// @version         1.0
// @description     Ask natural-language questions about your warehouse data: SQL generation, execution, AI analysis and chart specifications.

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type Handlers struct {
	genie       *service.GenieService
	chat        *service.ChatService
	coordinator *agents.Coordinator
	warehouse   *warehouse.Service
	log         *slog.Logger
}

func New(genie *service.GenieService, chat *service.ChatService, coordinator *agents.Coordinator, wh *warehouse.Service, log *slog.Logger) *Handlers {
	return &Handlers{
		genie:       genie,
		chat:        chat,
		coordinator: coordinator,
		warehouse:   wh,
		log:         log,
	}
}
