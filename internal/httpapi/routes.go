package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"auction-draft-server/internal/hub"
	"auction-draft-server/internal/identity"
	"auction-draft-server/internal/ws"
)

func SetupRoutes(h *hub.Hub, idp identity.Provider, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, idp, log))
	return r
}
