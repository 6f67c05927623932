package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/onnwee/graphlayout/internal/apierr"
	"github.com/onnwee/graphlayout/internal/logger"
)

// WebSocket handles GET /simulations/{id}/ws: upgrades the connection and
// subscribes it to the simulation's tick/end broadcasts until it
// disconnects.
func (st *Store) WebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, _, ok := st.get(id); !ok {
			apierr.WriteErrorWithContext(w, r, apierr.SimNotFound(id))
			return
		}
		if err := st.hub.Serve(w, r, id); err != nil {
			logger.ErrorContext(r.Context(), "failed to upgrade websocket", "simulation_id", id, "error", err)
		}
	}
}
