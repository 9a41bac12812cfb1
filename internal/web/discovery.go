package web

import (
	"encoding/json"
	"net/http"

	"github.com/seanzhanng/teaelo/internal/back"
)

type discoveryPayload struct {
	Places []back.Place `json:"places"`
}

func (s *Server) postDiscovery(w http.ResponseWriter, r *http.Request) {
	var payload discoveryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if len(payload.Places) == 0 {
		s.errorMessage(w, http.StatusBadRequest, "places is required")
		return
	}

	brands, err := s.back.DiscoverStores(payload.Places)
	if err != nil {
		s.backError(w, err)
		return
	}

	s.response(w, http.StatusOK, brands)
}
