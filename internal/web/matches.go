package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/seanzhanng/teaelo/internal/back"
	"github.com/seanzhanng/teaelo/internal/util"
)

type matchPayload struct {
	WinnerID        uuid.UUID `json:"winner_id"`
	LoserID         uuid.UUID `json:"loser_id"`
	IsTie           bool      `json:"is_tie"`
	LocationCountry string    `json:"location_country"`
	LocationCity    string    `json:"location_city"`
}

func (s *Server) postMatch(w http.ResponseWriter, r *http.Request) {
	var payload matchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if payload.WinnerID == uuid.Nil || payload.LoserID == uuid.Nil {
		s.errorMessage(w, http.StatusBadRequest, "winner_id and loser_id are required")
		return
	}

	result, err := s.back.RecordMatch(
		util.UUIDAsBlob(payload.WinnerID),
		util.UUIDAsBlob(payload.LoserID),
		payload.IsTie,
		back.MatchLocation{
			Country: payload.LocationCountry,
			City:    payload.LocationCity,
		},
	)
	if err != nil {
		s.backError(w, err)
		return
	}

	s.response(w, http.StatusOK, result)
}
