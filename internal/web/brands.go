package web

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/seanzhanng/teaelo/internal/back"
	"github.com/seanzhanng/teaelo/internal/util"
)

// Hard cutoff on leaderboard reads, nobody scrolls past this anyway.
const maxLeaderboardLimit = 250

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit", 50)
	if limit <= 0 || limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	offset := intQueryParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	leaderboard, err := s.back.GetLeaderboard(limit, offset, r.URL.Query().Get("search"))
	if err != nil {
		s.backError(w, err)
		return
	}

	s.cache(w, "public", 1*time.Minute)
	s.response(w, http.StatusOK, leaderboard)
}

func (s *Server) getRandomPair(w http.ResponseWriter, r *http.Request) {
	pair, err := s.back.GetRandomPair(r.URL.Query().Get("country"))
	if err != nil {
		s.backError(w, err)
		return
	}

	// Never cached, a pairing must be fresh for every vote.
	s.response(w, http.StatusOK, pair[:])
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.errorMessage(w, http.StatusBadRequest, "invalid brand id")
		return
	}

	brand, err := s.back.GetBrand(util.UUIDAsBlob(id))
	if err != nil {
		s.backError(w, err)
		return
	}

	s.cache(w, "public", 1*time.Minute)
	s.response(w, http.StatusOK, brand)
}

func (s *Server) postBrand(w http.ResponseWriter, r *http.Request) {
	var meta back.BrandMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		s.errorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	brand, err := s.back.CreateBrand(meta)
	if err != nil {
		s.backError(w, err)
		return
	}

	s.response(w, http.StatusCreated, brand)
}

func (s *Server) patchBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.errorMessage(w, http.StatusBadRequest, "invalid brand id")
		return
	}

	patch, err := ioutil.ReadAll(r.Body)
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	brand, err := s.back.PatchBrand(util.UUIDAsBlob(id), patch)
	if err != nil {
		s.backError(w, err)
		return
	}

	s.response(w, http.StatusOK, brand)
}

func (s *Server) deleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.errorMessage(w, http.StatusBadRequest, "invalid brand id")
		return
	}

	if err := s.back.DeleteBrand(util.UUIDAsBlob(id)); err != nil {
		s.backError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	str := r.URL.Query().Get(name)
	if str == "" {
		return fallback
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}

	return v
}
