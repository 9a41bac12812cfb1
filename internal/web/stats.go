package web

import (
	"net/http"
	"time"

	"github.com/seanzhanng/teaelo/internal/back"
)

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	misc, err := s.back.GetMiscStats()
	if err != nil {
		s.backError(w, err)
		return
	}

	distribution, err := s.back.GetRatingDistribution()
	if err != nil {
		s.backError(w, err)
		return
	}

	s.cache(w, "public", 5*time.Minute)
	s.response(w, http.StatusOK, struct {
		Misc         back.StatsMisc      `json:"misc"`
		Distribution []back.RatingBucket `json:"rating_distribution"`
	}{
		Misc:         misc,
		Distribution: distribution,
	})
}
