package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"golang.org/x/time/rate"

	"github.com/seanzhanng/teaelo/internal/back"
	"github.com/seanzhanng/teaelo/internal/config"
	"github.com/seanzhanng/teaelo/internal/util"
)

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/", noContent)

	r.Post("/v1/matches", s.rateLimited(s.postMatch))
	r.Get("/v1/brands", s.getLeaderboard)
	r.Get("/v1/brands/random", s.getRandomPair)
	r.Get("/v1/brand/{id}", s.getBrand)
	r.Get("/v1/stats", s.getStats)

	r.Post("/v1/brands", s.adminOnly(s.postBrand))
	r.Patch("/v1/brand/{id}", s.adminOnly(s.patchBrand))
	r.Delete("/v1/brand/{id}", s.adminOnly(s.deleteBrand))
	r.Post("/v1/discovery", s.adminOnly(s.postDiscovery))

	return r
}

type Server struct {
	http    *http.Server
	back    *back.Back
	config  *config.Config
	limiter *rate.Limiter
}

func NewServer(b *back.Back, conf *config.Config) *Server {
	s := &Server{
		back:   b,
		config: conf,

		// Votes are cheap but write-heavy, one burst per click is plenty.
		limiter: rate.NewLimiter(50, 10),
	}

	s.http = &http.Server{
		Addr:         conf.HTTPAddr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  10 * time.Second,
		Handler:      s.setupRouter(),
	}

	return s
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) Serve(wg *sync.WaitGroup, done <-chan struct{}) {
	log.Println("info: starting HTTP server")
	wg.Add(1)
	defer wg.Done()

	go func() {
		err := s.http.ListenAndServe()
		if err == http.ErrServerClosed {
			log.Println("info: HTTP server closed")
			return
		}

		log.Fatalf("webserver crashed: %s", err)
	}()

	<-done
	if err := s.http.Close(); err != nil {
		log.Printf("warning: unable to close webserver: %s", err)
	}
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.errorMessage(w, http.StatusTooManyRequests, "slow down")
			return
		}

		h(w, r)
	}
}

func (s *Server) response(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	response, err := json.Marshal(data)
	if err != nil {
		log.Printf("error: unable to marshal response: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)

	if _, err := w.Write(response); err != nil {
		log.Printf("error: unable to send response: %s", err)
	}
}

// error logs err and writes the JSON error envelope clients expect. The
// message is only forwarded for errors that are safe to show.
func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Printf("error: %s", err)

	var public util.ErrPublic
	if errors.As(err, &public) {
		s.errorMessage(w, code, string(public))
		return
	}

	s.errorMessage(w, code, http.StatusText(code))
}

func (s *Server) errorMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("error: unable to send error response: %s", err)
	}
}

// backError maps the engine error taxonomy to HTTP statuses.
func (s *Server) backError(w http.ResponseWriter, err error) {
	var public util.ErrPublic

	switch {
	case errors.Is(err, back.ErrInvalidMatch):
		s.error(w, err, http.StatusBadRequest)
	case errors.Is(err, back.ErrBrandNotFound):
		s.error(w, err, http.StatusNotFound)
	case errors.Is(err, back.ErrConflict):
		s.error(w, err, http.StatusConflict)
	case errors.As(err, &public):
		s.error(w, err, http.StatusBadRequest)
	default:
		s.error(w, err, http.StatusInternalServerError)
	}
}

func (s *Server) cache(w http.ResponseWriter, scope string, d time.Duration) {
	w.Header().Set("Cache-Control", fmt.Sprintf("%s,max-age=%d", scope, d/time.Second))
}
