package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type Server struct {
	repo Repository
	svc  *Service
}

func NewServer(repo Repository, svc *Service) *Server {
	return &Server{repo: repo, svc: svc}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/store/products", s.handleProducts)
	mux.HandleFunc("/store/products/", s.handleProduct)
	return mux
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		search := r.URL.Query().Get("search")
		category := r.URL.Query().Get("category")
		var (
			products []*Product
			err      error
		)
		if search != "" || category != "" {
			products, err = s.repo.Filter(r.Context(), search, category)
		} else {
			products, err = s.repo.All(r.Context())
		}
		if err != nil {
			s.fail(w, err)
			return
		}
		if products == nil {
			products = []*Product{}
		}
		writeJSON(w, products)
	case http.MethodPost:
		var input ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := s.repo.Create(r.Context(), input)
		if err != nil {
			s.fail(w, err)
			return
		}
		s.svc.OnCreated(r.Context(), p)
		writeJSON(w, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/store/products/")
	if id == "" {
		http.Error(w, "missing product id", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.repo.Get(r.Context(), id)
		s.respond(w, p, err)
	case http.MethodPut:
		var input ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := s.repo.Update(r.Context(), id, input)
		if err == nil && p != nil {
			s.svc.OnUpdated(r.Context(), p)
		}
		s.respond(w, p, err)
	case http.MethodDelete:
		p, err := s.repo.Delete(r.Context(), id)
		if err == nil && p != nil {
			s.svc.OnDeleted(r.Context(), id)
		}
		s.respond(w, p, err)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) respond(w http.ResponseWriter, p *Product, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	if p == nil {
		http.Error(w, "Product does not exist!", http.StatusNotFound)
		return
	}
	writeJSON(w, p)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("catalog operation failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
