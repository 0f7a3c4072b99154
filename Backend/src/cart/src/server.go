package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type Server struct {
	svc *CartService
}

func NewServer(svc *CartService) *Server { return &Server{svc: svc} }

func (s *Server) Routes(secret string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/cart", requireUser(secret, http.HandlerFunc(s.handleCart)))
	mux.Handle("/cart/", requireUser(secret, http.HandlerFunc(s.handleDeleteCart)))
	return mux
}

// handleCart serves the collection endpoint: the acting user comes from
// the token, never from the body.
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	userID := claimsFrom(r).UserID
	switch r.Method {
	case http.MethodGet:
		cart, err := s.svc.GetCart(r.Context(), userID)
		s.respond(w, cart, err, "Cart does not exist")
	case http.MethodPost:
		var input ItemInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cart, err := s.svc.AddItemToCart(r.Context(), userID, input)
		s.respond(w, cart, err, "Item does not exist")
	case http.MethodPut:
		var req struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cart, err := s.svc.UpdateItemQuantity(r.Context(), userID, req.ProductID, req.Quantity)
		s.respond(w, cart, err, "Item does not exist")
	case http.MethodDelete:
		var req struct {
			ProductID string `json:"productId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cart, err := s.svc.RemoveItemFromCart(r.Context(), userID, req.ProductID)
		s.respond(w, cart, err, "Item does not exist")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleDeleteCart destroys the cart named in the path.
func (s *Server) handleDeleteCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/cart/")
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	cart, err := s.svc.DeleteCart(r.Context(), userID)
	s.respond(w, cart, err, "Cart does not exist")
}

// respond maps an absent result to 404 and a store failure to 500; a
// present cart is returned as JSON.
func (s *Server) respond(w http.ResponseWriter, cart *Cart, err error, notFoundMsg string) {
	if err != nil {
		log.Error().Err(err).Msg("cart operation failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if cart == nil {
		http.Error(w, notFoundMsg, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cart); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
