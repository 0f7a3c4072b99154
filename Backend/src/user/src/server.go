package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

type Server struct {
	store  UserStore
	pub    *EventPublisher
	secret string
	ttl    time.Duration
}

func NewServer(store UserStore, pub *EventPublisher, secret string, ttl time.Duration) *Server {
	return &Server{store: store, pub: pub, secret: secret, ttl: ttl}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/users", s.handleRegister)
	mux.HandleFunc("/users/me", s.handleProfile)
	mux.HandleFunc("/auth/login", s.handleLogin)
	return mux
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var input CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}
	if existing, err := s.store.GetByUsername(r.Context(), input.Username); err != nil {
		s.fail(w, err)
		return
	} else if existing != nil {
		http.Error(w, "username already registered", http.StatusConflict)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.fail(w, err)
		return
	}
	u, err := s.store.Create(r.Context(), &User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Roles:        []string{"user"},
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.pub != nil {
		_ = s.pub.Publish("user.created", UserCreated{UserID: u.ID.Hex(), Username: u.Username})
	}
	writeJSON(w, u)
}

// validateUser is the credential check: lookup plus bcrypt compare, one
// opaque error for both failure modes.
func (s *Server) validateUser(ctx context.Context, username, password string) (*User, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return u, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u, err := s.validateUser(r.Context(), input.Username, input.Password)
	if errors.Is(err, errInvalidCredentials) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	token, err := issueToken(s.secret, u, s.ttl)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, map[string]string{"accessToken": token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" || raw == r.Header.Get("Authorization") {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	claims, err := parseToken(s.secret, raw)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	u, err := s.store.GetByID(r.Context(), claims.UserID)
	if err != nil {
		s.fail(w, err)
		return
	}
	if u == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, u)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("user operation failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
