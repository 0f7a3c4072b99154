package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byUsername map[string]*User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byUsername: map[string]*User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, u *User) (*User, error) {
	u.ID = primitive.NewObjectID()
	f.byUsername[u.Username] = u
	return u, nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	return f.byUsername[username], nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.byUsername {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, nil
}

func testUserServer() (*Server, *fakeUserStore) {
	store := newFakeUserStore()
	return NewServer(store, nil, "test-secret", time.Hour), store
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestRegister(t *testing.T) {
	t.Run("stores a bcrypt hash, never the password", func(t *testing.T) {
		srv, store := testUserServer()
		rec := post(srv.Routes(), "/users", `{"username":"ann","password":"hunter2"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		u := store.byUsername["ann"]
		if u == nil || u.PasswordHash == "hunter2" {
			t.Fatalf("stored user = %+v", u)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")); err != nil {
			t.Fatalf("hash does not verify: %v", err)
		}
		if !strings.Contains(rec.Body.String(), `"username":"ann"`) || strings.Contains(rec.Body.String(), "hunter2") {
			t.Fatalf("response leaks credentials: %s", rec.Body)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		srv, _ := testUserServer()
		post(srv.Routes(), "/users", `{"username":"ann","password":"hunter2"}`)
		rec := post(srv.Routes(), "/users", `{"username":"ann","password":"other"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		srv, _ := testUserServer()
		rec := post(srv.Routes(), "/users", `{"username":"ann"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestLogin(t *testing.T) {
	srv, _ := testUserServer()
	post(srv.Routes(), "/users", `{"username":"ann","password":"hunter2"}`)

	t.Run("valid credentials yield a parsable token", func(t *testing.T) {
		rec := post(srv.Routes(), "/auth/login", `{"username":"ann","password":"hunter2"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		claims, err := parseToken("test-secret", resp["accessToken"])
		if err != nil {
			t.Fatal(err)
		}
		if claims.Username != "ann" || !contains(claims.Roles, "user") {
			t.Fatalf("claims = %+v", claims)
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rec := post(srv.Routes(), "/auth/login", `{"username":"ann","password":"nope"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown user gets the same opaque error", func(t *testing.T) {
		rec := post(srv.Routes(), "/auth/login", `{"username":"ghost","password":"nope"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "invalid credentials") {
			t.Fatalf("body = %s", rec.Body)
		}
	})
}

func TestProfile(t *testing.T) {
	srv, _ := testUserServer()
	post(srv.Routes(), "/users", `{"username":"ann","password":"hunter2"}`)
	rec := post(srv.Routes(), "/auth/login", `{"username":"ann","password":"hunter2"}`)
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp["accessToken"])
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"username":"ann"`) {
		t.Fatalf("body = %s", rec.Body)
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
