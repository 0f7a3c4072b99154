package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func testToken(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	claims := userClaims{
		UserID:   userID,
		Username: "tester",
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func testServer(store CartStore) http.Handler {
	return NewServer(NewCartService(store, nil)).Routes(testSecret)
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCartEndpoints(t *testing.T) {
	t.Run("rejects missing token", func(t *testing.T) {
		rec := doJSON(t, testServer(newFakeStore()), http.MethodGet, "/cart", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejects token without user role", func(t *testing.T) {
		tok := testToken(t, "user1", "admin")
		rec := doJSON(t, testServer(newFakeStore()), http.MethodGet, "/cart", tok, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("add returns the persisted cart", func(t *testing.T) {
		tok := testToken(t, "user1", "user")
		rec := doJSON(t, testServer(newFakeStore()), http.MethodPost, "/cart", tok,
			`{"productId":"p1","name":"one","price":2,"quantity":3}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var cart Cart
		if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
			t.Fatal(err)
		}
		if cart.UserID != "user1" || cart.TotalPrice != 6 {
			t.Fatalf("cart = %+v", cart)
		}
	})

	t.Run("remove of unknown product is 404", func(t *testing.T) {
		store := seeded()
		tok := testToken(t, "user1", "user")
		rec := doJSON(t, testServer(store), http.MethodDelete, "/cart", tok, `{"productId":"nope"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Item does not exist") {
			t.Fatalf("body = %s", rec.Body)
		}
	})

	t.Run("update clamps negative quantity", func(t *testing.T) {
		store := seeded()
		tok := testToken(t, "user1", "user")
		rec := doJSON(t, testServer(store), http.MethodPut, "/cart", tok, `{"productId":"p1","quantity":-2}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var cart Cart
		if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
			t.Fatal(err)
		}
		if cart.Items[0].Quantity != 0 {
			t.Fatalf("quantity = %d, want 0", cart.Items[0].Quantity)
		}
	})

	t.Run("delete cart by path id", func(t *testing.T) {
		store := seeded()
		tok := testToken(t, "user1", "user")
		rec := doJSON(t, testServer(store), http.MethodDelete, "/cart/user1", tok, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		rec = doJSON(t, testServer(store), http.MethodDelete, "/cart/user1", tok, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("second delete status = %d, want 404", rec.Code)
		}
	})
}
