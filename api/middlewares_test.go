package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAuthMissingToken(t *testing.T) {
	app, _ := newTestApplication(t)
	called := false
	handler := app.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tarefas", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler ran without a token")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	app, _ := newTestApplication(t)
	called := false
	handler := app.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/tarefas", nil)
	req.Header.Set("Authorization", "bogus")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler ran with an invalid token")
	}
}

func TestRequireAuthInjectsCallerID(t *testing.T) {
	app, _ := newTestApplication(t)
	token, err := app.issueToken(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotID int64
	handler := app.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotID = callerID(r)
	})

	// the wire format is the raw token, but a Bearer prefix must also work
	for _, header := range []string{token, "Bearer " + token} {
		gotID = 0
		req := httptest.NewRequest(http.MethodGet, "/tarefas", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("header %q: got status %d, want 200", header, rec.Code)
		}
		if gotID != 7 {
			t.Fatalf("header %q: got caller id %d, want 7", header, gotID)
		}
	}
}
