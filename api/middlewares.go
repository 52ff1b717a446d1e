package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type userIDContext string

const userIDContextKey userIDContext = "userIDContextKey"

// requireAuth gates a route behind a verified bearer token and injects the
// caller's user id into the request context. It runs before any handler
// logic, so an unauthenticated request never reaches the storage layer.
func (app *application) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		token := r.Header.Get("Authorization")
		if token == "" {
			writeError(w, errors.New("token não informado"), http.StatusUnauthorized)
			return
		}
		// existing clients send the raw token; a Bearer prefix is tolerated
		token = strings.TrimPrefix(token, "Bearer ")
		userID, err := app.verifyToken(token)
		if err != nil {
			writeError(w, errors.New("token inválido"), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func callerID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDContextKey).(int64)
	return id
}

func (app *application) enableCORS(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")

		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, o := range app.config.cors.trustedOrigins {
				if origin == o || o == "*" {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					// preflight request
					if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
						w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, PUT, PATCH, DELETE")
						w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						w.WriteHeader(http.StatusOK)
						return
					}
					break
				}
			}
		}
		next.ServeHTTP(w, r)
	}
}
