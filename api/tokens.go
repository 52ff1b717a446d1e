package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

var errInvalidToken = errors.New("invalid token")

// tokenClaims keeps the "id" payload key existing clients already decode.
type tokenClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

func (app *application) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(app.config.secret))
}

func (app *application) verifyToken(tokenStr string) (int64, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(app.config.secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}
	return claims.UserID, nil
}
