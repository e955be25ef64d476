package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// DemoToken is the unsigned fallback credential: a base64-encoded JSON
// payload carrying the caller's identity. Accepted only outside
// production; see middleware.AuthMiddleware.
type DemoToken struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
}
