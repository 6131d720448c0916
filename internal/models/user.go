package models

import "github.com/golang-jwt/jwt/v5"

// UserProfile describes the signed in user shown in the sidebar footer.
type UserProfile struct {
	ID     string `db:"id" json:"id,omitempty"`
	Email  string `db:"email" json:"email"`
	Name   string `db:"full_name" json:"name"`
	Avatar string `db:"-" json:"avatar"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}
