package models

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only role issued by the login endpoint.
const RoleAdmin = "admin"

// JWTClaims represents the access token claims.
type JWTClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
