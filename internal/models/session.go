package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed payload carried in the session cookie. SID keys
// the server-side session registry; a token is only valid while its SID is
// still registered.
type SessionClaims struct {
	EmployeeID string `json:"sub"`
	SID        string `json:"sid"`
	jwt.RegisteredClaims
}
