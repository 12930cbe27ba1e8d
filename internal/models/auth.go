package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the JWT claims of one student session.
type SessionClaims struct {
	StudentName string `json:"studentName"`
	SheetID     string `json:"sheetId"`
	jwt.RegisteredClaims
}
