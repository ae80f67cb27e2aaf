package models

import "github.com/golang-jwt/jwt/v5"

// TenantClaims are the claims the admin panel embeds in tokens it issues.
// This service only resolves them; it never issues tokens.
type TenantClaims struct {
	UserID   string `json:"user_id"`
	SchoolID string `json:"school_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
