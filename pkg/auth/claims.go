package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID              uuid.UUID
	TeamID              *uuid.UUID
	Role                string
	PermissionsByModule map[string][]string
	JTI                 string
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// permissions map travels in the token so the core never reads ambient
// permission state.
type AccessTokenClaims struct {
	UserID              uuid.UUID           `json:"user_id"`
	TeamID              *uuid.UUID          `json:"team_id,omitempty"`
	Role                string              `json:"role"`
	PermissionsByModule map[string][]string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}
