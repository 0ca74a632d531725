// Package identity resolves opaque bearer tokens to draft participants. The
// room treats the admin flag as an opaque capability; who gets it is the
// identity service's business.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Participant struct {
	ID          string
	DisplayName string
	TeamID      string
	Admin       bool
}

type Provider interface {
	Resolve(ctx context.Context, token string) (Participant, error)
}

// JWTProvider verifies HS256 tokens minted by the league's auth service.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

type draftClaims struct {
	DisplayName string `json:"name"`
	TeamID      string `json:"team_id"`
	Admin       bool   `json:"admin"`
	jwt.RegisteredClaims
}

func (p *JWTProvider) Resolve(_ context.Context, token string) (Participant, error) {
	var claims draftClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil {
		return Participant{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Participant{}, ErrInvalidToken
	}
	return Participant{
		ID:          claims.Subject,
		DisplayName: claims.DisplayName,
		TeamID:      claims.TeamID,
		Admin:       claims.Admin,
	}, nil
}

// Mint signs a participant token. Exists for local development and tests;
// production tokens come from the auth service with the same claim set.
func (p *JWTProvider) Mint(participant Participant) (string, error) {
	claims := draftClaims{
		DisplayName: participant.DisplayName,
		TeamID:      participant.TeamID,
		Admin:       participant.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: participant.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
