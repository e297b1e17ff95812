package auth

import (
	"errors"
	"fmt"
	"time"

	"airport-ops/tarmac/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "tarmac"

// IssueToken signs an HS256 token for the actor
func IssueToken(secret []byte, userID string, role constants.ActorRole, airportID string, ttl time.Duration) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if role == constants.RoleAdminRegional && airportID == "" {
		return "", errors.New("admin_regional tokens need an airport id")
	}

	now := time.Now()
	claims := JWTClaims{
		UserUUID:    userID,
		RoleValue:   role,
		AirportUUID: airportID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry and returns the claims
func ParseToken(secret []byte, raw string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !claims.RoleValue.IsValid() {
		return nil, fmt.Errorf("invalid token: unknown role %q", claims.RoleValue)
	}
	if claims.UserUUID == "" {
		return nil, errors.New("invalid token: missing uid")
	}
	return claims, nil
}
