package auth

import (
	"airport-ops/tarmac/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is what handlers and services know about the caller
type UserClaims interface {
	UserID() string
	Role() string
	AirportID() string
	Source() string
	HasPermission(action string) bool
}

// Capabilities
const (
	PermissionCreateFlight = "flight:create"
	PermissionEditFlight   = "flight:edit"
	PermissionDeleteFlight = "flight:delete"
	PermissionListAll      = "flight:list_all"
)

var rolePermissions = map[constants.ActorRole]map[string]bool{
	constants.RoleSuperAdmin: {
		PermissionCreateFlight: true,
		PermissionEditFlight:   true,
		PermissionDeleteFlight: true,
		PermissionListAll:      true,
	},
	constants.RoleAdminRegional: {
		PermissionCreateFlight: true,
		PermissionEditFlight:   true,
	},
}

// JWTClaims is the payload of the bearer tokens issued to operators
type JWTClaims struct {
	UserUUID    string              `json:"uid"`
	RoleValue   constants.ActorRole `json:"role"`
	AirportUUID string              `json:"airport_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) UserID() string    { return c.UserUUID }
func (c *JWTClaims) Role() string      { return c.RoleValue.String() }
func (c *JWTClaims) AirportID() string { return c.AirportUUID }
func (c *JWTClaims) Source() string    { return "JWT" }

func (c *JWTClaims) HasPermission(action string) bool {
	return rolePermissions[c.RoleValue][action]
}

// CanAccessAirport reports whether the caller may act on records touching
// any of the given airports
func CanAccessAirport(c UserClaims, airportIDs ...string) bool {
	if c == nil {
		return false
	}
	if c.HasPermission(PermissionListAll) {
		return true
	}
	for _, id := range airportIDs {
		if id != "" && id == c.AirportID() {
			return true
		}
	}
	return false
}
