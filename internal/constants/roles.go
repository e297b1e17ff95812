package constants

import (
	"database/sql/driver"
	"fmt"
)

// ActorRole mirrors the role carried in an operator's token
type ActorRole string

const (
	RoleSuperAdmin    ActorRole = "superadmin"
	RoleAdminRegional ActorRole = "admin_regional"
)

// String implements fmt.Stringer
func (r ActorRole) String() string { return string(r) }

// IsValid reports whether r is a known role
func (r ActorRole) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleAdminRegional
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *ActorRole) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = ActorRole(v)
	case []byte:
		*r = ActorRole(v)
	default:
		return fmt.Errorf("ActorRole: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r ActorRole) Value() (driver.Value, error) { return string(r), nil }
