package model

import "time"

// Staff roles.  Role names match the values carried in the JWT "role"
// claim and checked by the role middleware.
const (
    RoleDoctor = "DOCTOR"
    RoleNurse  = "NURSE"
    RoleAdmin  = "ADMIN"
)

// Staff mirrors the 'staff' table.  Staff members authenticate with
// email and password and act under exactly one role.
type Staff struct {
    ID           uint64    // staff.id
    Email        string    // staff.email
    PasswordHash string    // staff.password_hash
    FullName     string    // staff.full_name
    Role         string    // staff.role
    IsActive     bool      // staff.is_active
    CreatedAt    time.Time // staff.created_at
    UpdatedAt    time.Time // staff.updated_at
}
