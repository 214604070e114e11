package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is an employee account
type User struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	EmployeeID   sql.NullString `db:"employee_id" json:"employee_id,omitempty"`
	PasswordHash string         `db:"password_hash" json:"-"`
	IsAdmin      bool           `db:"is_admin" json:"is_admin"`
	IsActive     bool           `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
