package user

import "time"

// Profile is the public view of a user
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

// ToProfile converts entity to profile
func ToProfile(u *User) *Profile {
	p := &Profile{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.EmployeeID.Valid {
		p.EmployeeID = u.EmployeeID.String
	}
	return p
}

// AdminUpdateRequest represents an admin edit of a user
type AdminUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=200"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}
