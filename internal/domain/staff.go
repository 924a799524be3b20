package domain

import "time"

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// StaffUser is a back-office account: door staff scan tickets, admins also
// manage events and issue invitations.
type StaffUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
