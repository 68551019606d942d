package model

import "time"

// Role enumerates the access levels stored in the users.role column.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User mirrors the 'users' table. The password hash and the currently bound
// refresh token never leave the server, hence the "-" JSON tags.
type User struct {
	ID             uint64    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	RefreshToken   string    `json:"-"`
	Avatar         string    `json:"avatar"`
	Role           Role      `json:"role"`
	Confirmed      bool      `json:"confirmed"`
	CreatedAt      time.Time `json:"-"`
}
