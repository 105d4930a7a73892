package models

// User roles as presented by the directory.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User is the current user's profile as served by /users/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
