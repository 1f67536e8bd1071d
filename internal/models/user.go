package models

// User represents a registered identity in the system
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Not serialized
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
}
