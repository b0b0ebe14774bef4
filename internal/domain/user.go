package domain

import "time"

// User owns a login. All projects are shared by every user.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
