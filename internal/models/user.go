package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SafeUser is the projection of a User that may cross the trust boundary.
type SafeUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Safe strips the password hash and returns the client-facing projection.
func (u User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// EnrichedUser is a SafeUser augmented with derived task statistics.
// It is computed on demand and never stored.
type EnrichedUser struct {
	SafeUser
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
}

// Principal is the authenticated identity extracted from a verified token.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
