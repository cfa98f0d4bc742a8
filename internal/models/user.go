// Package models defines the record types persisted by the civicbridge
// store: users, projects, shared resources, and the session pointer.
package models

// User is a registered portal account. PasswordHash holds a bcrypt hash;
// the plaintext password never reaches storage.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	PasswordHash string `json:"passwordHash"`
}

// SessionUser is the session pointer payload: a User with the credential
// field stripped. At most one exists per store at a time.
type SessionUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Session returns the user's session pointer representation.
func (u User) Session() SessionUser {
	return SessionUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
}
