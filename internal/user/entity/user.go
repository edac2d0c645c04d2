package entity

import "time"

// User represents an account row in the `users` table.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserView is the public projection returned to clients; it never carries
// the password hash.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// View returns the public projection of u.
func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}
