package entity

import "time"

// Post is a blog entry owned by the user identified by UserID.
type Post struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Patch carries a partial update; nil fields keep their stored value.
type Patch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
