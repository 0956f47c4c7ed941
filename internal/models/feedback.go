package models

// FeedbackDB represents a feedback record in the database
type FeedbackDB struct {
	ID       int64  `json:"id" db:"id"`             // Primary key
	Title    string `json:"title" db:"title"`       // Short title, up to 100 characters
	Content  string `json:"content" db:"content"`   // Free text body
	Username string `json:"username" db:"username"` // Owner, references users.username
}
