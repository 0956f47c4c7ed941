package models

// UserDB represents a user record in the database
type UserDB struct {
	ID        int64  `json:"id" db:"id"`                 // Primary key
	Username  string `json:"username" db:"username"`     // Unique username
	Password  string `json:"-" db:"password"`            // Hashed password, never plaintext
	Email     string `json:"email" db:"email"`           // User email
	FirstName string `json:"first_name" db:"first_name"` // Given name
	LastName  string `json:"last_name" db:"last_name"`   // Family name
}

// Profile is a user together with the feedback they own.
type Profile struct {
	User     *UserDB
	Feedback []FeedbackDB
}
