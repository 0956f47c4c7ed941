package models

import "strings"

// RegisterForm holds the fields submitted on the registration page.
// The username becomes a path segment of the profile URL, so characters that
// would split or truncate that segment are rejected.
type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=20,ne=.,ne=..,excludesall=/?#%\\"`
	Password  string `form:"password" validate:"required"`
	Email     string `form:"email" validate:"required,max=50"`
	FirstName string `form:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name" validate:"required,max=30"`
}

// Trim strips surrounding whitespace from every field except the password.
func (f *RegisterForm) Trim() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
}
