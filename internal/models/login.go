package models

import "strings"

// LoginForm holds the credentials submitted on the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Trim strips surrounding whitespace from the username.
func (f *LoginForm) Trim() {
	f.Username = strings.TrimSpace(f.Username)
}
