package models

import "strings"

// FeedbackForm holds the fields submitted when adding or editing feedback.
type FeedbackForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}

// Trim strips surrounding whitespace from title and content.
func (f *FeedbackForm) Trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
}
