package domain

import "strings"

// User is the identity handed over by the external provider.
// Sub is the stable owner key for history and custom categories.
type User struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(u.Sub) == "" {
		errs = append(errs, NewMissingInputError("sub", "subject is required"))
	}
	if strings.TrimSpace(u.Email) == "" {
		errs = append(errs, NewMissingInputError("email", "email is required"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsAdmin reports whether the user's email matches the configured admin account.
func (u *User) IsAdmin(adminEmail string) bool {
	if u == nil || adminEmail == "" {
		return false
	}
	return strings.EqualFold(u.Email, adminEmail)
}
