package dto

// AdminCredentialsRequest carries the email/password pair used by both admin
// registration and login.
type AdminCredentialsRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SessionStatusResponse reports whether the caller holds a valid admin
// session.
type SessionStatusResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
}
