package models

// SessionResponse is returned by login, register, and the session lookup
// endpoint.
type SessionResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}
