// Package models defines the data shapes exchanged with the HireBoard
// backend over its JSON contract.
package models

// UserProfile is the identity returned by the backend on successful
// authentication and by the profile endpoints. It is not persisted client
// side and must be re-fetched after a restart.
type UserProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body. Phone is optional.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

// ProfileUpdate carries the editable profile fields for PUT /users/me.
// Empty fields are omitted and left untouched by the backend.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
