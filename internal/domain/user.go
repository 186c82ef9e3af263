package domain

import "time"

const DocTypeUser = "user"

type User struct {
	ID         string    `json:"id"`
	DocType    string    `json:"doc_type,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password,omitempty"` // Save to DB but omit from responses when empty
	DOB        string    `json:"dob"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Public returns a copy of the user safe to send to clients.
func (u *User) Public() *User {
	out := *u
	out.Password = ""
	out.DocType = ""
	return &out
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	DOB      string `json:"dob" validate:"required,datetime=2006-01-02"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
