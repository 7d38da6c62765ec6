package auth

import "errors"

var (
	ErrCredentialsRequired = errors.New("Email and password are required")
	ErrInvalidEmail        = errors.New("Invalid Email")
	ErrIncorrectPassword   = errors.New("Incorrect Password")
	ErrNotAuthenticated    = errors.New("Not authenticated")
	ErrUserBanned          = errors.New("Account is suspended")

	ErrUsernameTaken = errors.New("Username already registered")
	ErrEmailTaken    = errors.New("Email already registered")
)
