package handler

const (
	errInternalServer   = "Internal server error"
	errInvalidBody      = "Invalid request body"
	errMissingFields    = "All fields are required"
	errUserExists       = "User already exists"
	errUserNotFound     = "User not found"
	errInvalidPassword  = "Invalid password"
	errPasswordTooLong  = "Password must be at most 72 bytes"
	errEventNotFound    = "Event not found"
	errInvalidDate      = "Invalid date format"
	errOAuthUnavailable = "Google sign-in is not configured"
	errUnauthorized     = "Unauthorized"
)
