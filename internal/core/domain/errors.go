package domain

import "errors"

var (
	ErrVehicleNotFound       = errors.New("vehicle not found")
	ErrAdministratorNotFound = errors.New("administrator not found")
	ErrAdministratorExists   = errors.New("administrator already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")

	// ErrUnauthenticated means no identity was proven for the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the proven identity lacks the required role.
	ErrForbidden = errors.New("access forbidden")
)
