package domain

import "errors"

// Sentinel errors returned by repositories and services. Handlers map these
// to HTTP status codes; everything else is treated as an internal error.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrNotMember indicates the acting user is not a member of the group.
	ErrNotMember = errors.New("user is not a member of the group")

	// ErrNotAdmin indicates the acting user does not hold the admin role.
	ErrNotAdmin = errors.New("user is not an admin of the group")

	// ErrForbidden indicates the acting user may not perform the operation,
	// e.g. deleting a message they did not send.
	ErrForbidden = errors.New("operation not permitted")
)
