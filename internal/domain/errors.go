package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when no caller identity could be resolved.
	ErrUnauthorized = errors.New("authorization required")
	// ErrForbidden is returned when the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRegistered is returned when the user is already registered
	// for the conference. Conflict, not fatal; retrying will not help.
	ErrAlreadyRegistered = errors.New("already registered for this conference")
	// ErrNoSeatsAvailable is returned when the conference has no seats left.
	ErrNoSeatsAvailable = errors.New("no seats available")
	// ErrAlreadyInWishlist is returned when the session is already on the
	// user's wishlist.
	ErrAlreadyInWishlist = errors.New("session already in wishlist")
	// ErrSeatInvariant is returned when releasing a seat would push
	// seats_available past max_attendees. That means the seat count was
	// already corrupt; the transaction is rolled back instead of clamping.
	ErrSeatInvariant = errors.New("seat count exceeds conference capacity")
	// ErrContention is returned after the registration transaction exhausted
	// its retries on serialization conflicts. Transient; the caller may retry.
	ErrContention = errors.New("transaction contention, try again")

	// ErrDuplicateEmail is returned when signing up with an email that is
	// already in use.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrDuplicateSpeaker is returned when creating a speaker whose name is taken.
	ErrDuplicateSpeaker = errors.New("speaker name already in use")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
