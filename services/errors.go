package services

import "errors"

// Service errors form the taxonomy the controllers translate into HTTP
// status codes. Validation and ownership failures are detected before or
// inside the store transaction; anything else surfaces as a transient
// store failure to the caller.
var (
	ErrNotFound         = errors.New("record not found")
	ErrOwnership        = errors.New("operation allowed only for the author or an admin")
	ErrBadDirection     = errors.New("vote direction must be up or down")
	ErrBodyEmpty        = errors.New("body cannot be empty")
	ErrBodyTooLong      = errors.New("body exceeds maximum length")
	ErrRatingRequired   = errors.New("rating is required for a root review on this content")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrRatingNotAllowed = errors.New("rating is not allowed here")
	ErrReplyDepth       = errors.New("replies to replies are not allowed")

	// ErrDuplicateReview is a conflict, not a validation failure: the
	// request is well-formed but collides with existing state, like a
	// taken username.
	ErrDuplicateReview = errors.New("user already reviewed this content")
)

// IsValidation reports whether err belongs to the validation class of the
// error taxonomy (rejected before any store write).
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrBadDirection),
		errors.Is(err, ErrBodyEmpty),
		errors.Is(err, ErrBodyTooLong),
		errors.Is(err, ErrRatingRequired),
		errors.Is(err, ErrRatingOutOfRange),
		errors.Is(err, ErrRatingNotAllowed),
		errors.Is(err, ErrReplyDepth):
		return true
	}
	return false
}
