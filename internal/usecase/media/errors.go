package media

import "errors"

var (
	ErrValidation          = errors.New("media: invalid input")
	ErrMediaNotFound       = errors.New("media: not found")
	ErrConcurrencyConflict = errors.New("media: concurrent modification")
)

// Storage errors. ErrObjectNotFound and ErrTransient are expected to clear up on
// their own; the others are fatal for the operation that hit them.
var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrTransient      = errors.New("storage: transient error")
	ErrInternal       = errors.New("storage: internal error")
)
