package queue

import "errors"

// Error taxonomy for the ticketing core. Handlers map these onto HTTP codes;
// everything else that leaks out of the store is wrapped as ErrUnavailable.
var (
	ErrUnauthenticated    = errors.New("sign-in required")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrConflict           = errors.New("conflicting update")
	ErrUnavailable        = errors.New("store unavailable")
)
