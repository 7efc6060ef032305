package panel

import "errors"

// Errors returned by the panel API. Callers match them with errors.Is; the
// returned error usually wraps one of these with additional context.
var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrOutOfMemory         = errors.New("out of memory")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotInitialized      = errors.New("not initialized")
	ErrUnsupportedCategory = errors.New("unsupported content category")
	ErrAlreadyDestroyed    = errors.New("already destroyed")
)
