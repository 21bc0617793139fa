package interfaces

import "errors"

// ErrNotFound is wrapped by every backend when a record does not exist
var ErrNotFound = errors.New("not found")
