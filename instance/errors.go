package instance

import "errors"

var (
	ErrInvalidProp   = errors.New("depwatch: invalid prop")
	ErrUnknownMethod = errors.New("depwatch: unknown method")
	ErrNoRender      = errors.New("depwatch: instance has no render function")
	ErrDestroyed     = errors.New("depwatch: instance is destroyed")
)
