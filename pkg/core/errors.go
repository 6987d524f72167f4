// pkg/core/errors.go
package core

import "errors"

// Error kinds returned by the engine. They are wrapped with context, so
// compare with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfBounds     = errors.New("point out of bounds")
	ErrCellOccupied    = errors.New("cell occupied")
	ErrCellEmpty       = errors.New("cell empty")
	ErrOutOfRange      = errors.New("target out of range")
	ErrIllegalTarget   = errors.New("illegal target")
	ErrOutOfAmmo       = errors.New("out of ammo")
	ErrMoveTooFar      = errors.New("move too far")
)
