package storage

import "errors"

// Sentinel errors shared by every CAS adapter. Adapters return these exact
// values (or wraps of them) so callers can branch with errors.Is; the tree
// packages pass them through to their callers untouched.
var (
	ErrNotFound    = errors.New("storage: not found")
	ErrInvalidCID  = errors.New("storage: invalid cid")
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	ErrImmutable   = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
