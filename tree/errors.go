package tree

import "errors"

var (
	// ErrOutOfBounds reports an index below zero or past the collection size.
	ErrOutOfBounds = errors.New("tree: index out of bounds")
	// ErrInvalidNode reports a block that decoded but violates the node shape.
	ErrInvalidNode = errors.New("tree: invalid node")
	// ErrDuplicateKey reports duplicate keys in CreateMap input.
	ErrDuplicateKey = errors.New("tree: duplicate key")
	// ErrInvalidRange reports conflicting scan options.
	ErrInvalidRange = errors.New("tree: invalid range options")
	// ErrNoContext reports a Config missing its store or codec.
	ErrNoContext = errors.New("tree: config missing store or codec")
)
