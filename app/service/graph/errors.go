package graph

import "errors"

var (
	ErrDuplicateID = errors.New("node id already exists")
	ErrUnknownNode = errors.New("unknown node")
	ErrInvalidID   = errors.New("node id must be non-negative")
	ErrInvalidEdge = errors.New("edge rejected by strict policy")
	ErrSyntax      = errors.New("malformed builder script")
)
