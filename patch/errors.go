package patch

import "errors"

// Resolution and payload failures. The CLI maps these onto its exit codes
// with errors.Is, so operations wrap rather than replace them.
var (
	ErrPathNotFound   = errors.New("requested path not found")
	ErrAmbiguousPath  = errors.New("ambiguous path")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrRootDeletion   = errors.New("cannot delete the root section")
)
