package errs

import (
	"errors"
)

var (
	// ErrNetwork indicates a manifest or segment fetch failure, either at the
	// transport level or as a non-success HTTP status.
	ErrNetwork = errors.New("network failure")
	// ErrManifestShape indicates the manifest is missing or malforms a field
	// the pipeline depends on.
	ErrManifestShape = errors.New("malformed manifest")
	// ErrMuxer indicates the external muxer exited with a non-zero status.
	ErrMuxer = errors.New("muxer failure")
)
