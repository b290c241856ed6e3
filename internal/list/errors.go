package list

import "errors"

var (
	// ErrNullCollaborator reports a pass that ran without a host or element
	ErrNullCollaborator = errors.New("missing collaborator")
	// ErrInvalidIndex reports an out-of-range index in a public call
	ErrInvalidIndex = errors.New("invalid index")
	// ErrStaleBind reports a completion for an operation that is no longer current
	ErrStaleBind = errors.New("stale bind")
	// ErrNegativePreloadCount reports a negative preload-buffer-count
	ErrNegativePreloadCount = errors.New("negative preload buffer count")
	// ErrStaggeredFillLimit reports a waterfall fill that did not settle
	ErrStaggeredFillLimit = errors.New("staggered fill did not converge")
)
