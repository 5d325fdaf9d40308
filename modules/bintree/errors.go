package bintree

const (
	// ErrTypeDepthExceeded is the type of the error returned when an insertion
	// would need a node deeper than Config.MaxDepth. It happens when too many
	// particles collide on the same path, for example many particles sharing a
	// position.
	ErrTypeDepthExceeded = "bintree_depth_exceeded"

	// ErrTypeInvalidCount is the type of the error returned when a scene is
	// initialized with a negative particle count.
	ErrTypeInvalidCount = "bintree_invalid_count"
)
