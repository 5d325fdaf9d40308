package featureflag

type Flag string

const (
	// Moves the first occupant of a node into a child once a second particle
	// reaches the node, instead of keeping it next to the children.
	FlagPushDownOccupants Flag = "PUSH_DOWN_OCCUPANTS"

	// Logs every particle insertion at debug level.
	FlagTraceInsertions Flag = "TRACE_INSERTIONS"
)
