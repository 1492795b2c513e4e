package telebus

// Version information for the telebus module.
const (
	// Version is the current version of the telebus module.
	Version = "0.3.0"

	// MinCompatibleVersion is the oldest release whose callers build
	// unchanged against this one.
	MinCompatibleVersion = "0.3.0"
)
