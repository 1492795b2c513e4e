package ports

import "github.com/bft-labs/telebus/pkg/log"

// Logger is the structured logging port.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors re-exported for internal packages.
var (
	String   = log.String
	Stringer = log.Stringer
	Int      = log.Int
	Uint64   = log.Uint64
	Bool     = log.Bool
	Duration = log.Duration
	Strings  = log.Strings
	Err      = log.Err
	Any      = log.Any
)
