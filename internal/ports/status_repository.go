package ports

import (
	"context"

	"github.com/bft-labs/telebus/internal/domain"
)

// StatusRepository persists the supervisor status.
// Implementations write atomically (e.g. temp file, then rename).
type StatusRepository interface {
	// Load returns the last saved status, or a zero status and nil error
	// when none exists.
	Load(ctx context.Context) (domain.SupervisorStatus, error)

	// Save persists status.
	Save(ctx context.Context, status domain.SupervisorStatus) error
}
