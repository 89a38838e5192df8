package app

import (
	"context"

	"github.com/hylla/tidrapport/internal/domain"
)

// Fetcher pulls activity records from the project-management board. A failed
// fetch must come back as an error, never a panic; the service keeps the
// prior session untouched when it does.
type Fetcher interface {
	FetchActivities(ctx context.Context) ([]domain.ActivityRecord, error)
}

// Repository persists the single current session. Saving replaces whatever
// session was stored before; a fresh fetch discards prior state wholesale.
type Repository interface {
	SaveSession(context.Context, Session) error
	LoadLatestSession(context.Context) (Session, error)
}
