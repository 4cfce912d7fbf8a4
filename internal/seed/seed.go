package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appRepos "github.com/suraj/version24/internal/app/repositories"
)

// eventCatalog is the fest's event lineup. Seeding is idempotent; renames go
// through a migration, not here.
var eventCatalog = []string{
	"CodeBlitz",
	"Cryptic Coder",
	"Immerse Craft",
	"Decode Craft",
	"Game Fiesta",
	"Squid Quiz",
	"Dev Day",
	"Heads Up",
	"Cupocalyse Combat",
	"Map Quest",
}

// CreateDefaultData populates the event catalog if it is missing entries.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	eventRepo := appRepos.NewEventRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (event catalog)...")
	var finalErr error

	for _, name := range eventCatalog {
		if err := eventRepo.CreateEvent(ctx, name); err != nil {
			lgr.Error().Err(err).Str("event", name).Msg("Error seeding event")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("events", len(eventCatalog)).Msg("Event catalog seeded")
	}
	return finalErr
}
