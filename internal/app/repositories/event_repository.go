package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/dberrors"
)

// IEventRepository defines the interface for event and registration operations
type IEventRepository interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	EventExists(ctx context.Context, eventName string) (bool, error)
	CreateEvent(ctx context.Context, name string) error
	TeamNameExists(ctx context.Context, eventName, teamName string) (bool, error)
	CreateTeamRegistration(ctx context.Context, eventName string, teamName *string, emails []string) error
	GetRosterByEvent(ctx context.Context, eventName string) ([]models.RosterEntry, error)
	FindTeamNameByParticipant(ctx context.Context, eventName, email string) (*string, error)
	DeleteTeam(ctx context.Context, eventName, teamName string) (int64, error)
	DeleteByEventAndEmails(ctx context.Context, eventName string, emails []string) (int64, error)
}

// EventRepository handles event catalog and registration database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListEvents returns the event catalog
func (r *EventRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Name); err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CreateEvent adds an event to the catalog; an existing name is a no-op
func (r *EventRepository) CreateEvent(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// EventExists checks whether an event is part of the catalog
func (r *EventRepository) EventExists(ctx context.Context, eventName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE name = $1)`, eventName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking event: %w", err)
	}
	return exists, nil
}

// TeamNameExists checks whether a team name is taken within an event. This is
// a fast-path check only; the unique index on event_teams is authoritative.
func (r *EventRepository) TeamNameExists(ctx context.Context, eventName, teamName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_teams WHERE event_name = $1 AND team_name = $2)`,
		eventName, teamName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking team name: %w", err)
	}
	return exists, nil
}

// CreateTeamRegistration inserts the team row (if named) and one registration
// row per participant inside a single transaction. Any failure rolls the
// whole team back; concurrent claims of the same team name race on the
// event_teams unique index and exactly one wins.
func (r *EventRepository) CreateTeamRegistration(ctx context.Context, eventName string, teamName *string, emails []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if teamName != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO event_teams (event_name, team_name) VALUES ($1, $2)`,
			eventName, *teamName)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "event_teams_event_name_team_name_key") {
				return apperrors.ErrTeamNameTaken
			}
			return fmt.Errorf("error claiming team name: %w", err)
		}
	}

	for _, email := range emails {
		var userID int64
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewCustomError(apperrors.ErrUserNotExist,
					fmt.Sprintf("User with %s not registered.", email))
			}
			return fmt.Errorf("error resolving participant %s: %w", email, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO event_registrations (event_name, team_name, user_id)
			VALUES ($1, $2, $3)`,
			eventName, teamName, userID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "event_registrations_event_name_user_id_key") {
				return apperrors.ErrTeammatesAlreadyRegistered
			}
			return fmt.Errorf("error registering participant %s: %w", email, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

// GetRosterByEvent returns the flattened participant roster of one event
func (r *EventRepository) GetRosterByEvent(ctx context.Context, eventName string) ([]models.RosterEntry, error) {
	sql, args, err := r.sb.Select("u.id", "u.email", "u.name", "u.mobile", "er.team_name").
		From("event_registrations er").
		Join("users u ON u.id = er.user_id").
		Where(squirrel.Eq{"er.event_name": eventName}).
		OrderBy("er.team_name NULLS FIRST", "u.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying roster: %w", err)
	}
	defer rows.Close()

	var roster []models.RosterEntry
	for rows.Next() {
		var entry models.RosterEntry
		if err := rows.Scan(&entry.UserID, &entry.Email, &entry.Name, &entry.Mobile, &entry.TeamName); err != nil {
			return nil, fmt.Errorf("error scanning roster entry: %w", err)
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}

// FindTeamNameByParticipant returns the team name a participant registered
// under for an event, nil when they registered solo, or ErrRegistrationNotFound.
func (r *EventRepository) FindTeamNameByParticipant(ctx context.Context, eventName, email string) (*string, error) {
	var teamName *string
	err := r.db.QueryRow(ctx, `
		SELECT er.team_name
		FROM event_registrations er
		JOIN users u ON u.id = er.user_id
		WHERE er.event_name = $1 AND u.email = $2`,
		eventName, email).Scan(&teamName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("error finding registration: %w", err)
	}
	return teamName, nil
}

// DeleteTeam removes every registration row of a team and releases the team
// name for reuse.
func (r *EventRepository) DeleteTeam(ctx context.Context, eventName, teamName string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`DELETE FROM event_registrations WHERE event_name = $1 AND team_name = $2`,
		eventName, teamName)
	if err != nil {
		return 0, fmt.Errorf("error deleting team registrations: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM event_teams WHERE event_name = $1 AND team_name = $2`,
		eventName, teamName)
	if err != nil {
		return 0, fmt.Errorf("error releasing team name: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit team deletion: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByEventAndEmails removes only the matching participants' rows
func (r *EventRepository) DeleteByEventAndEmails(ctx context.Context, eventName string, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}

	sql, args, err := r.sb.Delete("event_registrations").
		Where("user_id IN (SELECT id FROM users WHERE email = ANY(?))", emails).
		Where(squirrel.Eq{"event_name": eventName}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting registrations: %w", err)
	}
	return tag.RowsAffected(), nil
}
