package models

import "time"

// Event defines an entry in the fest event catalog, based on the 'events' table
type Event struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// EventRegistration defines one participant row of a team registration, based
// on the 'event_registrations' table. A team of N participants produces N rows
// sharing the same event and team name.
type EventRegistration struct {
	ID        int64     `json:"id" db:"id"`
	EventName string    `json:"eventName" db:"event_name"`
	TeamName  *string   `json:"teamName,omitempty" db:"team_name"` // Required when the team has more than one member
	UserID    int64     `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// RosterEntry is one joined (registration, user) row of an event roster
type RosterEntry struct {
	UserID   int64   `json:"id" db:"user_id"`
	Email    string  `json:"email" db:"email"`
	Name     string  `json:"name" db:"name"`
	Mobile   string  `json:"mobile" db:"mobile"`
	TeamName *string `json:"teamName,omitempty" db:"team_name"`
}
