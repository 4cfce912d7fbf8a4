package dto

// RegisterEventRequest registers a team for an event. The authenticated
// caller must appear in Emails.
type RegisterEventRequest struct {
	EventName string   `json:"eventName" binding:"required"`
	TeamName  string   `json:"teamName,omitempty"`
	Emails    []string `json:"emails" binding:"required,min=1,dive,email"`
}

// EventResponse is one catalog entry
type EventResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RosterParticipant is one participant row of an event roster
type RosterParticipant struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Mobile   string  `json:"mobile"`
	TeamName *string `json:"teamName,omitempty"`
}

// RosterResponse is the flattened participant list of one event
type RosterResponse struct {
	EventName    string              `json:"eventName"`
	Count        int                 `json:"count"`
	Participants []RosterParticipant `json:"participants"`
}

// DeleteUsersRequest removes accounts (and their registrations) by email
type DeleteUsersRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,dive,email"`
}

// RosterQueryRequest selects an event roster
type RosterQueryRequest struct {
	EventName string `json:"eventName" binding:"required"`
}

// DeleteRegistrationRequest removes registrations from an event, either a
// whole team by name or individual participants by email.
type DeleteRegistrationRequest struct {
	EventName string   `json:"eventName" binding:"required"`
	TeamName  string   `json:"teamName,omitempty"`
	Emails    []string `json:"emails,omitempty" binding:"omitempty,dive,email"`
}
