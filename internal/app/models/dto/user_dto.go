package dto

import "github.com/suraj/version24/internal/app/models"

// RegistrationInfo is one event entry on a user profile
type RegistrationInfo struct {
	EventName string  `json:"eventName"`
	TeamName  *string `json:"teamName,omitempty"`
}

// UserResponse represents a user with secrets stripped
type UserResponse struct {
	ID               int64              `json:"id"`
	Email            string             `json:"email"`
	Name             string             `json:"name"`
	Mobile           string             `json:"mobile,omitempty"`
	University       string             `json:"university"`
	RollNo           string             `json:"rollno"`
	IsEmailConfirmed bool               `json:"isEmailConfirmed"`
	Registrations    []RegistrationInfo `json:"event,omitempty"`
}

// FromUser converts a model user to its public representation.
// Password, token hashes and timestamps never leave the service layer.
func FromUser(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		Mobile:           user.Mobile,
		University:       user.University,
		RollNo:           user.RollNo,
		IsEmailConfirmed: user.IsEmailConfirmed,
	}
}

// FromUserWithRegistrations attaches event registrations to the public view
func FromUserWithRegistrations(user *models.User, regs []models.EventRegistration) *UserResponse {
	resp := FromUser(user)
	if resp == nil {
		return nil
	}
	for _, reg := range regs {
		resp.Registrations = append(resp.Registrations, RegistrationInfo{
			EventName: reg.EventName,
			TeamName:  reg.TeamName,
		})
	}
	return resp
}

// UserListResponse represents a page of users for the admin listing
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	PaginationInfo
}
