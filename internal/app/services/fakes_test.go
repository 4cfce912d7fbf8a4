package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/pkg/apperrors"
)

// fakeUserRepo is an in-memory IUserRepository for service tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.User // keyed by email

	// regsFn, when set, backs GetRegistrationsByUserID.
	regsFn func(userID int64) []models.EventRegistration
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return 0, apperrors.ErrUserAlreadyExists
	}
	r.nextID++
	u := *user
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.Email] = &u
	return u.ID, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.ErrUserNotExist
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotExist
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[email]
	return ok, nil
}

func (r *fakeUserRepo) SetEmailToken(ctx context.Context, userID int64, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.EmailToken = &tokenHash
			return nil
		}
	}
	return apperrors.ErrUserNotExist
}

func (r *fakeUserRepo) GetUserByEmailTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmailToken != nil && *u.EmailToken == tokenHash {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrTokenInvalid
}

func (r *fakeUserRepo) ConfirmEmail(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.IsEmailConfirmed = true
			u.EmailToken = nil
			return nil
		}
	}
	return apperrors.ErrUserNotExist
}

func (r *fakeUserRepo) SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordResetToken = &tokenHash
			u.PasswordResetTokenExpiry = &expiry
			return nil
		}
	}
	return apperrors.ErrUserNotExist
}

func (r *fakeUserRepo) ResetPasswordByTokenHash(ctx context.Context, tokenHash, newPasswordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == tokenHash &&
			u.PasswordResetTokenExpiry != nil && u.PasswordResetTokenExpiry.After(time.Now()) {
			now := time.Now()
			u.Password = newPasswordHash
			u.PasswordResetToken = nil
			u.PasswordResetTokenExpiry = nil
			u.PasswordChangedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, email, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return apperrors.ErrUserNotExist
	}
	now := time.Now()
	u.Password = newPasswordHash
	u.PasswordChangedAt = &now
	return nil
}

func (r *fakeUserRepo) GetRegistrationsByUserID(ctx context.Context, userID int64) ([]models.EventRegistration, error) {
	if r.regsFn != nil {
		return r.regsFn(userID), nil
	}
	return nil, nil
}

func (r *fakeUserRepo) ListUsers(ctx context.Context, offset uint64, limit int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, u := range r.users {
		if u.Role != models.RoleAdmin {
			users = append(users, *u)
		}
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) DeleteUsersByEmail(ctx context.Context, emails []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, e := range emails {
		if _, ok := r.users[e]; ok {
			delete(r.users, e)
			deleted++
		}
	}
	return deleted, nil
}

// fakeOTPRepo is an in-memory IOTPRepository.
type fakeOTPRepo struct {
	mu    sync.Mutex
	codes map[string]string

	// beforeConsume, when set, runs at the top of Consume with the lock
	// held. Tests use it to interleave a competing consume.
	beforeConsume func(codes map[string]string)
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{codes: make(map[string]string)}
}

func (r *fakeOTPRepo) Save(ctx context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[email] = code
	return nil
}

func (r *fakeOTPRepo) Get(ctx context.Context, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[email]
	if !ok {
		return "", apperrors.ErrOTPNotFound
	}
	return code, nil
}

func (r *fakeOTPRepo) Consume(ctx context.Context, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeConsume != nil {
		r.beforeConsume(r.codes)
	}
	code, ok := r.codes[email]
	if !ok {
		return "", apperrors.ErrOTPNotFound
	}
	delete(r.codes, email)
	return code, nil
}

// fakeEmailService records outgoing mail instead of sending it.
type fakeEmailService struct {
	mu          sync.Mutex
	fail        bool
	confirmSent []string // raw tokens handed to SendConfirmationEmail
	resetSent   []string
	otpSent     []string
}

func (s *fakeEmailService) SendConfirmationEmail(toEmail, toName, rawToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.confirmSent = append(s.confirmSent, rawToken)
	return nil
}

func (s *fakeEmailService) SendPasswordResetEmail(toEmail, toName, rawToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.resetSent = append(s.resetSent, rawToken)
	return nil
}

func (s *fakeEmailService) SendOTPEmail(toEmail, toName, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.otpSent = append(s.otpSent, code)
	return nil
}

// fakeEventRepo is an in-memory IEventRepository. Team-name claims go through
// one mutex-guarded map, mirroring the store's unique index semantics.
type fakeEventRepo struct {
	mu            sync.Mutex
	events        map[string]bool
	teams         map[string]bool                     // eventName + "\x00" + teamName
	registrations map[string]*models.EventRegistration // eventName + "\x00" + email
	users         *fakeUserRepo
	nextID        int64
}

func newFakeEventRepo(users *fakeUserRepo, eventNames ...string) *fakeEventRepo {
	r := &fakeEventRepo{
		events:        make(map[string]bool),
		teams:         make(map[string]bool),
		registrations: make(map[string]*models.EventRegistration),
		users:         users,
	}
	for _, name := range eventNames {
		r.events[name] = true
	}
	return r
}

func teamKey(eventName, teamName string) string {
	return eventName + "\x00" + teamName
}

func (r *fakeEventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []models.Event
	var id int64
	for name := range r.events {
		id++
		events = append(events, models.Event{ID: id, Name: name})
	}
	return events, nil
}

func (r *fakeEventRepo) CreateEvent(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[name] = true
	return nil
}

func (r *fakeEventRepo) EventExists(ctx context.Context, eventName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[eventName], nil
}

func (r *fakeEventRepo) TeamNameExists(ctx context.Context, eventName, teamName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teams[teamKey(eventName, teamName)], nil
}

func (r *fakeEventRepo) CreateTeamRegistration(ctx context.Context, eventName string, teamName *string, emails []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Same all-or-nothing semantics as the transactional store path.
	for _, email := range emails {
		if _, err := r.users.GetUserByEmail(ctx, email); err != nil {
			return apperrors.NewCustomError(apperrors.ErrUserNotExist, fmt.Sprintf("User with %s not registered.", email))
		}
		if _, ok := r.registrations[teamKey(eventName, email)]; ok {
			return apperrors.ErrTeammatesAlreadyRegistered
		}
	}

	if teamName != nil {
		if r.teams[teamKey(eventName, *teamName)] {
			return apperrors.ErrTeamNameTaken
		}
		r.teams[teamKey(eventName, *teamName)] = true
	}

	for _, email := range emails {
		user, _ := r.users.GetUserByEmail(ctx, email)
		r.nextID++
		r.registrations[teamKey(eventName, email)] = &models.EventRegistration{
			ID:        r.nextID,
			EventName: eventName,
			TeamName:  teamName,
			UserID:    user.ID,
			CreatedAt: time.Now(),
		}
	}
	return nil
}

func (r *fakeEventRepo) GetRosterByEvent(ctx context.Context, eventName string) ([]models.RosterEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []models.RosterEntry
	for key, reg := range r.registrations {
		if reg.EventName != eventName {
			continue
		}
		email := key[len(eventName)+1:]
		user, err := r.users.GetUserByEmail(ctx, email)
		if err != nil {
			continue
		}
		entries = append(entries, models.RosterEntry{
			UserID:   user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Mobile:   user.Mobile,
			TeamName: reg.TeamName,
		})
	}
	return entries, nil
}

func (r *fakeEventRepo) FindTeamNameByParticipant(ctx context.Context, eventName, email string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registrations[teamKey(eventName, email)]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	return reg.TeamName, nil
}

func (r *fakeEventRepo) DeleteTeam(ctx context.Context, eventName, teamName string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for key, reg := range r.registrations {
		if reg.EventName == eventName && reg.TeamName != nil && *reg.TeamName == teamName {
			delete(r.registrations, key)
			removed++
		}
	}
	delete(r.teams, teamKey(eventName, teamName))
	return removed, nil
}

func (r *fakeEventRepo) DeleteByEventAndEmails(ctx context.Context, eventName string, emails []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for _, email := range emails {
		if _, ok := r.registrations[teamKey(eventName, email)]; ok {
			delete(r.registrations, teamKey(eventName, email))
			removed++
		}
	}
	return removed, nil
}
