// Package session owns the login state and the logged-in user's trips.
//
// A Manager is a small state machine over LoggedOut and LoggedIn. It keeps
// the current user and a cached trip list in memory, persists a signed
// session token so the next launch can restore the session, and routes every
// change through the entity store.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travgram/internal/auth"
	"travgram/internal/collab"
	"travgram/internal/kv"
	"travgram/internal/media"
	"travgram/internal/models"
	"travgram/internal/store"
)

// CurrentUserKey is the settings entry holding the persisted session token.
const CurrentUserKey = "currentUserID"

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

type Deps struct {
	Store    store.Store
	Settings kv.Store
	Tokens   *auth.TokenIssuer
	Hasher   auth.Hasher
	// Images stores profile pictures; defaults to media.InlineStore.
	Images media.ImageStore
	// Notifier schedules trip reminders; reminders are skipped when nil.
	Notifier collab.Notifier
	// Places backs SearchPlaces beyond the user's own trips; optional.
	Places    collab.PlaceSearcher
	Logger    *zap.Logger
	AutoLogin bool
	Now       func() time.Time
}

type Manager struct {
	mu sync.Mutex

	store     store.Store
	settings  kv.Store
	tokens    *auth.TokenIssuer
	hasher    auth.Hasher
	images    media.ImageStore
	notifier  collab.Notifier
	places    collab.PlaceSearcher
	log       *zap.Logger
	autoLogin bool
	now       func() time.Time

	state   State
	current *models.User
	token   string
	trips   []models.Trip
	drafts  map[string]*TripDraft
	profile *ProfileDraft

	subs    map[int]chan Snapshot
	nextSub int
}

// NewManager builds a manager and tries to restore the previous session.
// Restoring is best effort: failures are logged and leave the manager
// logged out.
func NewManager(ctx context.Context, deps Deps) (*Manager, error) {
	if deps.Store == nil || deps.Settings == nil || deps.Tokens == nil {
		return nil, errors.New("session: store, settings and tokens are required")
	}
	m := &Manager{
		store:     deps.Store,
		settings:  deps.Settings,
		tokens:    deps.Tokens,
		hasher:    deps.Hasher,
		images:    deps.Images,
		notifier:  deps.Notifier,
		places:    deps.Places,
		log:       deps.Logger,
		autoLogin: deps.AutoLogin,
		now:       deps.Now,
		drafts:    map[string]*TripDraft{},
		subs:      map[int]chan Snapshot{},
	}
	if m.images == nil {
		m.images = media.InlineStore{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.rehydrate(ctx)
	return m, nil
}

func (m *Manager) rehydrate(ctx context.Context) {
	token, ok, err := m.settings.Get(ctx, CurrentUserKey)
	if err != nil {
		m.log.Warn("failed to read persisted session", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	userID, err := m.tokens.Parse(token)
	if err != nil {
		m.log.Info("discarding persisted session", zap.Error(err))
		m.forget(ctx)
		return
	}
	users, err := m.store.FetchUsers(ctx, store.UserFilter{ID: userID})
	if err != nil {
		m.log.Warn("failed to fetch user during rehydration", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if len(users) == 0 {
		m.log.Info("no user found for persisted session", zap.String("user_id", userID))
		m.forget(ctx)
		return
	}
	trips, err := m.fetchOwned(ctx, userID)
	if err != nil {
		m.log.Warn("failed to fetch trips during rehydration", zap.String("user_id", userID), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.enterLocked(users[0], token, m.rearmLocked(ctx, trips))
	m.mu.Unlock()
	m.log.Info("rehydrated user", zap.String("user_id", userID), zap.String("username", users[0].Username))
}

// rearmLocked schedules a fresh reminder for every upcoming trip that had one
// and persists the new ids. Reminders live in the notifier's process, so ids
// loaded from the store may no longer refer to anything. On a failed save the
// loaded trips are returned unchanged.
func (m *Manager) rearmLocked(ctx context.Context, trips []models.Trip) []models.Trip {
	if m.notifier == nil {
		return trips
	}
	var swaps []reminderSwap
	for i := range trips {
		if trips[i].ReminderID == nil || !trips[i].Date.After(m.now()) {
			continue
		}
		replacement := trips[i].Clone()
		replacement.ReminderID = m.scheduleReminder(ctx, replacement)
		if replacement.ReminderID == nil {
			continue
		}
		swaps = append(swaps, reminderSwap{old: trips[i], replacement: replacement})
	}
	if len(swaps) == 0 {
		return trips
	}

	for i := range swaps {
		m.store.Update(&swaps[i].replacement)
	}
	if err := m.store.Save(ctx); err != nil {
		m.log.Warn("failed to persist rescheduled reminders", zap.Error(err))
		for _, s := range swaps {
			m.cancelReminder(ctx, s.replacement)
		}
		return trips
	}

	out := cloneTrips(trips)
	for _, s := range swaps {
		// The old id is usually unknown to the notifier after a restart.
		if err := m.notifier.Cancel(ctx, *s.old.ReminderID); err != nil {
			m.log.Debug("stale reminder not cancelled", zap.String("trip_id", s.old.ID), zap.Error(err))
		}
		for i := range out {
			if out[i].ID == s.old.ID {
				out[i].ReminderID = s.replacement.ReminderID
			}
		}
	}
	m.log.Info("trip reminders rescheduled", zap.Int("count", len(swaps)))
	return out
}

func (m *Manager) forget(ctx context.Context) {
	if err := m.settings.Delete(ctx, CurrentUserKey); err != nil {
		m.log.Warn("failed to remove persisted session", zap.Error(err))
	}
}

// storageFailure logs err and returns it classified.
func (m *Manager) storageFailure(op string, err error) error {
	classified := storageError(op, err)
	if errors.Is(classified, ErrStorage) {
		m.log.Error(op+" failed", zap.Error(err))
	} else {
		m.log.Info(op+" rejected", zap.Error(err))
	}
	return classified
}

func (m *Manager) fetchOwned(ctx context.Context, userID string) ([]models.Trip, error) {
	return m.store.FetchTrips(ctx, store.TripFilter{OwnerID: userID, OrderBy: store.SortByDate})
}

func (m *Manager) enterLocked(user models.User, token string, trips []models.Trip) {
	m.state = LoggedIn
	m.current = &user
	m.token = token
	m.trips = trips
	m.drafts = map[string]*TripDraft{}
	m.profile = nil
	m.publishLocked()
}

func (m *Manager) leaveLocked() {
	m.state = LoggedOut
	m.current = nil
	m.token = ""
	m.trips = nil
	m.drafts = map[string]*TripDraft{}
	m.profile = nil
	m.publishLocked()
}

// startSessionLocked loads the user's trips and persists a session token,
// then switches to LoggedIn. Nothing changes if any step fails.
func (m *Manager) startSessionLocked(ctx context.Context, user models.User) error {
	trips, err := m.fetchOwned(ctx, user.ID)
	if err != nil {
		return m.storageFailure("load trips", err)
	}
	token, err := m.tokens.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	if err := m.settings.Set(ctx, CurrentUserKey, token); err != nil {
		return m.storageFailure("persist session", err)
	}
	m.enterLocked(user, token, m.rearmLocked(ctx, trips))
	return nil
}

// Register creates an account. It logs the new user in only when the manager
// was built with AutoLogin.
func (m *Manager) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if err := validateRegistration(username, email, password); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.FetchUsers(ctx, store.UserFilter{Email: email})
	if err != nil {
		return models.User{}, m.storageFailure("register", err)
	}
	if len(existing) > 0 {
		return models.User{}, ErrDuplicate
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("register: hash password: %w", err)
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    m.now().UTC(),
	}
	m.store.Insert(&user)
	// The unique email key still guards against a concurrent registration
	// that slipped past the check above.
	if err := m.store.Save(ctx); err != nil {
		return models.User{}, m.storageFailure("register", err)
	}
	m.log.Info("user registered", zap.String("user_id", user.ID))

	if m.autoLogin {
		if err := m.startSessionLocked(ctx, user); err != nil {
			return user.Clone(), err
		}
	}
	return user.Clone(), nil
}

// Login verifies the credentials. Unknown email and wrong password both
// return ErrInvalidCredentials after the same amount of hashing work.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)

	m.mu.Lock()
	defer m.mu.Unlock()

	users, err := m.store.FetchUsers(ctx, store.UserFilter{Email: email})
	if err != nil {
		return models.User{}, m.storageFailure("login", err)
	}
	if len(users) == 0 {
		m.hasher.CheckMissing(password)
		m.log.Info("login failed: invalid email or password")
		return models.User{}, ErrInvalidCredentials
	}
	user := users[0]
	if !m.hasher.Check(user.PasswordHash, password) {
		m.log.Info("login failed: invalid email or password")
		return models.User{}, ErrInvalidCredentials
	}
	if err := m.startSessionLocked(ctx, user); err != nil {
		return models.User{}, err
	}
	m.log.Info("login successful", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user.Clone(), nil
}

// Logout always ends the in-memory session. The returned error reports a
// failure to remove the persisted token, in which case the next launch may
// still restore the session.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaveLocked()
	if err := m.settings.Delete(ctx, CurrentUserKey); err != nil {
		return m.storageFailure("logout", err)
	}
	m.log.Info("user logged out")
	return nil
}

// DeleteAllUsers removes every account and, through the cascade, every trip.
// It performs no permission check.
func (m *Manager) DeleteAllUsers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reminders belong to trips of every account, not only the cached ones.
	all, err := m.store.FetchTrips(ctx, store.TripFilter{})
	if err != nil {
		return m.storageFailure("delete all users", err)
	}
	m.store.DeleteAllUsers()
	if err := m.store.Save(ctx); err != nil {
		return m.storageFailure("delete all users", err)
	}
	m.log.Warn("deleted all users", zap.Int("trips", len(all)))

	for _, t := range all {
		m.cancelReminder(ctx, t)
	}
	if m.state != LoggedIn {
		return nil
	}
	m.leaveLocked()
	if err := m.settings.Delete(ctx, CurrentUserKey); err != nil {
		return m.storageFailure("delete all users", err)
	}
	return nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsLoggedIn() bool { return m.State() == LoggedIn }

func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return models.User{}, false
	}
	return m.current.Clone(), true
}

// Token returns the live session token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Authorize checks a token presented by a client against the live session.
func (m *Manager) Authorize(token string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != LoggedIn {
		return models.User{}, ErrNotLoggedIn
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
		return models.User{}, ErrInvalidCredentials
	}
	return m.current.Clone(), nil
}
