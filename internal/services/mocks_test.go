package services

import (
	"context"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

type mockConferenceRepository struct {
	confs         map[string]*domain.Conference
	byOrganizer   map[string][]*domain.Conference
	queryResult   []*domain.Conference
	nearlySoldOut []*domain.Conference
	lastPlan      *query.Plan
	err           error
}

func (m *mockConferenceRepository) Create(ctx context.Context, conf *domain.Conference) error {
	if m.err != nil {
		return m.err
	}
	conf.ID = "conf-new"
	return nil
}

func (m *mockConferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	conf, ok := m.confs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conf, nil
}

func (m *mockConferenceRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byOrganizer[organizerID], nil
}

func (m *mockConferenceRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Conference
	for _, id := range ids {
		if conf, ok := m.confs[id]; ok {
			out = append(out, conf)
		}
	}
	return out, nil
}

func (m *mockConferenceRepository) Query(ctx context.Context, plan *query.Plan) ([]*domain.Conference, error) {
	m.lastPlan = plan
	if m.err != nil {
		return nil, m.err
	}
	return m.queryResult, nil
}

func (m *mockConferenceRepository) ListNearlySoldOut(ctx context.Context, threshold int) ([]*domain.Conference, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.nearlySoldOut, nil
}

func (m *mockConferenceRepository) Update(ctx context.Context, conf *domain.Conference) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.confs[conf.ID]; !ok {
		return domain.ErrNotFound
	}
	m.confs[conf.ID] = conf
	return nil
}

type mockProfileRepository struct {
	profiles     map[string]*domain.Profile
	displayNames map[string]string
	created      []*domain.Profile
	wishlistErr  error
	err          error
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, profile)
	if m.profiles == nil {
		m.profiles = map[string]*domain.Profile{}
	}
	if _, ok := m.profiles[profile.UserID]; !ok {
		m.profiles[profile.UserID] = profile
	}
	return nil
}

func (m *mockProfileRepository) UpdateDetails(ctx context.Context, userID, displayName, teeShirtSize string) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.DisplayName = displayName
	p.TeeShirtSize = teeShirtSize
	return p, nil
}

func (m *mockProfileRepository) AddToWishlist(ctx context.Context, userID, sessionID string) error {
	if m.wishlistErr != nil {
		return m.wishlistErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range p.SessionWishlist {
		if id == sessionID {
			return domain.ErrAlreadyInWishlist
		}
	}
	p.SessionWishlist = append(p.SessionWishlist, sessionID)
	return nil
}

func (m *mockProfileRepository) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]string{}
	for _, id := range userIDs {
		if name, ok := m.displayNames[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type mockUserRepository struct {
	users map[string]*domain.User
	salt  string
	hash  string
	err   error
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User, passwordHash, passwordSalt string) error {
	if m.err != nil {
		return m.err
	}
	user.ID = "user-new"
	m.hash = passwordHash
	m.salt = passwordSalt
	if m.users == nil {
		m.users = map[string]*domain.User{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Credentials(ctx context.Context, email string) (string, string, string, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u.ID, m.hash, m.salt, nil
		}
	}
	return "", "", "", domain.ErrNotFound
}

type mockSessionRepository struct {
	sessions       map[string]*domain.Session
	byConference   map[string][]*domain.Session
	bySpeaker      map[string][]*domain.Session
	byConfSpeaker  map[string][]*domain.Session
	beforeStart    []*domain.Session
	onDate         []*domain.Session
	err            error
	lastUnschedArg bool
}

func (m *mockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.err != nil {
		return m.err
	}
	session.ID = "sess-new"
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	sess, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

func (m *mockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.sessions[session.ID]; !ok {
		return domain.ErrNotFound
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepository) ListByConferenceID(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byConference[conferenceID], nil
}

func (m *mockSessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID, sessionType string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Session
	for _, sess := range m.byConference[conferenceID] {
		if sess.Type == sessionType {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (m *mockSessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speaker string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byConfSpeaker[conferenceID+":"+speaker], nil
}

func (m *mockSessionRepository) ListBySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bySpeaker[speaker], nil
}

func (m *mockSessionRepository) ListByConferenceBeforeStart(ctx context.Context, conferenceID string, startTime time.Time, includeUnscheduled bool) ([]*domain.Session, error) {
	m.lastUnschedArg = includeUnscheduled
	if m.err != nil {
		return nil, m.err
	}
	return m.beforeStart, nil
}

func (m *mockSessionRepository) ListByConferenceOnDate(ctx context.Context, conferenceID string, date time.Time) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.onDate, nil
}

func (m *mockSessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Session
	for _, id := range ids {
		if sess, ok := m.sessions[id]; ok {
			out = append(out, sess)
		}
	}
	return out, nil
}

type mockSpeakerRepository struct {
	speakers map[string]*domain.Speaker
	err      error
}

func (m *mockSpeakerRepository) Create(ctx context.Context, speaker *domain.Speaker) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.speakers[speaker.Name]; ok {
		return domain.ErrDuplicateSpeaker
	}
	speaker.ID = "speaker-new"
	return nil
}

func (m *mockSpeakerRepository) GetByName(ctx context.Context, name string) (*domain.Speaker, error) {
	if m.err != nil {
		return nil, m.err
	}
	sp, ok := m.speakers[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sp, nil
}

type mockRegistrationRepository struct {
	registerErr   error
	unregisterErr error
	removed       bool
}

func (m *mockRegistrationRepository) Register(ctx context.Context, userID, conferenceID string) error {
	return m.registerErr
}

func (m *mockRegistrationRepository) Unregister(ctx context.Context, userID, conferenceID string) (bool, error) {
	return m.removed, m.unregisterErr
}

type mockTaskQueue struct {
	enqueued []string
	params   []map[string]string
}

func (m *mockTaskQueue) Enqueue(ctx context.Context, taskName string, params map[string]string) error {
	m.enqueued = append(m.enqueued, taskName)
	m.params = append(m.params, params)
	return nil
}

type mockCache struct {
	store   map[string]string
	deleted []string
	err     error
}

func (m *mockCache) Set(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.store == nil {
		m.store = map[string]string{}
	}
	m.store[key] = value
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.store[key], nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, key)
	delete(m.store, key)
	return nil
}
