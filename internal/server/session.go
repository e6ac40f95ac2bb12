package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ppiankov/forensia/internal/controller"
	"github.com/ppiankov/forensia/internal/model"
	"github.com/ppiankov/forensia/internal/state"
)

// SessionCookie names the cookie carrying the session ID
const SessionCookie = "forensia_session"

// Session is the state of one browser: its inputs and its last explanation
type Session struct {
	ID         string
	Features   *state.FeatureStore
	Selector   *state.Selector
	Controller *controller.Controller
}

// SessionManager keeps sessions in memory and forgets idle ones
type SessionManager struct {
	sessions *gocache.Cache
	ttl      time.Duration
	service  controller.Service
	logger   *zap.Logger
}

// NewSessionManager creates a manager whose sessions expire after ttl of inactivity
func NewSessionManager(ttl time.Duration, service controller.Service, logger *zap.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionManager{
		sessions: gocache.New(ttl, ttl/2),
		ttl:      ttl,
		service:  service,
		logger:   logger,
	}
}

// New creates a session with default inputs in the Idle state
func (m *SessionManager) New() *Session {
	features := state.NewFeatureStore(model.DefaultFeatures())
	selector := state.NewSelector(model.DefaultClassification)
	s := &Session{
		ID:         uuid.NewString(),
		Features:   features,
		Selector:   selector,
		Controller: controller.New(features, selector, m.service, m.logger),
	}
	m.sessions.Set(s.ID, s, m.ttl)
	m.logger.Debug("session created", zap.String("session", s.ID))
	return s
}

// Get looks up a session and extends its lifetime
func (m *SessionManager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.sessions.Set(id, s, m.ttl)
	return s, true
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	return m.sessions.ItemCount()
}

// FromRequest returns the caller's session, creating one (and setting the
// cookie) when the request carries none or an expired one
func (m *SessionManager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if s, ok := m.Get(c.Value); ok {
			return s
		}
	}

	s := m.New()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
