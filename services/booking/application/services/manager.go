package services

import (
	"sync"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// FormManager owns the booking form controllers, one per browser session.
// Mounting the booking page creates a controller; navigating away (through
// the deactivation guard) disposes it.
type FormManager struct {
	client BookingCreator
	bus    EventPublisher
	log    logger.Logger

	mu    sync.Mutex
	forms map[string]*FormController // sessionID → mounted form
}

// NewFormManager returns an empty registry.
func NewFormManager(client BookingCreator, bus EventPublisher, log logger.Logger) *FormManager {
	return &FormManager{
		client: client,
		bus:    bus,
		log:    log,
		forms:  make(map[string]*FormController),
	}
}

// Mount creates a fresh controller for the session, disposing any previous one.
func (m *FormManager) Mount(sessionID, hotelID, roomID string, user *identitydomain.UserIdentity) *FormController {
	ctrl := NewFormController(hotelID, roomID, user, m.client, m.bus, m.log)

	m.mu.Lock()
	prev := m.forms[sessionID]
	m.forms[sessionID] = ctrl
	m.mu.Unlock()

	if prev != nil {
		prev.Dispose()
	}
	return ctrl
}

// Get returns the session's mounted controller, if any.
func (m *FormManager) Get(sessionID string) (*FormController, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.forms[sessionID]
	return ctrl, ok
}

// Unmount disposes and drops the session's controller. Safe to call when no
// form is mounted.
func (m *FormManager) Unmount(sessionID string) {
	m.mu.Lock()
	ctrl := m.forms[sessionID]
	delete(m.forms, sessionID)
	m.mu.Unlock()

	if ctrl != nil {
		ctrl.Dispose()
	}
}
