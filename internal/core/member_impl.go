package core

import (
	"sync"

	"github.com/dkeye/Poker/internal/domain"
)

// memberSession implements MemberSession by pairing meta + transport.
// Only the owning connection renames it, but rooms read the name concurrently.
type memberSession struct {
	id   SessionID
	conn SignalConnection

	mu   sync.RWMutex
	user *domain.User
}

func NewMemberSession(id SessionID, user *domain.User, conn SignalConnection) MemberSession {
	return &memberSession{id: id, user: user, conn: conn}
}

func (m *memberSession) ID() SessionID            { return m.id }
func (m *memberSession) Signal() SignalConnection { return m.conn }

func (m *memberSession) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.Username
}

func (m *memberSession) Rename(name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.user.Username
	changed, err := m.user.SetUsername(name)
	return old, changed, err
}
