package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

var _ core.RoomManager = (*RoomManagerImpl)(nil)

// RoomManagerImpl is the process-wide room registry. Names are matched
// case-insensitively; a room keeps the spelling it was created with.
// Join and Leave hold the registry lock while touching membership, so an
// empty room is never deleted under a joining session.
type RoomManagerImpl struct {
	votes        *core.VoteRegistry
	historyLimit int

	mu    sync.RWMutex
	rooms map[domain.RoomKey]core.RoomService
}

func NewRoomManager(votes *core.VoteRegistry, historyLimit int) *RoomManagerImpl {
	return &RoomManagerImpl{
		votes:        votes,
		historyLimit: historyLimit,
		rooms:        make(map[domain.RoomKey]core.RoomService),
	}
}

func (f *RoomManagerImpl) GetOrCreate(name domain.RoomName) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[name.Key()]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getOrCreateLocked(name)
}

func (f *RoomManagerImpl) getOrCreateLocked(name domain.RoomName) core.RoomService {
	if room, ok := f.rooms[name.Key()]; ok {
		return room
	}
	room := core.NewRoomService(domain.NewRoom(name, f.historyLimit), f.votes)
	f.rooms[name.Key()] = room
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room created")
	return room
}

func (f *RoomManagerImpl) Lookup(name domain.RoomName) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[name.Key()]
	return room, ok
}

func (f *RoomManagerImpl) Join(
	name domain.RoomName,
	sid core.SessionID,
	ms core.MemberSession,
	onJoin func(tx core.RoomTx),
) (core.RoomService, core.PublishResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room := f.getOrCreateLocked(name)
	res := room.Atomically(func(tx core.RoomTx) {
		tx.AddMember(sid, ms)
		if onJoin != nil {
			onJoin(tx)
		}
	})
	return room, res
}

func (f *RoomManagerImpl) Leave(
	room core.RoomService,
	sid core.SessionID,
	onLeave func(tx core.RoomTx),
) (bool, core.PublishResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	empty := false
	res := room.Atomically(func(tx core.RoomTx) {
		if !tx.RemoveMember(sid) {
			return
		}
		if onLeave != nil {
			onLeave(tx)
		}
		empty = tx.MemberCount() == 0
	})
	if !empty {
		return false, res
	}
	key := room.Name().Key()
	if cur, ok := f.rooms[key]; !ok || cur != room {
		return false, res
	}
	f.deleteLocked(key, room)
	return true, res
}

// Delete holds the registry lock across the member snapshot, so nobody can
// join the room between being listed and the room disappearing.
func (f *RoomManagerImpl) Delete(name domain.RoomName) ([]core.MemberSession, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[name.Key()]
	if !ok {
		return nil, false
	}
	return f.deleteLocked(name.Key(), room), true
}

func (f *RoomManagerImpl) deleteLocked(key domain.RoomKey, room core.RoomService) []core.MemberSession {
	delete(f.rooms, key)
	var members []core.MemberSession
	room.Atomically(func(tx core.RoomTx) {
		members = tx.Members()
		for _, m := range members {
			tx.RemoveMember(m.ID())
		}
		tx.ResetVote()
	})
	log.Info().Str("module", "app.rooms").Str("room", string(room.Name())).Int("evicted", len(members)).Msg("room deleted")
	return members
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, core.RoomInfo{Name: r.Name(), MemberCount: r.MemberCount()})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return strings.Compare(string(a.Name), string(b.Name)) })
	return out
}

func (f *RoomManagerImpl) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}
