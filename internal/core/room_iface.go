package core

import (
	"github.com/dkeye/Poker/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

func (p *PublishResult) merge(o PublishResult) {
	p.SendTo += o.SendTo
	p.Dropped = append(p.Dropped, o.Dropped...)
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       SessionID `json:"id"`
	Username string    `json:"username"`
}

// RoomTx is the view of a room inside its critical section.
// It must not escape the Atomically callback.
type RoomTx interface {
	Name() domain.RoomName
	AddMember(sid SessionID, ms MemberSession)
	// RemoveMember reports whether sid was a member.
	RemoveMember(sid SessionID) bool
	HasMember(sid SessionID) bool
	Members() []MemberSession
	MemberCount() int
	// Publish appends msg to the history and offers it to every member.
	Publish(msg string) PublishResult
	// SendHistory replays the history to one member only.
	SendHistory(sid SessionID) PublishResult
	ClearHistory()
	// Tally returns the active vote round, starting one if needed.
	Tally() *domain.Tally
	// ResetVote drops the active round and its tally.
	ResetVote()
}

// RoomSnapshot is a point-in-time copy for APIs.
type RoomSnapshot struct {
	Name    domain.RoomName     `json:"name"`
	Members []MemberDTO         `json:"members"`
	History []string            `json:"history"`
	Votes   []domain.TallyEntry `json:"votes"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Name() domain.RoomName
	MemberCount() int
	MembersSnapshot() []MemberDTO
	Snapshot() RoomSnapshot

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID)
	// Atomically runs fn while holding the room lock, so state changes and the
	// broadcasts they cause are seen by every member in the same order.
	Atomically(fn func(tx RoomTx)) PublishResult
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
}

type RoomManager interface {
	GetOrCreate(name domain.RoomName) RoomService
	Lookup(name domain.RoomName) (RoomService, bool)
	// Join resolves the room and adds the member; onJoin, if set, runs in the
	// same room critical section right after.
	Join(name domain.RoomName, sid SessionID, ms MemberSession, onJoin func(tx RoomTx)) (RoomService, PublishResult)
	// Leave removes the member, runs onLeave in the same critical section and
	// deletes the room once nobody is left.
	Leave(room RoomService, sid SessionID, onLeave func(tx RoomTx)) (deleted bool, res PublishResult)
	// Delete drops the room and returns whoever was still in it.
	Delete(name domain.RoomName) ([]MemberSession, bool)
	List() []RoomInfo
	Len() int
}
