package core

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	votes *VoteRegistry

	mu    sync.Mutex
	room  *domain.Room
	bySID map[SessionID]MemberSession
}

func NewRoomService(room *domain.Room, votes *VoteRegistry) RoomService {
	return &roomImpl{
		room:  room,
		votes: votes,
		bySID: make(map[SessionID]MemberSession),
	}
}

// Name never changes after creation.
func (r *roomImpl) Name() domain.RoomName { return r.room.Name }

func (r *roomImpl) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bySID)
}

func (r *roomImpl) AddMember(sid SessionID, ms MemberSession) {
	r.Atomically(func(tx RoomTx) { tx.AddMember(sid, ms) })
}

func (r *roomImpl) RemoveMember(sid SessionID) {
	r.Atomically(func(tx RoomTx) { tx.RemoveMember(sid) })
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members()
}

func (r *roomImpl) members() []MemberDTO {
	out := make([]MemberDTO, 0, len(r.bySID))
	for sid, ms := range r.bySID {
		out = append(out, MemberDTO{ID: sid, Username: ms.Name()})
	}
	slices.SortFunc(out, func(a, b MemberDTO) int {
		return cmp.Or(strings.Compare(a.Username, b.Username), strings.Compare(string(a.ID), string(b.ID)))
	})
	return out
}

func (r *roomImpl) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := RoomSnapshot{
		Name:    r.room.Name,
		Members: r.members(),
		History: slices.Clone(r.room.History),
	}
	if r.room.VoteID != "" {
		if t, ok := r.votes.Lookup(r.room.VoteID); ok {
			snap.Votes = t.Breakdown()
		}
	}
	return snap
}

func (r *roomImpl) Atomically(fn func(tx RoomTx)) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &roomTx{r: r}
	fn(tx)
	return tx.res
}

// roomTx runs with roomImpl.mu held.
type roomTx struct {
	r   *roomImpl
	res PublishResult
}

func (t *roomTx) Name() domain.RoomName { return t.r.room.Name }

func (t *roomTx) AddMember(sid SessionID, ms MemberSession) {
	t.r.bySID[sid] = ms
	log.Info().Str("module", "core.room").Str("room", string(t.r.room.Name)).Str("sid", string(sid)).Msg("member added")
}

func (t *roomTx) RemoveMember(sid SessionID) bool {
	if _, ok := t.r.bySID[sid]; !ok {
		return false
	}
	delete(t.r.bySID, sid)
	log.Info().Str("module", "core.room").Str("room", string(t.r.room.Name)).Str("sid", string(sid)).Msg("member removed")
	return true
}

func (t *roomTx) HasMember(sid SessionID) bool {
	_, ok := t.r.bySID[sid]
	return ok
}

func (t *roomTx) Members() []MemberSession { return lo.Values(t.r.bySID) }

func (t *roomTx) MemberCount() int { return len(t.r.bySID) }

func (t *roomTx) Publish(msg string) PublishResult {
	t.r.room.AddMessage(msg)
	res := PublishResult{}
	for sid, m := range t.r.bySID {
		if err := m.Signal().TrySend(Frame(msg)); err != nil {
			log.Warn().Err(err).Str("module", "core.room").Str("room", string(t.r.room.Name)).Str("sid", string(sid)).Msg("delivery dropped")
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(t.r.room.Name)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	t.res.merge(res)
	return res
}

func (t *roomTx) SendHistory(sid SessionID) PublishResult {
	res := PublishResult{}
	m, ok := t.r.bySID[sid]
	if !ok {
		return res
	}
	for _, line := range t.r.room.History {
		if err := m.Signal().TrySend(Frame(line)); err != nil {
			log.Warn().Err(err).Str("module", "core.room").Str("sid", string(sid)).Msg("history replay cut short")
			res.Dropped = append(res.Dropped, m)
			break
		}
		res.SendTo++
	}
	t.res.merge(res)
	return res
}

func (t *roomTx) ClearHistory() {
	t.r.room.ClearMessages()
}

func (t *roomTx) Tally() *domain.Tally {
	return t.r.votes.GetOrCreate(t.r.room.CurrentVoteID())
}

func (t *roomTx) ResetVote() {
	if id, ok := t.r.room.ClearVoteID(); ok {
		t.r.votes.Delete(id)
	}
}
