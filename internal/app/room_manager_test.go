package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/stretchr/testify/require"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func member(sid core.SessionID) core.MemberSession {
	return core.NewMemberSession(sid, domain.NewUser(), nopConn{})
}

func TestRoomManager_CaseInsensitiveLookup(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager(core.NewVoteRegistry(), 0)

	a := rooms.GetOrCreate("Team")
	b := rooms.GetOrCreate("team")

	req.Same(a, b)
	req.Equal(domain.RoomName("Team"), b.Name())
	req.Equal(1, rooms.Len())
}

func TestRoomManager_LeaveDeletesOnlyEmptyRooms(t *testing.T) {
	req := require.New(t)
	votes := core.NewVoteRegistry()
	rooms := NewRoomManager(votes, 0)

	// Given two members in the same room with an active vote
	room, _ := rooms.Join("Team", "a", member("a"), nil)
	rooms.Join("TEAM", "b", member("b"), nil)
	room.Atomically(func(tx core.RoomTx) { tx.Tally().Add(3) })
	req.Equal(2, room.MemberCount())

	// When one leaves, the room persists
	deleted, _ := rooms.Leave(room, "a", nil)
	req.False(deleted)
	_, ok := rooms.Lookup("team")
	req.True(ok)

	// When the last one leaves, the room and its tally are gone
	deleted, _ = rooms.Leave(room, "b", nil)
	req.True(deleted)
	_, ok = rooms.Lookup("team")
	req.False(ok)
	req.Equal(0, votes.Len())
}

func TestRoomManager_Delete(t *testing.T) {
	req := require.New(t)
	votes := core.NewVoteRegistry()
	rooms := NewRoomManager(votes, 0)
	room, _ := rooms.Join("Team", "a", member("a"), nil)
	room.Atomically(func(tx core.RoomTx) { tx.Tally().Add(1) })

	members, ok := rooms.Delete("other")
	req.False(ok)
	req.Empty(members)

	// Deleting hands back whoever was still inside
	members, ok = rooms.Delete("TEAM")
	req.True(ok)
	req.Len(members, 1)
	req.Equal(core.SessionID("a"), members[0].ID())
	req.Zero(room.MemberCount())
	req.Zero(votes.Len())
	req.Empty(rooms.List())
}

func TestRoomManager_LeaveByNonMemberIsNoop(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager(core.NewVoteRegistry(), 0)
	room := rooms.GetOrCreate("Team")

	called := false
	deleted, res := rooms.Leave(room, "ghost", func(core.RoomTx) { called = true })

	req.False(deleted)
	req.False(called)
	req.Zero(res.SendTo)
	_, ok := rooms.Lookup("Team")
	req.True(ok)
}

func TestRoomManager_List(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager(core.NewVoteRegistry(), 0)
	rooms.Join("b", "1", member("1"), nil)
	rooms.GetOrCreate("a")

	req.Equal([]core.RoomInfo{
		{Name: "a", MemberCount: 0},
		{Name: "b", MemberCount: 1},
	}, rooms.List())
}

func TestRoomManager_ConcurrentJoinLeave(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager(core.NewVoteRegistry(), 0)

	// A resident keeps the room alive while others churn
	resident, _ := rooms.Join("Team", "resident", member("resident"), nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sid := core.SessionID(fmt.Sprintf("s%d", i))
			room, _ := rooms.Join("team", sid, member(sid), nil)
			rooms.Leave(room, sid, nil)
		}()
	}
	wg.Wait()

	room, ok := rooms.Lookup("TEAM")
	req.True(ok)
	req.Same(resident, room)
	req.Equal(1, room.MemberCount())
}
