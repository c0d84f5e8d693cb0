package domain

import (
	"strings"

	"github.com/google/uuid"
)

type (
	RoomName string
	// RoomKey is the case-folded form used for lookups.
	RoomKey string
)

func (n RoomName) Key() RoomKey {
	return RoomKey(strings.ToLower(string(n)))
}

// Room holds the chat history and the active vote round of a room.
// Callers serialize access; see core.RoomService.
type Room struct {
	Name    RoomName
	History []string
	VoteID  string

	// HistoryLimit caps History; zero keeps everything.
	HistoryLimit int
}

func NewRoom(name RoomName, historyLimit int) *Room {
	return &Room{Name: name, HistoryLimit: historyLimit}
}

func (r *Room) AddMessage(msg string) {
	r.History = append(r.History, msg)
	if r.HistoryLimit > 0 && len(r.History) > r.HistoryLimit {
		r.History = append([]string(nil), r.History[len(r.History)-r.HistoryLimit:]...)
	}
}

func (r *Room) ClearMessages() {
	r.History = nil
}

// CurrentVoteID returns the active vote round id, starting a new round if none is active.
func (r *Room) CurrentVoteID() string {
	if r.VoteID == "" {
		r.VoteID = uuid.NewString()
	}
	return r.VoteID
}

// ClearVoteID forgets the active round and returns its id, if any.
func (r *Room) ClearVoteID() (string, bool) {
	id := r.VoteID
	r.VoteID = ""
	return id, id != ""
}
