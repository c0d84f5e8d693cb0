// Package orch routes participant messages: it classifies each inbound text,
// applies it to the room and vote state and fans the result out to the room.
package orch

import (
	"context"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const anonymousVoter = "Someone"

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
	Metrics  *metrics.Metrics
	// AnonymousVotes replaces voter names in vote announcements.
	AnonymousVotes bool
}

// OnConnect registers a fresh connection. It has no room until /SETROOM.
func (o *Orchestrator) OnConnect(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	o.Registry.BindSession(sid, sess, cancel)
	o.Metrics.ConnOpened()
}

// OnMessage handles one inbound text from sid. Failures only affect this message.
func (o *Orchestrator) OnMessage(sid core.SessionID, msg string) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("message from unknown session")
		return
	}
	cmd, err := app.ParseCommand(msg)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("dropping message")
		o.Metrics.Command("invalid")
		return
	}
	o.Metrics.Command(commandName(cmd))

	switch c := cmd.(type) {
	case app.Ignore:
	case app.ShareURL:
		o.publish(sid, app.PrefixURL+c.URL)
	case app.SetName:
		o.rename(sid, sess, c.Name)
	case app.ClearHistory:
		o.clearHistory(sid)
	case app.SetRoom:
		o.ChangeRoom(sid, c.Room)
	case app.CastVote:
		o.castVote(sid, c.Vote)
	case app.NewVote:
		o.newVote(sid, sess)
	case app.VoteState:
		o.voteState(sid, sess)
	case app.Chat:
		o.publish(sid, sess.Name()+": "+c.Text)
	}
}

// inRoom runs fn in the critical section of sid's room. It does nothing unless
// sid is still a member of the room its tag resolves to.
func (o *Orchestrator) inRoom(sid core.SessionID, fn func(tx core.RoomTx)) {
	roomName, _, ok := o.Registry.RoomOf(sid)
	if !ok {
		return
	}
	room, ok := o.Rooms.Lookup(roomName)
	if !ok {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Msg("session tagged with unknown room")
		return
	}
	o.handleResult(room, room.Atomically(func(tx core.RoomTx) {
		if !tx.HasMember(sid) {
			log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Msg("session is not a member of its tagged room")
			return
		}
		fn(tx)
	}))
}

func (o *Orchestrator) publish(sid core.SessionID, msg string) {
	o.inRoom(sid, func(tx core.RoomTx) { tx.Publish(msg) })
}

func (o *Orchestrator) rename(sid core.SessionID, sess core.MemberSession, name string) {
	old, changed, err := sess.Rename(name)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("rename rejected")
		return
	}
	if !changed {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("name", sess.Name()).Msg("rename")
	o.publish(sid, "User "+old+" changed name to "+sess.Name())
}

func (o *Orchestrator) clearHistory(sid core.SessionID) {
	o.inRoom(sid, func(tx core.RoomTx) {
		tx.Publish("Cleared server side chat & vote history.")
		tx.ClearHistory()
		tx.ResetVote()
	})
}

// handleResult records delivery stats and applies the backpressure policy.
// It runs outside any room lock.
func (o *Orchestrator) handleResult(room core.RoomService, res core.PublishResult) {
	o.Metrics.Delivered(res.SendTo)
	o.Metrics.Dropped(len(res.Dropped))
	if o.Policy == nil || len(res.Dropped) == 0 {
		return
	}
	slow := lo.UniqBy(res.Dropped, func(m core.MemberSession) core.SessionID { return m.ID() })
	for _, m := range slow {
		switch o.Policy.OnBackPressure(room, m) {
		case app.KickMember:
			o.kick(m)
		case app.NoAction:
		}
	}
}

// kick closes the member's transport; its read loop then runs OnDisconnect.
func (o *Orchestrator) kick(m core.MemberSession) {
	log.Info().Str("module", "orch").Str("sid", string(m.ID())).Msg("kicking member")
	o.Registry.Cancel(m.ID())
	m.Signal().Close()
}

func commandName(cmd app.Command) string {
	switch cmd.(type) {
	case app.Ignore:
		return "ignore"
	case app.ShareURL:
		return "url"
	case app.SetName:
		return "set_name"
	case app.ClearHistory:
		return "clear_history"
	case app.SetRoom:
		return "set_room"
	case app.CastVote:
		return "vote_value"
	case app.NewVote:
		return "new_vote"
	case app.VoteState:
		return "vote_state"
	default:
		return "chat"
	}
}
