package orch

import (
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// ChangeRoom moves sid into roomName. Asking for the current room again only
// replays its history to sid.
func (o *Orchestrator) ChangeRoom(sid core.SessionID, roomName domain.RoomName) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	if roomName == "" {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("empty room name")
		return
	}

	if current, _, ok := o.Registry.RoomOf(sid); ok {
		if current.Key() == roomName.Key() {
			o.inRoom(sid, func(tx core.RoomTx) { tx.SendHistory(sid) })
			return
		}
		o.leaveRoom(sid, sess, current, true)
	}

	room, res := o.Rooms.Join(roomName, sid, sess, func(tx core.RoomTx) {
		tx.SendHistory(sid)
		tx.Publish(sess.Name() + " has joined the room.")
	})
	o.Registry.UpdateRoom(sid, room.Name())
	o.Metrics.SetRooms(o.Rooms.Len())
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Name())).Msg("joined room")
	o.handleResult(room, res)
}

// leaveRoom announces the departure and drops the room once nobody is left in
// it. With notifySelf the leaver gets the announcement too.
func (o *Orchestrator) leaveRoom(sid core.SessionID, sess core.MemberSession, roomName domain.RoomName, notifySelf bool) {
	defer o.Registry.RemoveRoom(sid)
	room, ok := o.Rooms.Lookup(roomName)
	if !ok {
		return
	}
	deleted, res := o.Rooms.Leave(room, sid, func(tx core.RoomTx) {
		msg := sess.Name() + " has left the room."
		tx.Publish(msg)
		if notifySelf {
			if err := sess.Signal().TrySend(core.Frame(msg)); err != nil {
				log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("leave notice dropped")
			}
		}
	})
	if deleted {
		o.Metrics.SetRooms(o.Rooms.Len())
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Bool("room_deleted", deleted).Msg("left room")
	o.handleResult(room, res)
}

// OnDisconnect runs once when sid's transport is gone.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	if roomName, _, ok := o.Registry.RoomOf(sid); ok {
		o.leaveRoom(sid, sess, roomName, false)
	}
	o.Registry.Unbind(sid)
	o.Metrics.ConnClosed()
}

// EvictRoom disconnects every member of the room and deletes it.
// It reports false when no such room exists.
func (o *Orchestrator) EvictRoom(name domain.RoomName) bool {
	members, ok := o.Rooms.Delete(name)
	if !ok {
		return false
	}
	o.Metrics.SetRooms(o.Rooms.Len())
	for _, m := range members {
		o.Registry.RemoveRoom(m.ID())
		o.kick(m)
	}
	log.Info().Str("module", "orch").Str("room", string(name)).Int("members", len(members)).Msg("room evicted")
	return true
}
