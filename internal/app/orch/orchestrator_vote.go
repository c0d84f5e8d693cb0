package orch

import (
	"fmt"
	"strings"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

func (o *Orchestrator) castVote(sid core.SessionID, v app.VotePayload) {
	voter := v.Voter
	if o.AnonymousVotes {
		voter = anonymousVoter
	}
	o.inRoom(sid, func(tx core.RoomTx) {
		tally := tx.Tally()
		if v.New >= 0 {
			tally.Change(v.Old, v.New)
		} else {
			tally.Remove(v.Old)
		}
		if msg := voteMessage(voter, v); msg != "" {
			tx.Publish(msg)
		}
	})
}

// voteMessage announces a vote change. Cancelling without a previous vote is
// silent; an unknown sentinel still withdraws the old vote and reports an error.
func voteMessage(voter string, v app.VotePayload) string {
	switch {
	case v.New >= 0 && v.Old < 0:
		return fmt.Sprintf("%s set their vote to %d.", voter, v.New)
	case v.New >= 0:
		return fmt.Sprintf("%s changed their vote from %d to %d.", voter, v.Old, v.New)
	case v.New == domain.VoteCancelled && v.Old < 0:
		return ""
	case v.New == domain.VoteCancelled:
		return fmt.Sprintf("%s cancelled their vote of %d.", voter, v.Old)
	case v.New == domain.VotePassed:
		return voter + " passed on this vote."
	case v.New == domain.VoteNeedsInfo:
		return voter + " needs more information to be able to vote."
	default:
		return "Error parsing vote."
	}
}

func (o *Orchestrator) newVote(sid core.SessionID, sess core.MemberSession) {
	o.inRoom(sid, func(tx core.RoomTx) {
		tx.Publish(voteStatus(sess.Name(), tx.Tally()))
		tx.Publish(app.PrefixNewVote)
		tx.Publish(sess.Name() + " has started a new vote.")
		tx.ResetVote()
	})
}

func (o *Orchestrator) voteState(sid core.SessionID, sess core.MemberSession) {
	o.inRoom(sid, func(tx core.RoomTx) {
		tx.Publish(voteStatus(sess.Name(), tx.Tally()))
	})
}

func voteStatus(requester string, t *domain.Tally) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has requested the current vote status. \nThe mean across all votes is %d", requester, t.Mean())
	if mode, ok := t.Mode(); ok {
		fmt.Fprintf(&b, "\nThe mode vote is %d", mode)
	} else {
		b.WriteString("\nThe mode is a draw.")
	}
	b.WriteString("\n" + medianSentence(t.Median()))
	b.WriteString("\nVote breakdown: \n")
	for _, e := range t.Breakdown() {
		fmt.Fprintf(&b, "%d points (x%d)\n", e.Value, e.Count)
	}
	return b.String()
}

func medianSentence(m domain.Median) string {
	switch m.Kind {
	case domain.MedianExact:
		return fmt.Sprintf("The median value is %d", m.Left)
	case domain.MedianBetween:
		return fmt.Sprintf("There are an even number of votes, so the median value is between %d and %d", m.Left, m.Right)
	default:
		return "There are no votes in the current vote. Averages cannot be calculated."
	}
}
