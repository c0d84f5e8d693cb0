package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkeye/Poker/internal/domain"
)

// Inbound command prefixes, checked in this order.
const (
	PrefixURL          = "/URL"
	PrefixSetName      = "/SETNAME"
	PrefixClearHistory = "/CLEARHISTORY"
	PrefixSetRoom      = "/SETROOM"
	PrefixVoteValue    = "/VOTEVALUE"
	PrefixNewVote      = "/NEWVOTE"
	PrefixVoteState    = "/VOTESTATE"
)

const (
	voterSep = "###"
	valueSep = "##"
)

var ErrMalformedVote = errors.New("malformed vote payload")

// Command is one classified inbound text message.
type Command interface{ command() }

type (
	Ignore       struct{}
	Chat         struct{ Text string }
	ShareURL     struct{ URL string }
	SetName      struct{ Name string }
	ClearHistory struct{}
	SetRoom      struct{ Room domain.RoomName }
	CastVote     struct{ Vote VotePayload }
	NewVote      struct{}
	VoteState    struct{}
)

func (Ignore) command()       {}
func (Chat) command()         {}
func (ShareURL) command()     {}
func (SetName) command()      {}
func (ClearHistory) command() {}
func (SetRoom) command()      {}
func (CastVote) command()     {}
func (NewVote) command()      {}
func (VoteState) command()    {}

// VotePayload is a decoded /VOTEVALUE body. Old < 0 means there was no previous
// vote; a negative New is one of the domain vote sentinels or unknown.
type VotePayload struct {
	Voter string
	New   int
	Old   int
}

// ParseCommand classifies msg. The first matching prefix wins; anything
// unmatched is chat. Only a broken vote payload is an error.
func ParseCommand(msg string) (Command, error) {
	switch {
	case msg == "":
		return Ignore{}, nil
	case strings.HasPrefix(msg, PrefixURL):
		payload := strings.TrimPrefix(msg, PrefixURL)
		if len(payload) == 0 {
			return Ignore{}, nil
		}
		if !strings.HasPrefix(payload, "http") {
			payload = "http://" + payload
		}
		return ShareURL{URL: payload}, nil
	case strings.HasPrefix(msg, PrefixSetName):
		return SetName{Name: strings.TrimSpace(strings.TrimPrefix(msg, PrefixSetName))}, nil
	case msg == PrefixClearHistory:
		return ClearHistory{}, nil
	case strings.HasPrefix(msg, PrefixSetRoom):
		return SetRoom{Room: domain.RoomName(strings.TrimSpace(strings.TrimPrefix(msg, PrefixSetRoom)))}, nil
	case strings.HasPrefix(msg, PrefixVoteValue):
		v, err := ParseVote(strings.TrimPrefix(msg, PrefixVoteValue))
		if err != nil {
			return nil, err
		}
		return CastVote{Vote: v}, nil
	case strings.HasPrefix(msg, PrefixNewVote):
		return NewVote{}, nil
	case strings.HasPrefix(msg, PrefixVoteState):
		return VoteState{}, nil
	default:
		return Chat{Text: msg}, nil
	}
}

// ParseVote decodes "<voter>###<new>##<old>". Both values must fit in 32 bits.
func ParseVote(payload string) (VotePayload, error) {
	payload = strings.TrimSpace(payload)
	voter, rest, ok := strings.Cut(payload, voterSep)
	if !ok {
		return VotePayload{}, fmt.Errorf("%w: missing %q", ErrMalformedVote, voterSep)
	}
	newRaw, oldRaw, ok := strings.Cut(rest, valueSep)
	if !ok {
		return VotePayload{}, fmt.Errorf("%w: missing %q", ErrMalformedVote, valueSep)
	}
	newVal, err := strconv.ParseInt(newRaw, 10, 32)
	if err != nil {
		return VotePayload{}, fmt.Errorf("%w: new value: %w", ErrMalformedVote, err)
	}
	oldVal, err := strconv.ParseInt(oldRaw, 10, 32)
	if err != nil {
		return VotePayload{}, fmt.Errorf("%w: old value: %w", ErrMalformedVote, err)
	}
	return VotePayload{Voter: voter, New: int(newVal), Old: int(oldVal)}, nil
}
