package app

import (
	"fmt"

	"github.com/dkeye/Poker/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

type Policy interface {
	OnBackPressure(room core.RoomService, member core.MemberSession) BackpressureAction
}

// SimplePolicy ignores slow members; their missed frames are simply lost.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return NoAction
}

// KickPolicy disconnects members whose outbound buffer overflowed.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(core.RoomService, core.MemberSession) BackpressureAction {
	return KickMember
}

// PolicyFromConfig maps the backpressure setting to a Policy.
func PolicyFromConfig(name string) (Policy, error) {
	switch name {
	case "", "ignore":
		return SimplePolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
