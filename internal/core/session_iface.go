package core

type SessionID string

// MemberSession binds a participant's display name to its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Name() string
	// Rename trims and validates name; changed is false when it equals the current one.
	Rename(name string) (old string, changed bool, err error)
	Signal() SignalConnection
}
