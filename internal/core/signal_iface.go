package core

// Frame is one text message on the wire.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must not block: a full or closed connection returns an error.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
