package gmail

import "errors"

// Sentinel errors for the failure kinds callers may want to branch on with
// errors.Is. Transport failures are not wrapped in a sentinel; they propagate
// unchanged from the collaborator.
var (
	// ErrNotLoggedIn is returned when an operation runs against a session
	// that never completed its login handshake.
	ErrNotLoggedIn = errors.New("gmail: not logged in; create a session with NewSession first")

	// ErrInvalidArgument is returned for bad caller input: an unknown MIME
	// subtype, a missing local attachment file, an out-of-range duplicate
	// index, or an unknown attachment filename. It is always detected before
	// any network or file I/O.
	ErrInvalidArgument = errors.New("gmail: invalid argument")

	// ErrMalformedMessage is returned when a raw message record from the
	// transport is missing required fields.
	ErrMalformedMessage = errors.New("gmail: malformed message record")

	// ErrEmptyThread is returned when a fetched thread resolves to zero
	// messages. This is a contract violation by the transport layer, never a
	// normal empty result.
	ErrEmptyThread = errors.New("gmail: thread has zero messages")
)
