package storage

import "errors"

// All sentinel errors below carry the "ERR " wire prefix inline, since
// handlers forward err.Error() straight into resp.MakeError: every reply
// on the wire is "-ERR <text>\r\n", with no bare, unprefixed error type.
var (
	// ErrWrongType is returned when an operation targets a key already
	// bound to a different typed store (spec.md section 9, Strict policy).
	ErrWrongType = errors.New("ERR WRONGTYPE Operation against a key holding the wrong kind of value")

	// ErrNoSuchKey is returned by operations that require an existing key
	// of a particular type (LSET on a missing list).
	ErrNoSuchKey = errors.New("ERR no such key")

	// ErrOutOfRange is returned by LSET when the index is outside the
	// list's current bounds.
	ErrOutOfRange = errors.New("ERR index out of range")

	// ErrNotInteger is returned by INCR when the stored string value does
	// not parse as a base-10 integer.
	ErrNotInteger = errors.New("ERR value is not an integer or out of range")

	// ErrOverflow is returned by INCR when incrementing would overflow a
	// signed 64-bit integer (spec.md section 9 open question: reply is the
	// literal "-ERR overflow", not a longer description).
	ErrOverflow = errors.New("ERR overflow")
)
