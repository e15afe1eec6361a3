package storage

import (
	"io"
	"time"
)

// SetOptions carries SET's optional modifiers, grounded on spec.md section
// 4.3 (EX/PX) and extended with the NX/XX/KEEPTTL forms the command
// dispatcher's tests exercise.
type SetOptions struct {
	TTL     time.Duration // absolute lifetime to apply; zero means no TTL
	KeepTTL bool          // retain the key's existing deadline, ignoring TTL
	NX      bool          // only set if the key does not already exist
	XX      bool          // only set if the key already exists
}

// Storage is the keyspace store's contract: the thread-safe, typed,
// TTL-aware collection described in spec.md section 4.2.
type Storage interface {
	// Get returns the string value and true if key holds a string and has
	// not expired. Returns ErrWrongType if key holds a non-string value.
	Get(key string) ([]byte, bool, error)

	// Set stores value as a string under key per options. Returns whether
	// the write was performed (false only for a failed NX/XX precondition)
	// and ErrWrongType if key is already bound to a list or hash.
	Set(key string, value []byte, options SetOptions) (bool, error)

	// Incr parses key's string value as a base-10 integer, increments it
	// by one, and re-stores it as text. A missing key starts at zero.
	Incr(key string) (int64, error)

	// Delete removes key from whichever store holds it, and its deadline.
	// Returns true if the key existed.
	Delete(key string) bool

	// FlushAll clears every store and every deadline.
	FlushAll()

	// Keys returns the union of keys across all typed stores, after a
	// full expiry sweep.
	Keys() []string

	// Type reports which typed store key belongs to ("none" if absent).
	Type(key string) DataType

	// Rename moves old's value and deadline onto new, clearing any
	// previous value at new. Returns false if old does not exist.
	Rename(oldKey, newKey string) bool

	// Expire sets key's deadline to now+ttl. Returns false if key does
	// not exist in any store.
	Expire(key string, ttl time.Duration) bool

	// Persist clears key's deadline, if any. Returns true if a deadline
	// was removed.
	Persist(key string) bool

	// TTL returns the remaining lifetime and status (ExpNotFound,
	// ExpNoTimeout, or the remaining duration).
	TTL(key string) (time.Duration, ExpiryStatus)

	// DeleteExpired performs a rate-limited full sweep of the deadline
	// map, deleting keys past due. Returns the fraction of keys checked
	// that were expired.
	DeleteExpired(limit int) float64

	// List operations. All return ErrWrongType if key holds a
	// non-list value.
	LPush(key string, values ...[]byte) (int64, error)
	RPush(key string, values ...[]byte) (int64, error)
	LPop(key string) ([]byte, bool, error)
	RPop(key string) ([]byte, bool, error)
	LLen(key string) (int64, error)
	LIndex(key string, index int64) ([]byte, bool, error)
	LSet(key string, index int64, value []byte) error
	LRem(key string, count int64, value []byte) (int64, error)
	LGet(key string) ([][]byte, error)

	// Hash operations. All return ErrWrongType if key holds a
	// non-hash value.
	HSet(key, field string, value []byte) error
	HGet(key, field string) ([]byte, bool, error)
	HDel(key, field string) (bool, error)
	HExists(key, field string) (bool, error)
	HGetAll(key string) (map[string][]byte, error)
	HKeys(key string) ([]string, error)
	HVals(key string) ([][]byte, error)
	HLen(key string) (int64, error)
	HMSet(key string, pairs map[string][]byte) error

	// Dump serializes the full keyspace and deadlines to w in spec.md
	// section 4.2's line-oriented format, consistently (no operation may
	// be partially observed during serialization).
	Dump(w io.Writer) error

	// Load replaces all state from r (as written by Dump), then purges
	// already-expired keys.
	Load(r io.Reader) error
}
