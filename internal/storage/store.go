// Package storage implements the keyspace store: the thread-safe, typed,
// TTL-aware collection of strings, lists, and hashes described in
// spec.md section 4.2.
package storage

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// sweepInterval bounds how often DeleteExpired's background trigger runs a
// full scan of the deadline map, per spec.md's "at most once per 1000 ms"
// rate limit.
const sweepInterval = time.Second

// Store is the single-mutex keyspace described in spec.md section 4.2 and
// section 9's "Lock granularity" note: one global mutex protects all three
// typed stores and the deadline map for each operation's entirety. Sharded
// locking is a documented future optimization, not implemented here.
type Store struct {
	mu sync.Mutex

	strings map[string][]byte
	lists   map[string][][]byte
	hashes  map[string]map[string][]byte

	deadlines map[string]time.Time
	lastSweep time.Time
}

// New constructs an empty keyspace store.
func New() *Store {
	return &Store{
		strings:   make(map[string][]byte),
		lists:     make(map[string][][]byte),
		hashes:    make(map[string]map[string][]byte),
		deadlines: make(map[string]time.Time),
	}
}

// purgeIfExpiredLocked deletes key from its store and the deadline map if
// its deadline has passed. Must be called with mu held. Returns true if
// key is now (or already was) absent.
func (s *Store) purgeIfExpiredLocked(key string) bool {
	deadline, hasDeadline := s.deadlines[key]
	if !hasDeadline {
		return !s.existsLocked(key)
	}
	if time.Now().Before(deadline) {
		return false
	}
	s.deleteLocked(key)
	return true
}

func (s *Store) existsLocked(key string) bool {
	if _, ok := s.strings[key]; ok {
		return true
	}
	if _, ok := s.lists[key]; ok {
		return true
	}
	if _, ok := s.hashes[key]; ok {
		return true
	}
	return false
}

func (s *Store) typeOfLocked(key string) DataType {
	if _, ok := s.strings[key]; ok {
		return TypeString
	}
	if _, ok := s.lists[key]; ok {
		return TypeList
	}
	if _, ok := s.hashes[key]; ok {
		return TypeHash
	}
	return TypeNone
}

func (s *Store) deleteLocked(key string) bool {
	_, inStr := s.strings[key]
	_, inList := s.lists[key]
	_, inHash := s.hashes[key]

	delete(s.strings, key)
	delete(s.lists, key)
	delete(s.hashes, key)
	delete(s.deadlines, key)

	return inStr || inList || inHash
}

// Get returns the string value and true if key holds a string and has not
// expired.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)

	switch s.typeOfLocked(key) {
	case TypeList, TypeHash:
		return nil, false, ErrWrongType
	}

	v, ok := s.strings[key]
	return v, ok, nil
}

// Set stores value as a string under key per options, under the Strict
// cross-type policy from spec.md section 9: writing a string over a key
// bound to a list or hash returns ErrWrongType rather than clobbering it.
func (s *Store) Set(key string, value []byte, options SetOptions) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)

	if t := s.typeOfLocked(key); t == TypeList || t == TypeHash {
		return false, ErrWrongType
	}

	existed := s.existsLocked(key)
	if options.NX && existed {
		return false, nil
	}
	if options.XX && !existed {
		return false, nil
	}

	s.strings[key] = value

	switch {
	case options.KeepTTL:
		// leave s.deadlines[key] untouched
	case options.TTL > 0:
		s.deadlines[key] = time.Now().Add(options.TTL)
	default:
		delete(s.deadlines, key)
	}

	return true, nil
}

// Incr parses key's string value as a base-10 integer, increments it, and
// re-stores it as text. A missing key is treated as zero.
func (s *Store) Incr(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)

	if t := s.typeOfLocked(key); t == TypeList || t == TypeHash {
		return 0, ErrWrongType
	}

	var n int64
	if raw, ok := s.strings[key]; ok {
		parsed, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		n = parsed
	}

	if n == math.MaxInt64 {
		return 0, ErrOverflow
	}
	n++

	s.strings[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// Delete removes key from whichever store holds it, and its deadline.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	return s.deleteLocked(key)
}

// FlushAll clears every store and every deadline.
func (s *Store) FlushAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strings = make(map[string][]byte)
	s.lists = make(map[string][][]byte)
	s.hashes = make(map[string]map[string][]byte)
	s.deadlines = make(map[string]time.Time)
}

// Keys returns the union of keys across all typed stores, after a full
// expiry sweep. Under the Strict cross-type policy a key lives in exactly
// one store, so no de-duplication is needed.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(forceSweep)

	keys := make([]string, 0, len(s.strings)+len(s.lists)+len(s.hashes))
	for k := range s.strings {
		keys = append(keys, k)
	}
	for k := range s.lists {
		keys = append(keys, k)
	}
	for k := range s.hashes {
		keys = append(keys, k)
	}
	return keys
}

// Type reports which typed store key belongs to, purging it first if its
// deadline has passed.
func (s *Store) Type(key string) DataType {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	return s.typeOfLocked(key)
}

// Rename moves oldKey's value and deadline onto newKey, clearing any
// previous value at newKey. Returns false if oldKey does not exist.
func (s *Store) Rename(oldKey, newKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(oldKey)
	if !s.existsLocked(oldKey) {
		return false
	}
	if oldKey == newKey {
		return true
	}

	s.deleteLocked(newKey)

	if v, ok := s.strings[oldKey]; ok {
		s.strings[newKey] = v
	}
	if v, ok := s.lists[oldKey]; ok {
		s.lists[newKey] = v
	}
	if v, ok := s.hashes[oldKey]; ok {
		s.hashes[newKey] = v
	}
	if d, ok := s.deadlines[oldKey]; ok {
		s.deadlines[newKey] = d
	} else {
		delete(s.deadlines, newKey)
	}

	delete(s.strings, oldKey)
	delete(s.lists, oldKey)
	delete(s.hashes, oldKey)
	delete(s.deadlines, oldKey)
	return true
}

// Expire sets key's deadline to now+ttl. Returns false if key does not
// exist in any store.
func (s *Store) Expire(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if !s.existsLocked(key) {
		return false
	}
	s.deadlines[key] = time.Now().Add(ttl)
	return true
}

// Persist clears key's deadline, if any. Returns true if a deadline was
// removed.
func (s *Store) Persist(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if _, ok := s.deadlines[key]; !ok {
		return false
	}
	delete(s.deadlines, key)
	return true
}

// TTL returns the remaining lifetime and status for key.
func (s *Store) TTL(key string) (time.Duration, ExpiryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if !s.existsLocked(key) {
		return 0, ExpNotFound
	}
	deadline, ok := s.deadlines[key]
	if !ok {
		return 0, ExpNoTimeout
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, ExpActive
}

const forceSweep = true

// sweepLocked performs a full scan of the deadline map, deleting anything
// past due, at most once per sweepInterval unless force is set.
func (s *Store) sweepLocked(force bool) float64 {
	if !force && time.Since(s.lastSweep) < sweepInterval {
		return 0
	}
	s.lastSweep = time.Now()

	now := time.Now()
	checked := 0
	expired := 0
	for key, deadline := range s.deadlines {
		checked++
		if now.After(deadline) {
			s.deleteLocked(key)
			expired++
		}
	}
	if checked == 0 {
		return 0
	}
	return float64(expired) / float64(checked)
}

// DeleteExpired performs the rate-limited full sweep described in
// spec.md's TTL purge policy. limit is accepted for interface parity with
// a future sharded implementation; a single global store always sweeps
// its entire deadline map in one pass.
func (s *Store) DeleteExpired(limit int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(!forceSweep)
}
