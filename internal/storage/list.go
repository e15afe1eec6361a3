package storage

import "bytes"

// listIndex resolves a possibly-negative index against a list of length n,
// the way LINDEX and LSET interpret indices counted from the tail (spec.md
// section 8 property 9: LINDEX k i == LINDEX k (i-n)).
func listIndex(i, n int64) (int64, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// LPush prepends values to key's list, creating it if absent.
func (s *Store) LPush(key string, values ...[]byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return 0, ErrWrongType
	}

	list := s.lists[key]
	for _, v := range values {
		list = append([][]byte{v}, list...)
	}
	s.lists[key] = list

	return int64(len(list)), nil
}

// RPush appends values to key's list, creating it if absent.
func (s *Store) RPush(key string, values ...[]byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return 0, ErrWrongType
	}

	list := append(s.lists[key], values...)
	s.lists[key] = list

	return int64(len(list)), nil
}

// LPop removes and returns the head element of key's list.
func (s *Store) LPop(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return nil, false, ErrWrongType
	}

	list := s.lists[key]
	if len(list) == 0 {
		return nil, false, nil
	}

	v := list[0]
	list = list[1:]
	s.setOrDropList(key, list)
	return v, true, nil
}

// RPop removes and returns the tail element of key's list.
func (s *Store) RPop(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return nil, false, ErrWrongType
	}

	list := s.lists[key]
	if len(list) == 0 {
		return nil, false, nil
	}

	v := list[len(list)-1]
	list = list[:len(list)-1]
	s.setOrDropList(key, list)
	return v, true, nil
}

// setOrDropList stores list back under key, or deletes the key entirely
// once its list has been emptied (spec.md section 3 lifecycle: "list/hash
// operations that empty the container" destroy the key).
func (s *Store) setOrDropList(key string, list [][]byte) {
	if len(list) == 0 {
		delete(s.lists, key)
		delete(s.deadlines, key)
		return
	}
	s.lists[key] = list
}

// LLen returns the length of key's list (0 if absent).
func (s *Store) LLen(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return 0, ErrWrongType
	}
	return int64(len(s.lists[key])), nil
}

// LIndex returns the element at index (negative counts from the tail).
func (s *Store) LIndex(key string, index int64) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return nil, false, ErrWrongType
	}

	list := s.lists[key]
	idx, ok := listIndex(index, int64(len(list)))
	if !ok {
		return nil, false, nil
	}
	return list[idx], true, nil
}

// LSet overwrites the element at index. Returns ErrNoSuchKey if key is
// absent and ErrOutOfRange if index is outside the list's bounds.
func (s *Store) LSet(key string, index int64, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	t := s.typeOfLocked(key)
	if t == TypeNone {
		return ErrNoSuchKey
	}
	if t != TypeList {
		return ErrWrongType
	}

	list := s.lists[key]
	idx, ok := listIndex(index, int64(len(list)))
	if !ok {
		return ErrOutOfRange
	}
	list[idx] = value
	return nil
}

// LRem removes up to |count| elements equal to value: head-first if
// count > 0, tail-first if count < 0, all matches if count == 0.
func (s *Store) LRem(key string, count int64, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return 0, ErrWrongType
	}

	list := s.lists[key]
	if len(list) == 0 {
		return 0, nil
	}

	limit := count
	if limit < 0 {
		limit = -limit
	}

	result := make([][]byte, 0, len(list))
	removed := int64(0)

	matches := func() bool { return limit == 0 || removed < limit }

	if count >= 0 {
		for _, v := range list {
			if bytes.Equal(v, value) && matches() {
				removed++
				continue
			}
			result = append(result, v)
		}
	} else {
		for i := len(list) - 1; i >= 0; i-- {
			v := list[i]
			if bytes.Equal(v, value) && matches() {
				removed++
				continue
			}
			result = append([][]byte{v}, result...)
		}
	}

	s.setOrDropList(key, result)
	return removed, nil
}

// LGet returns a snapshot of the full list, used by both the LGET command
// and LRANGE's clamping logic.
func (s *Store) LGet(key string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeIfExpiredLocked(key)
	if t := s.typeOfLocked(key); t != TypeNone && t != TypeList {
		return nil, ErrWrongType
	}

	list := s.lists[key]
	out := make([][]byte, len(list))
	copy(out, list)
	return out, nil
}

