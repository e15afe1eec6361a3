package storage

import (
	"errors"
	"testing"
)

func TestStore_HashSetGet(t *testing.T) {
	s := New()

	if err := s.HSet("h", "f1", []byte("v1")); err != nil {
		t.Fatal(err)
	}

	v, ok, err := s.HGet("h", "f1")
	if err != nil || !ok || string(v) != "v1" {
		t.Fatalf("HGet() = %q, %v, %v; want v1, true, nil", v, ok, err)
	}

	if _, ok, err := s.HGet("h", "missing"); err != nil || ok {
		t.Fatalf("HGet() on missing field = %v, %v; want false, nil", ok, err)
	}
}

func TestStore_HashExistsDel(t *testing.T) {
	s := New()
	s.HSet("h", "f1", []byte("v1"))

	exists, err := s.HExists("h", "f1")
	if err != nil || !exists {
		t.Fatalf("HExists() = %v, %v; want true, nil", exists, err)
	}

	removed, err := s.HDel("h", "f1")
	if err != nil || !removed {
		t.Fatalf("HDel() = %v, %v; want true, nil", removed, err)
	}

	if typ := s.Type("h"); typ != TypeNone {
		t.Fatalf("Type() after draining hash = %v; want none", typ)
	}

	removed, err = s.HDel("h", "f1")
	if err != nil || removed {
		t.Fatalf("HDel() on already-gone field = %v, %v; want false, nil", removed, err)
	}
}

func TestStore_HMSetAndAggregates(t *testing.T) {
	s := New()
	if err := s.HMSet("h", map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatal(err)
	}

	n, err := s.HLen("h")
	if err != nil || n != 2 {
		t.Fatalf("HLen() = %d, %v; want 2, nil", n, err)
	}

	all, err := s.HGetAll("h")
	if err != nil || len(all) != 2 || string(all["a"]) != "1" || string(all["b"]) != "2" {
		t.Fatalf("HGetAll() = %v, %v", all, err)
	}

	keys, err := s.HKeys("h")
	if err != nil || len(keys) != 2 {
		t.Fatalf("HKeys() = %v, %v", keys, err)
	}

	vals, err := s.HVals("h")
	if err != nil || len(vals) != 2 {
		t.Fatalf("HVals() = %v, %v", vals, err)
	}
}

func TestStore_HashWrongType(t *testing.T) {
	s := New()
	s.RPush("l", []byte("v"))

	if err := s.HSet("l", "f", []byte("v")); !errors.Is(err, ErrWrongType) {
		t.Fatalf("HSet() on list key = %v; want ErrWrongType", err)
	}

	s.Set("str", []byte("v"), SetOptions{})
	if _, _, err := s.HGet("str", "f"); !errors.Is(err, ErrWrongType) {
		t.Fatalf("HGet() on string key = %v; want ErrWrongType", err)
	}
}
