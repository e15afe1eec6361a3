package server

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/duskdb/duskdb/internal/resp"
)

// TestErrorRepliesCarryERRPrefix pins the universal "-ERR <text>\r\n" wire
// envelope for the two literal cases named by policy: Strict WRONGTYPE and
// INCR overflow, plus a representative sample of the other storage errors.
func TestErrorRepliesCarryERRPrefix(t *testing.T) {
	e := setupEngine()

	e.Execute("LPUSH", makeCommand("LPUSH", "alist", "v"))
	wrongType := e.Execute("GET", makeCommand("GET", "alist"))
	if wrongType.Type != resp.TypeError {
		t.Fatalf("expected error type, got %v", wrongType.Type)
	}
	if !strings.HasPrefix(string(wrongType.String), "ERR WRONGTYPE") {
		t.Errorf("WRONGTYPE reply = %q, want prefix %q", wrongType.String, "ERR WRONGTYPE")
	}

	e.Execute("SET", makeCommand("SET", "counter", strconv.FormatInt(math.MaxInt64, 10)))
	overflow := e.Execute("INCR", makeCommand("INCR", "counter"))
	if overflow.Type != resp.TypeError {
		t.Fatalf("expected error type, got %v", overflow.Type)
	}
	if string(overflow.String) != "ERR overflow" {
		t.Errorf("INCR overflow reply = %q, want %q", overflow.String, "ERR overflow")
	}

	notInt := e.Execute("SET", makeCommand("SET", "notint", "abc"))
	if string(notInt.String) != "OK" {
		t.Fatalf("setup SET failed: %v", notInt.String)
	}
	notIntRes := e.Execute("INCR", makeCommand("INCR", "notint"))
	if !strings.HasPrefix(string(notIntRes.String), "ERR ") {
		t.Errorf("INCR non-integer reply = %q, want ERR prefix", notIntRes.String)
	}

	missing := e.Execute("LSET", makeCommand("LSET", "nosuchlist", "0", "v"))
	if !strings.HasPrefix(string(missing.String), "ERR ") {
		t.Errorf("LSET missing-key reply = %q, want ERR prefix", missing.String)
	}

	unknown := e.Execute("BOGUSCMD", makeCommand("BOGUSCMD"))
	if !strings.HasPrefix(string(unknown.String), "ERR ") {
		t.Errorf("unknown command reply = %q, want ERR prefix", unknown.String)
	}

	arity := e.Execute("PING", makeCommand("PING", "a", "b"))
	if !strings.HasPrefix(string(arity.String), "ERR ") {
		t.Errorf("arity error reply = %q, want ERR prefix", arity.String)
	}
}

// TestSAVEBGSAVEDisabledCarryERRPrefix covers the RDB-disabled replies named
// in the review: they must carry the same envelope as every other error.
func TestSAVEBGSAVEDisabledCarryERRPrefix(t *testing.T) {
	e := setupEngine()

	save := e.Execute("SAVE", makeCommand("SAVE"))
	if string(save.String) != "ERR RDB disabled" {
		t.Errorf("SAVE reply = %q, want %q", save.String, "ERR RDB disabled")
	}

	bgsave := e.Execute("BGSAVE", makeCommand("BGSAVE"))
	if string(bgsave.String) != "ERR RDB disabled" {
		t.Errorf("BGSAVE reply = %q, want %q", bgsave.String, "ERR RDB disabled")
	}
}

// TestEngine_SetGCInterval exercises the live-reload hook the config
// watcher drives: a new interval takes effect on GCInterval() immediately,
// independent of whether the background loop is currently running.
func TestEngine_SetGCInterval(t *testing.T) {
	e := setupEngine()

	if got, want := e.GCInterval(), time.Duration(0); got != want {
		t.Fatalf("GCInterval() = %v, want %v (GC disabled in setupEngine)", got, want)
	}

	e.SetGCInterval(250 * time.Millisecond)
	if got, want := e.GCInterval(), 250*time.Millisecond; got != want {
		t.Errorf("GCInterval() = %v, want %v", got, want)
	}

	// A non-positive interval is rejected, leaving the previous value intact.
	e.SetGCInterval(0)
	if got, want := e.GCInterval(), 250*time.Millisecond; got != want {
		t.Errorf("GCInterval() after no-op SetGCInterval(0) = %v, want %v", got, want)
	}
}
