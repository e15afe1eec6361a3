package respcodec_test

import (
	"bytes"
	"testing"

	"github.com/duskdb/duskdb/internal/respcodec"
)

func TestSplit_CompleteArray(t *testing.T) {
	in := []byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n")
	frames, consumed, _, err := respcodec.Split(in)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if consumed != len(in) {
		t.Fatalf("consumed = %d, want %d", consumed, len(in))
	}
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}

	args := respcodec.Parse(frames[0])
	want := [][]byte{[]byte("GET"), []byte("foo")}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if !bytes.Equal(args[i], want[i]) {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestSplit_IncompleteFrame(t *testing.T) {
	in := []byte("*2\r\n$3\r\nSET\r\n$3\r\nk")
	frames, consumed, _, err := respcodec.Split(in)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(frames) != 0 || consumed != 0 {
		t.Fatalf("expected no complete frames yet, got frames=%d consumed=%d", len(frames), consumed)
	}
}

// TestSplit_Fragmentation covers spec.md property 6: for any partition of
// a byte sequence, feeding the pieces in order yields the same frames as
// feeding the whole sequence at once.
func TestSplit_Fragmentation(t *testing.T) {
	whole := []byte("*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$1\r\nv\r\n")

	for cut := 0; cut <= len(whole); cut++ {
		var acc []byte
		var frames [][]byte

		feed := func(b []byte) {
			acc = append(acc, b...)
			fs, consumed, _, err := respcodec.Split(acc)
			if err != nil {
				t.Fatalf("cut=%d: Split() error = %v", cut, err)
			}
			frames = append(frames, fs...)
			acc = acc[consumed:]
		}

		feed(whole[:cut])
		feed(whole[cut:])

		if len(frames) != 1 {
			t.Fatalf("cut=%d: got %d frames, want 1", cut, len(frames))
		}
		args := respcodec.Parse(frames[0])
		if len(args) != 3 || string(args[0]) != "SET" || string(args[1]) != "key" || string(args[2]) != "v" {
			t.Fatalf("cut=%d: args = %v", cut, args)
		}
	}
}

func TestSplit_Pipelining(t *testing.T) {
	one := []byte("*1\r\n$4\r\nPING\r\n")
	in := bytes.Repeat(one, 5)

	frames, consumed, _, err := respcodec.Split(in)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if consumed != len(in) {
		t.Fatalf("consumed = %d, want %d", consumed, len(in))
	}
	if len(frames) != 5 {
		t.Fatalf("frames = %d, want 5", len(frames))
	}
}

func TestSplit_EmptyArray(t *testing.T) {
	frames, consumed, _, err := respcodec.Split([]byte("*0\r\n"))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(frames) != 1 || consumed != 4 {
		t.Fatalf("frames=%d consumed=%d", len(frames), consumed)
	}
	if args := respcodec.Parse(frames[0]); len(args) != 0 {
		t.Errorf("Parse(*0) = %v, want empty", args)
	}
}

func TestSplit_NullBulkInArrayRejected(t *testing.T) {
	_, _, _, err := respcodec.Split([]byte("*1\r\n$-1\r\n"))
	if err != respcodec.ErrProtocol {
		t.Fatalf("err = %v, want ErrProtocol", err)
	}
}

func TestSplit_ExceedsMaxElements(t *testing.T) {
	in := []byte("*1000001\r\n")
	_, _, _, err := respcodec.Split(in)
	if err != respcodec.ErrProtocol {
		t.Fatalf("err = %v, want ErrProtocol", err)
	}
}

func TestSplit_InlineCommand(t *testing.T) {
	frames, consumed, _, err := respcodec.Split([]byte("PING\r\n"))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(frames) != 1 || consumed != 6 {
		t.Fatalf("frames=%d consumed=%d", len(frames), consumed)
	}
	args := respcodec.Parse(frames[0])
	if len(args) != 1 || string(args[0]) != "PING" {
		t.Errorf("args = %v", args)
	}
}

func TestSplit_FragmentedByteByByte(t *testing.T) {
	whole := []byte("*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$1\r\nv\r\n")
	var acc []byte
	var frames [][]byte

	for _, b := range whole {
		acc = append(acc, b)
		fs, consumed, _, err := respcodec.Split(acc)
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		frames = append(frames, fs...)
		acc = acc[consumed:]
	}

	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	args := respcodec.Parse(frames[0])
	if len(args) != 3 || string(args[0]) != "SET" || string(args[1]) != "key" || string(args[2]) != "v" {
		t.Fatalf("args = %v", args)
	}
}
