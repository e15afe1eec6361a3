package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/duskdb/duskdb/internal/resp"
)

func TestServer_ServeEchoesPing(t *testing.T) {
	eng := setupEngine()
	srv := &Server{engine: eng, logger: eng.logger, pool: NewWorkerPool(2), stopping: make(chan struct{})}
	defer srv.pool.Shutdown()

	client, serverConn := net.Pipe()
	defer client.Close()

	go srv.serve(serverConn)

	if _, err := client.Write([]byte("*1\r\n$4\r\nPING\r\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	reader := bufio.NewReader(client)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply failed: %v", err)
	}
	if line != "+PONG\r\n" {
		t.Fatalf("got %q, want +PONG\\r\\n", line)
	}
}

func TestServer_ServeMultipleCommandsPreserveOrder(t *testing.T) {
	eng := setupEngine()
	srv := &Server{engine: eng, logger: eng.logger, pool: NewWorkerPool(4), stopping: make(chan struct{})}
	defer srv.pool.Shutdown()

	client, serverConn := net.Pipe()
	defer client.Close()

	go srv.serve(serverConn)

	req := "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n" +
		"*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"
	if _, err := client.Write([]byte(req)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	reader := bufio.NewReader(client)

	setReply, err := reader.ReadString('\n')
	if err != nil || setReply != "+OK\r\n" {
		t.Fatalf("SET reply = %q, %v; want +OK\\r\\n", setReply, err)
	}

	getHeader, err := reader.ReadString('\n')
	if err != nil || getHeader != "$1\r\n" {
		t.Fatalf("GET header = %q, %v; want $1\\r\\n", getHeader, err)
	}
	getBody, err := reader.ReadString('\n')
	if err != nil || getBody != "v\r\n" {
		t.Fatalf("GET body = %q, %v; want v\\r\\n", getBody, err)
	}
}

func TestServer_PanicRecovery(t *testing.T) {
	eng := setupEngine()
	eng.register("PANIC", commandFunc(func(ctx *cmdContext) resp.Value {
		panic("boom")
	}))
	srv := &Server{engine: eng, logger: eng.logger, pool: NewWorkerPool(2), stopping: make(chan struct{})}
	defer srv.pool.Shutdown()

	client, serverConn := net.Pipe()
	defer client.Close()

	go srv.serve(serverConn)

	if _, err := client.Write([]byte("*1\r\n$5\r\nPANIC\r\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	reader := bufio.NewReader(client)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply failed: %v", err)
	}
	if len(line) == 0 || line[0] != '-' {
		t.Fatalf("got %q, want an error reply", line)
	}

	if _, err := client.Write([]byte("*1\r\n$4\r\nPING\r\n")); err != nil {
		t.Fatalf("write after panic failed: %v", err)
	}
	line, err = reader.ReadString('\n')
	if err != nil || line != "+PONG\r\n" {
		t.Fatalf("connection did not survive the panic: %q, %v", line, err)
	}
}

func TestServer_EmptyCommandRepliesError(t *testing.T) {
	eng := setupEngine()
	srv := &Server{engine: eng, logger: eng.logger, pool: NewWorkerPool(2), stopping: make(chan struct{})}
	defer srv.pool.Shutdown()

	client, serverConn := net.Pipe()
	defer client.Close()

	go srv.serve(serverConn)

	if _, err := client.Write([]byte("*0\r\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	reader := bufio.NewReader(client)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply failed: %v", err)
	}
	if len(line) == 0 || line[0] != '-' {
		t.Fatalf("got %q, want an error reply", line)
	}
}
