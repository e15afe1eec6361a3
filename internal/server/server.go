package server

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/duskdb/duskdb/internal/resp"
	"github.com/duskdb/duskdb/internal/respcodec"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Server is the TCP supervisor: it owns the listener, a bounded worker
// pool that runs command dispatch, and coordinates graceful shutdown.
// Grounded on the accept-loop/WaitGroup shape used by the teacher's
// cmd/server/main.go, generalized into its own type so main can stay a
// thin wiring layer.
type Server struct {
	addr   string
	engine *Engine
	logger *zap.Logger
	pool   *WorkerPool

	listener net.Listener
	wg       sync.WaitGroup

	stopOnce sync.Once
	stopping chan struct{}
}

// NewServer constructs a Server bound to addr. poolSize<=0 uses
// runtime.NumCPU() workers.
func NewServer(addr string, engine *Engine, logger *zap.Logger, poolSize int) *Server {
	return &Server{
		addr:     addr,
		engine:   engine,
		logger:   logger,
		pool:     NewWorkerPool(poolSize),
		stopping: make(chan struct{}),
	}
}

// ListenAndServe binds the listener and accepts connections until
// Shutdown is called or ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info("listening", zap.String("address", s.addr))

	go func() {
		<-ctx.Done()
		s.listener.Close() //nolint:errcheck
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopping:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("accept failed", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serve(conn)
		}()
	}
}

// serve runs the connection's read loop, dispatching each parsed command
// onto the worker pool and writing replies back in arrival order.
func (s *Server) serve(conn net.Conn) {
	peer := NewPeer(conn)
	addr := peer.RemoteAddr().String()

	s.logger.Debug("client connected", zap.String("addr", addr))
	defer func() {
		peer.Close() //nolint:errcheck
		s.logger.Debug("client disconnected", zap.String("addr", addr))
	}()

	for {
		frames, err := peer.ReadFrames()

		for _, tokens := range frames {
			s.dispatch(peer, tokens)
		}

		if err != nil {
			if errors.Is(err, respcodec.ErrProtocol) {
				peer.Send(resp.MakeError("ERR Protocol error")) //nolint:errcheck
				peer.Flush()                                    //nolint:errcheck
				continue
			}
			if errors.Is(err, ErrBufferOverflow) {
				peer.Send(resp.MakeError("ERR max buffer size exceeded")) //nolint:errcheck
				peer.Flush()                                              //nolint:errcheck
				s.logFrameError(err, addr)
				return
			}
			if isTimeout(err) {
				select {
				case <-s.stopping:
					s.logFrameError(err, addr)
					return
				default:
					continue
				}
			}
			if !errors.Is(err, context.Canceled) {
				s.logFrameError(err, addr)
			}
			return
		}

		if err := peer.Flush(); err != nil {
			return
		}
	}
}

// isTimeout reports whether err is a socket read/write deadline expiring,
// as opposed to a hard I/O error (peer reset, EOF).
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (s *Server) logFrameError(err error, addr string) {
	if isTimeout(err) {
		s.logger.Debug("connection idle timeout", zap.String("addr", addr))
		return
	}
	if errors.Is(err, ErrBufferOverflow) {
		s.logger.Warn("frame exceeded buffer limit", zap.String("addr", addr))
		return
	}
	s.logger.Debug("connection read error", zap.String("addr", addr), zap.Error(err))
}

// dispatch turns one frame's argument vector into a RESP command call,
// runs it on a worker-pool goroutine, and waits for it to finish before
// returning, preserving per-connection reply ordering.
func (s *Server) dispatch(peer *Peer, tokens [][]byte) {
	if len(tokens) == 0 {
		peer.Send(resp.MakeError("ERR empty command")) //nolint:errcheck
		return
	}

	name := strings.ToUpper(string(tokens[0]))
	args := make([]resp.Value, len(tokens)-1)
	for i, t := range tokens[1:] {
		args[i] = resp.MakeBulkStringBytes(t)
	}

	done := make(chan struct{})
	if !s.pool.Enqueue(func() {
		defer close(done)
		defer s.recoverFromPanic(peer, name)
		result := s.engine.Execute(name, args)
		peer.Send(result) //nolint:errcheck
	}) {
		peer.Send(resp.MakeError("ERR server is shutting down")) //nolint:errcheck
		return
	}
	<-done
}

// recoverFromPanic isolates one command's failure from the rest of the
// server: a panic inside a handler replies with a generic internal error
// instead of taking down the worker goroutine.
func (s *Server) recoverFromPanic(peer *Peer, name string) {
	if r := recover(); r != nil {
		s.logger.Error("command handler panicked", zap.String("cmd", name), zap.Any("panic", r))
		peer.Send(resp.MakeError("ERR internal error")) //nolint:errcheck
	}
}

// Shutdown stops accepting new connections, waits up to timeout for
// in-flight connections to drain, and stops the worker pool and engine.
func (s *Server) Shutdown(timeout time.Duration) error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopping)
		if s.listener != nil {
			err = multierr.Append(err, s.listener.Close())
		}

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(timeout):
			s.logger.Warn("shutdown timed out, forcing exit", zap.Duration("timeout", timeout))
		}

		s.pool.Shutdown()
		err = multierr.Append(err, s.engine.Shutdown())
	})
	return err
}
