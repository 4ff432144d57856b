package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/requestid"
	"github.com/dmitrymomot/httpdispatch/pkg/response"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

const (
	maxAcceptBackoff = time.Second
	rejectTimeout    = time.Second
)

type counters struct {
	accepted atomic.Uint64
}

// acceptLoop hands every accepted connection to the pool and never waits for
// request work. It exits when Stop interrupts it or the listener fails.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer close(s.acceptDone)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isStopping() {
				return
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() || isTemporary(err) {
				backoff = min(max(backoff*2, 5*time.Millisecond), maxAcceptBackoff)
				s.logger.WarnContext(ctx, "accept failed, retrying",
					logger.Error(err),
					logger.Duration(backoff))
				time.Sleep(backoff)
				continue
			}
			s.logger.ErrorContext(ctx, "accept failed", logger.Error(err))
			s.acceptErr <- err
			return
		}
		backoff = 0
		s.accepted.Add(1)

		if err := s.pool.Submit(s.connTask(conn)); err != nil {
			if errors.Is(err, workerpool.ErrQueueFull) {
				s.logger.WarnContext(ctx, "worker queue is full, rejecting connection",
					logger.RemoteAddr(conn.RemoteAddr().String()))
			}
			s.rejects.Add(1)
			go func() {
				defer s.rejects.Done()
				s.reject(ctx, conn, response.Error(http.StatusServiceUnavailable, ErrOverloaded))
			}()
		}
	}
}

func (s *Server) connTask(conn net.Conn) workerpool.Task {
	return func(ctx context.Context) { s.serveConn(ctx, conn) }
}

// reject answers conn without routing. The request head is read first so the
// peer is not reset before it sees the response.
func (s *Server) reject(ctx context.Context, conn net.Conn, resp *response.Response) {
	defer closeConn(conn)
	_ = conn.SetDeadline(time.Now().Add(rejectTimeout))

	id := requestid.New()
	if head, err := request.ReadHead(bufio.NewReader(conn)); head != nil && err == nil {
		id = requestid.Resolve(head.Header.Get(requestid.Header))
	}
	setRequestID(resp, id)
	s.writer.Write(requestid.WithContext(ctx, id), conn, resp)
}

// interruptAccept unblocks Accept without closing the listener, so the socket
// stays bound until in-flight requests drain. Listeners without deadlines are
// closed instead.
func (s *Server) interruptAccept(ln net.Listener) {
	type deadliner interface {
		SetDeadline(t time.Time) error
	}
	if d, ok := ln.(deadliner); ok {
		if err := d.SetDeadline(time.Now()); err == nil {
			return
		}
	}
	_ = ln.Close()
}

func (s *Server) isStopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopping
}

func isTemporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
