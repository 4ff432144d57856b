package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrymomot/httpdispatch/pkg/clientip"
	"github.com/dmitrymomot/httpdispatch/pkg/logger"
	"github.com/dmitrymomot/httpdispatch/pkg/ratelimiter"
	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/requestid"
	"github.com/dmitrymomot/httpdispatch/pkg/response"
)

const (
	lingerTimeout = 500 * time.Millisecond
	lingerBytes   = 256 << 10
)

// serveConn runs one request on conn: read, decode, route, write, close.
// Every failure short of a vanished peer still produces a response.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	defer closeConn(conn)

	remote := conn.RemoteAddr().String()
	if s.opts.readTimeout > 0 {
		_ = conn.SetReadDeadline(start.Add(s.opts.readTimeout))
	}

	head, err := request.ReadHead(bufio.NewReader(conn))
	if head == nil {
		if errors.Is(err, io.EOF) {
			s.logger.DebugContext(ctx, "connection closed before request", logger.RemoteAddr(remote))
			return
		}
		ctx = requestid.WithContext(ctx, requestid.New())
		s.logger.WarnContext(ctx, "failed to read request", logger.RemoteAddr(remote), logger.Error(err))
		status := http.StatusBadRequest
		if errors.Is(err, os.ErrDeadlineExceeded) {
			status = http.StatusRequestTimeout
		}
		s.respond(ctx, conn, start, response.Error(status, err))
		return
	}
	head.RemoteAddr = remote

	ctx = requestid.WithContext(ctx, requestid.Resolve(head.Header.Get(requestid.Header)))
	ctx = clientip.WithContext(ctx, clientip.Resolve(head.Header, remote))

	resp := s.handle(ctx, head, err)
	if resp == nil {
		return
	}
	s.respond(ctx, conn, start, resp)
}

// handle produces the response for a parsed head. A nil response means the
// peer is gone and nothing should be written. Panics become 500s.
func (s *Server) handle(ctx context.Context, head *request.Head, headErr error) (resp *response.Response) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			s.logger.ErrorContext(ctx, "request handler panicked", logger.Error(err))
			resp = response.Error(http.StatusInternalServerError, err)
		}
	}()

	if headErr != nil {
		s.logger.WarnContext(ctx, "unsupported method", logger.Method(string(head.Method)), logger.Error(headErr))
		return response.Error(http.StatusNotImplemented, headErr)
	}

	if denied := s.admit(ctx); denied != nil {
		return denied
	}

	if head.Method == request.MethodHead {
		return response.Empty(http.StatusOK)
	}

	req, err := head.Decode(s.opts.maxBodyBytes)
	switch {
	case err == nil:
	case errors.Is(err, request.ErrBodyTooLarge):
		return response.Error(http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, request.ErrReadBody):
		s.logger.WarnContext(ctx, "failed to read request body", logger.Error(err))
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return response.Error(http.StatusRequestTimeout, err)
		}
		return nil
	default:
		s.logger.ErrorContext(ctx, "failed to decode request", logger.Error(err))
		return response.Error(http.StatusInternalServerError, err)
	}

	resp, err = s.router.Route(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "request handler failed", logger.Error(err))
		return response.Error(http.StatusInternalServerError, err)
	}
	return resp
}

// admit applies the rate limiter. Limiter failures let the request through.
func (s *Server) admit(ctx context.Context) *response.Response {
	ip := clientip.FromContext(ctx)
	if s.opts.limiter == nil || ip == "" {
		return nil
	}

	res, err := s.opts.limiter.Allow(ctx, ip)
	if err != nil {
		s.logger.WarnContext(ctx, "rate limiter unavailable", logger.Error(err))
		return nil
	}
	if res.Allowed() {
		return nil
	}

	resp := response.Error(http.StatusTooManyRequests, ErrRateLimited)
	ratelimiter.SetHeaders(resp.Header, res)
	return resp
}

func (s *Server) respond(ctx context.Context, conn net.Conn, start time.Time, resp *response.Response) {
	setRequestID(resp, requestid.FromContext(ctx))
	if s.opts.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.opts.writeTimeout))
	}
	s.writer.Write(ctx, conn, resp)

	s.logger.DebugContext(ctx, "request completed",
		logger.Status(resp.Status),
		slog.Int("bytes", len(resp.Body)),
		logger.Duration(time.Since(start)))
}

// setRequestID echoes id on resp. Handlers may return a Response without a
// header map.
func setRequestID(resp *response.Response, id string) {
	if id == "" {
		return
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	resp.Header.Set(requestid.Header, id)
}

// closeConn half-closes TCP connections and discards unread input for a short
// while before closing, so a peer that is still sending sees the response
// instead of a reset.
func closeConn(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err == nil {
			_ = tc.SetReadDeadline(time.Now().Add(lingerTimeout))
			_, _ = io.Copy(io.Discard, io.LimitReader(tc, lingerBytes))
		}
	}
	_ = conn.Close()
}
