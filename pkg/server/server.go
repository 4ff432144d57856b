package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/response"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

// Router turns a decoded request into a response.
type Router interface {
	Route(ctx context.Context, req *request.Request) (*response.Response, error)
}

// Stats is a snapshot of the dispatcher for the admin endpoint.
type Stats struct {
	State    State            `json:"state"`
	Addr     string           `json:"addr"`
	Accepted uint64           `json:"accepted"`
	Pool     workerpool.Stats `json:"pool"`
}

// Server owns the listener, the acceptor goroutine and the worker pool.
type Server struct {
	opts   options
	router Router
	pool   *workerpool.Pool
	writer *response.Writer
	logger *slog.Logger
	lc     *lifecycle

	mu         sync.Mutex // guards ln and stopping
	ln         net.Listener
	stopping   bool
	acceptDone chan struct{}
	rejects    sync.WaitGroup // 503 writers started by the accept loop
	acceptErr  chan error
	done       chan struct{}
	doneOnce   sync.Once

	counters
}

// New returns a server in the Initializing state.
func New(r Router, opts ...Option) (*Server, error) {
	if r == nil {
		return nil, ErrNilRouter
	}

	o := options{
		addr:       DefaultAddr,
		serverName: response.DefaultServerName,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger.With(logger.Component("dispatcher"))
	pool, err := workerpool.New(append([]workerpool.Option{workerpool.WithLogger(o.logger)}, o.poolOpts...)...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:   o,
		router: r,
		pool:   pool,
		writer: response.NewWriter(
			response.WithServerName(o.serverName),
			response.WithLogger(log),
		),
		logger:     log,
		acceptDone: make(chan struct{}),
		acceptErr:  make(chan error, 1),
		done:       make(chan struct{}),
	}
	s.lc = newLifecycle(s.logTransition)
	return s, nil
}

// Start binds the listener, starts the workers and the accept loop, and
// returns once the server is Listening. Bind errors are joined with ErrStart
// and leave the server Stopped.
func (s *Server) Start(ctx context.Context) error {
	if !s.lc.CanFire(EventBind) {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.opts.addr)
	if err != nil {
		_ = s.lc.Fire(ctx, EventAbort)
		s.finish()
		return errors.Join(ErrStart, err)
	}

	if err := s.pool.Start(ctx); err != nil {
		_ = ln.Close()
		_ = s.lc.Fire(ctx, EventAbort)
		s.finish()
		return errors.Join(ErrStart, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	if err := s.lc.Fire(ctx, EventBind); err != nil {
		_ = ln.Close()
		_ = s.pool.Stop(ctx)
		return errors.Join(ErrStart, err)
	}

	go s.acceptLoop(context.WithoutCancel(ctx), ln)

	addr := ln.Addr().String()
	s.logger.InfoContext(ctx, "server listening",
		slog.String("addr", addr),
		slog.Int("workers", s.pool.Stats().Workers),
		slog.Int("queue_size", s.pool.Stats().QueueSize))
	for _, h := range s.opts.startHooks {
		h(addr)
	}
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then drains.
// A failing listener also ends Run, with its error joined with ErrStart.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-s.acceptErr:
		runErr = errors.Join(ErrStart, err)
	case <-s.done:
		return nil
	}

	stopCtx := context.WithoutCancel(ctx)
	if s.opts.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		stopCtx, cancel = context.WithTimeout(stopCtx, s.opts.shutdownTimeout)
		defer cancel()
	}
	return errors.Join(runErr, s.Stop(stopCtx))
}

// Stop moves to Draining, stops accepting, waits for every queued and running
// request, then closes the listener and moves to Stopped.
//
// If ctx ends first Stop returns ErrShutdown and draining continues in the
// background. Stop before Start moves straight to Stopped. Calling Stop while
// Draining or Stopped is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return nil
	}
	s.stopping = true
	s.mu.Unlock()

	if err := s.lc.Fire(ctx, EventAbort); err == nil {
		_ = s.pool.Stop(ctx)
		s.finish()
		return nil
	}
	if err := s.lc.Fire(ctx, EventDrain); err != nil {
		// Start failed, nothing to drain.
		return nil
	}

	// Start publishes ln before firing EventBind.
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	s.interruptAccept(ln)
	<-s.acceptDone

	go s.drain(context.WithoutCancel(ctx), ln)

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "drain deadline reached, requests still in flight",
			slog.Int("busy", s.pool.Stats().Busy),
			slog.Int("queued", s.pool.Stats().Queued))
		return errors.Join(ErrShutdown, ctx.Err())
	}
}

// drain waits for the pool and pending rejections, closes the listener and
// marks the server Stopped.
func (s *Server) drain(ctx context.Context, ln net.Listener) {
	_ = s.pool.Stop(ctx)
	s.rejects.Wait()
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.WarnContext(ctx, "failed to close listener", logger.Error(err))
	}
	if err := s.lc.Fire(ctx, EventDrained); err != nil {
		s.logger.ErrorContext(ctx, "lifecycle", logger.Error(err))
	}
	s.finish()
}

func (s *Server) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Done is closed once the server reaches Stopped.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return s.lc.Current()
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Ready returns nil only while the server is Listening.
func (s *Server) Ready(context.Context) error {
	if st := s.State(); st != StateListening {
		return errors.Join(ErrNotListening, errors.New("state: "+st.String()))
	}
	return nil
}

// Stats returns a snapshot of the server and its pool.
func (s *Server) Stats() Stats {
	return Stats{
		State:    s.State(),
		Addr:     s.Addr(),
		Accepted: s.accepted.Load(),
		Pool:     s.pool.Stats(),
	}
}

func (s *Server) logTransition(ctx context.Context, from, to State, event Event) error {
	s.logger.InfoContext(ctx, "server state changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		logger.Event(string(event)))
	return nil
}
