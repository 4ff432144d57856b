// Package server is the connection dispatcher: a TCP acceptor feeding a
// bounded worker pool, a per-connection request pipeline and a lifecycle
// controller with graceful drain.
//
// # Pipeline
//
// The accept loop only accepts and submits. Each connection carries exactly
// one request and is handled start to finish by one worker:
//
//	read head -> (501 unknown method) -> rate limit -> HEAD short-circuit
//	-> decode body -> route -> write -> close
//
// Handler errors and panics become 500 responses with the error message as a
// plain-text body. Malformed request lines get 400, oversized bodies 413. When
// the queue is full the acceptor answers 503 itself without touching the pool.
//
// # Lifecycle
//
//	Initializing --bind--> Listening --drain--> Draining --drained--> Stopped
//	Initializing --abort--> Stopped
//
// Stop leaves the listener bound while draining so queued and running requests
// finish, but accepts nothing new; the socket is closed once the pool is empty
// and every pending 503 has been written.
// A second Stop is a no-op.
//
// # Usage
//
//	srv, err := server.NewFromConfig(cfg, router.Default(), server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	if err := srv.Run(ctx); err != nil {
//		return err
//	}
package server
