// Package workerpool runs tasks on a fixed number of goroutines fed by a
// bounded queue.
//
// Submit never blocks: a task is either queued or rejected with ErrQueueFull
// once the queue holds QueueSize pending tasks, and with ErrPoolClosed after
// Stop has been called. Every task runs to completion; a panicking task is
// recovered, logged and counted without taking its worker down.
//
// Each worker has a stable name ("worker-1" ... "worker-N") that is placed in
// the context passed to the task. WorkerName reads it back and
// LoggerExtractor adds it to log records.
//
// Stop closes the queue, lets the workers drain every task that was accepted
// and waits for them to exit, or for the context to expire.
//
// # Usage
//
//	pool, err := workerpool.New(workerpool.WithWorkers(20), workerpool.WithQueueSize(256))
//	if err != nil {
//		return err
//	}
//	if err := pool.Start(ctx); err != nil {
//		return err
//	}
//	defer pool.Stop(context.Background())
//
//	if err := pool.Submit(func(ctx context.Context) { handle(ctx, conn) }); err != nil {
//		// queue full or pool stopped
//	}
package workerpool
