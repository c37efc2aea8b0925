// Package taskqueue defers long-running work to a single background worker.
//
// Producers (the scheduler, the HTTP trigger) call Queue.Enqueue, which never
// blocks. One Worker drains the queue in FIFO order and runs each job to
// completion before starting the next, so two jobs never run concurrently.
//
//	queue := taskqueue.NewQueue()
//	worker := taskqueue.NewWorker(queue)
//	go worker.Run(ctx)
//
//	queue.Enqueue(taskqueue.NewJob("update-standards", run, func(c taskqueue.JobCompletion) {
//	    logging.Info("Trigger", "update-standards finished in %v", c.Duration)
//	}))
//
// A job whose action returns an error or panics is logged with its name and
// its OnComplete callback is skipped; the worker moves on to the next job.
// Cancelling the worker's context ends the wait for the next job gracefully
// and is passed to the running job for cooperative cancellation.
package taskqueue
