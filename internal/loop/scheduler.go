package loop

// Scheduler hands frame callbacks to the host loop. RequestFrame must not run
// fn synchronously; the host calls it on a later turn, once.
type Scheduler interface {
	RequestFrame(fn func())
}

// QueueScheduler is a cooperative Scheduler: callbacks wait in a queue until
// the host calls Flush, typically once per host tick.
type QueueScheduler struct {
	queue []func()
}

// RequestFrame queues fn.
func (q *QueueScheduler) RequestFrame(fn func()) {
	q.queue = append(q.queue, fn)
}

// Pending returns the number of queued callbacks.
func (q *QueueScheduler) Pending() int { return len(q.queue) }

// Flush runs the callbacks queued before the call and returns how many ran.
// Callbacks requested while flushing wait for the next Flush.
func (q *QueueScheduler) Flush() int {
	batch := q.queue
	q.queue = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}
