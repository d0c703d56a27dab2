package dispatcher

import (
	"sync"
	"time"
)

// idleWakeInterval bounds how long a worker sleeps on an empty queue, so its
// liveness heartbeat keeps firing between jobs.
var idleWakeInterval = 30 * time.Second

type JobType uint8

const (
	JobTypeBan JobType = iota
	JobTypeKick
)

func (t JobType) String() string {
	switch t {
	case JobTypeBan:
		return "ban"
	case JobTypeKick:
		return "kick"
	default:
		return "unknown"
	}
}

// Job is one punitive action awaiting execution. FallbackKick asks the worker
// to retry a failed ban as a kick, once.
type Job struct {
	Type         JobType
	GuildID      string
	UserID       string
	Reason       string
	FallbackKick bool
}

// JobQueue is a signalled FIFO with bans ahead of kicks. Enqueue never
// blocks; workers sleep on the signal channel between jobs.
type JobQueue struct {
	mu     sync.Mutex
	bans   []*Job
	kicks  []*Job
	signal chan struct{}
	closed bool
}

func NewJobQueue() *JobQueue {
	return &JobQueue{
		signal: make(chan struct{}, 1),
	}
}

func (q *JobQueue) Enqueue(job *Job) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if job.Type == JobTypeBan {
		q.bans = append(q.bans, job)
	} else {
		q.kicks = append(q.kicks, job)
	}
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Dequeue blocks until a job is available, the idle interval elapses, or the
// queue is closed. A nil job with true is an idle wakeup: the queue is still
// open, there is just nothing to do.
func (q *JobQueue) Dequeue() (*Job, bool) {
	q.mu.Lock()
	if job := q.pop(); job != nil {
		q.mu.Unlock()
		return job, true
	}
	if q.closed {
		q.mu.Unlock()
		return nil, false
	}
	q.mu.Unlock()

	idle := time.NewTimer(idleWakeInterval)
	defer idle.Stop()

	select {
	case _, ok := <-q.signal:
		if !ok {
			// Drain whatever was enqueued before close.
			q.mu.Lock()
			job := q.pop()
			q.mu.Unlock()
			if job != nil {
				return job, true
			}
			return nil, false
		}
		q.mu.Lock()
		job := q.pop()
		q.mu.Unlock()
		return job, true
	case <-idle.C:
		return nil, true
	}
}

// pop removes the next job, bans first. Callers hold q.mu.
func (q *JobQueue) pop() *Job {
	if len(q.bans) > 0 {
		job := q.bans[0]
		q.bans = q.bans[1:]
		return job
	}
	if len(q.kicks) > 0 {
		job := q.kicks[0]
		q.kicks = q.kicks[1:]
		return job
	}
	return nil
}

func (q *JobQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.bans) + len(q.kicks)
}

// Close stops workers after the queue drains.
func (q *JobQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.signal)
	}
	q.mu.Unlock()
}
