package dispatcher

import (
	"sync/atomic"
	"time"

	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

// Executor abstracts the REST calls so worker tests can use a fake.
type Executor interface {
	ExecuteBan(guildID, userID, reason string) error
	ExecuteKick(guildID, userID, reason string) error
}

// Outcome is reported after every executed job, successful or not.
type Outcome struct {
	Job      *Job
	Err      error
	Duration time.Duration
}

// RESTWorker drains the job queue and executes punitive actions. A failed ban
// with FallbackKick set is retried once as a kick; everything else is
// best-effort and never retried.
type RESTWorker struct {
	jobQueue  *JobQueue
	executor  Executor
	onOutcome func(Outcome)
	workerID  int
	heartbeat func()
	stopped   atomic.Bool
}

func NewRESTWorker(jobQueue *JobQueue, executor Executor, workerID int, onOutcome func(Outcome)) *RESTWorker {
	return &RESTWorker{
		jobQueue:  jobQueue,
		executor:  executor,
		onOutcome: onOutcome,
		workerID:  workerID,
	}
}

// SetHeartbeat installs a watchdog callback invoked once per drained job and
// once per idle wakeup.
func (rw *RESTWorker) SetHeartbeat(fn func()) {
	rw.heartbeat = fn
}

func (rw *RESTWorker) Start() {
	for !rw.stopped.Load() {
		job, ok := rw.jobQueue.Dequeue()
		if !ok {
			return
		}
		if rw.heartbeat != nil {
			rw.heartbeat()
		}
		if job == nil {
			continue
		}
		rw.executeJob(job)
	}
}

func (rw *RESTWorker) Stop() {
	rw.stopped.Store(true)
}

func (rw *RESTWorker) executeJob(job *Job) {
	start := time.Now()

	var err error
	switch job.Type {
	case JobTypeBan:
		err = rw.executor.ExecuteBan(job.GuildID, job.UserID, job.Reason)
		if err != nil && job.FallbackKick {
			logging.Warn("[DISPATCHER] Ban failed for %s in guild %s (%v), falling back to kick",
				job.UserID, job.GuildID, err)
			rw.jobQueue.Enqueue(&Job{
				Type:    JobTypeKick,
				GuildID: job.GuildID,
				UserID:  job.UserID,
				Reason:  job.Reason,
			})
		}
	case JobTypeKick:
		err = rw.executor.ExecuteKick(job.GuildID, job.UserID, job.Reason)
	}

	if err != nil {
		logging.Warn("[DISPATCHER] Worker %d: %s of %s in guild %s failed: %v",
			rw.workerID, job.Type, job.UserID, job.GuildID, err)
	} else {
		logging.Info("[DISPATCHER] Worker %d: %s of %s in guild %s (%s)",
			rw.workerID, job.Type, job.UserID, job.GuildID, job.Reason)
	}

	if rw.onOutcome != nil {
		rw.onOutcome(Outcome{Job: job, Err: err, Duration: time.Since(start)})
	}
}
