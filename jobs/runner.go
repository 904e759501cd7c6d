package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/sirupsen/logrus"
)

var (
	ErrJobRunning = errors.New("job is already running")
	ErrUnknownJob = errors.New("unknown job")
)

type Job struct {
	Name string
	// Spec is a cron expression with a leading seconds field.
	Spec string
	Run  func(ctx context.Context) error
}

func Find(jobs []Job, name string) (Job, error) {
	for _, job := range jobs {
		if job.Name == name {
			return job, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

// Runner executes jobs, a job is never run twice at the same time.
type Runner struct {
	lock    sync.Mutex
	running map[string]bool
}

func NewRunner() *Runner {
	return &Runner{running: map[string]bool{}}
}

func (r *Runner) acquire(name string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.running[name] {
		return false
	}
	r.running[name] = true
	return true
}

func (r *Runner) release(name string) {
	r.lock.Lock()
	delete(r.running, name)
	r.lock.Unlock()
}

// Execute runs job once. Failures are logged and returned, nothing is retried.
func (r *Runner) Execute(ctx context.Context, job Job) error {
	logger := logrus.WithField("job", job.Name)
	if !r.acquire(job.Name) {
		logger.Warn("previous run has not finished, skipped")
		return ErrJobRunning
	}
	defer r.release(job.Name)

	span, ctx := opentracing.StartSpanFromContext(ctx, "job "+job.Name)
	defer span.Finish()

	logger.Info("job started")
	begin := time.Now()
	err := safeRun(ctx, job)
	logger = logger.WithField("duration", time.Since(begin).String())
	if err != nil {
		ext.Error.Set(span, true)
		logger.WithError(err).Error("job failed")
		return err
	}
	logger.Info("job finished")
	return nil
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("panic on job %s: %v", job.Name, ret)
			}
		}
	}()
	return job.Run(ctx)
}
