package jobs

import (
	"context"
	"fmt"
	"printdesk/common"

	cron "github.com/robfig/cron/v3"
)

type Scheduler struct {
	crontab *cron.Cron
}

// NewScheduler registers jobs on a crontab running in the business time zone.
func NewScheduler(runner *Runner, jobs []Job) (*Scheduler, error) {
	crontab := cron.New(cron.WithSeconds(), cron.WithLocation(common.Location))
	for _, job := range jobs {
		job := job
		if _, err := crontab.AddFunc(job.Spec, func() {
			_ = runner.Execute(context.Background(), job)
		}); err != nil {
			return nil, fmt.Errorf("invalid schedule of job %s: %w", job.Name, err)
		}
	}
	return &Scheduler{crontab: crontab}, nil
}

func (s *Scheduler) Start() {
	s.crontab.Start()
}

// Stop prevents new runs, the returned context is done when running jobs have completed.
func (s *Scheduler) Stop() context.Context {
	return s.crontab.Stop()
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.crontab.Entries()
}
