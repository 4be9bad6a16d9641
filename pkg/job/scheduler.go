package job

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/HorseArcher567/octolog/pkg/xlog"
)

type Scheduler struct {
	log  *xlog.Logger
	jobs []*Job
}

func NewScheduler(log *xlog.Logger) *Scheduler {
	if log == nil {
		log = xlog.Discard()
	}
	return &Scheduler{
		log:  log,
		jobs: make([]*Job, 0),
	}
}

// AddJob 在 Run 之前注册任务
func (s *Scheduler) AddJob(job *Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		names = append(names, j.Name)
	}
	return names
}

// Run 运行全部任务并阻塞。任一任务返回错误时取消其余任务，
// 返回第一个非取消错误；ctx 结束导致的正常退出返回 nil。
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("starting job scheduler", "jobCount", len(s.jobs))

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		g.Go(func() error {
			err := job.Run(gctx, s.log)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("job run failed", "name", job.Name, "error", err)
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			s.log.Info("job finished", "name", job.Name)
			return nil
		})
	}

	err := g.Wait()
	s.log.Info("all jobs finished, scheduler stopped")
	return err
}
