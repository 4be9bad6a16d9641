// Package job runs the long-lived background tasks of an application (the
// document watcher, the receiver loop, servers) under one cancellation scope.
package job

import (
	"context"
	"errors"

	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// Func 任务函数，应在 ctx 结束后尽快返回
type Func func(ctx context.Context, log *xlog.Logger) error

type Job struct {
	// Job name
	Name string `yaml:"name" json:"name" toml:"name"`
	// Job function
	Func Func `yaml:"-" json:"-" toml:"-"`
}

func (j *Job) Validate() error {
	if j.Name == "" {
		return errors.New("job name is required")
	}

	if j.Func == nil {
		return errors.New("job function is required")
	}

	return nil
}

func (j *Job) Run(ctx context.Context, log *xlog.Logger) error {
	log.Info("running job", "name", j.Name)
	return j.Func(ctx, &xlog.Logger{Logger: log.With("job", j.Name)})
}
