package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HorseArcher567/octolog/pkg/api"
	"github.com/HorseArcher567/octolog/pkg/etcd"
	"github.com/HorseArcher567/octolog/pkg/job"
	"github.com/HorseArcher567/octolog/pkg/receiver"
	"github.com/HorseArcher567/octolog/pkg/rpc"
	"github.com/HorseArcher567/octolog/pkg/watch"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// BeforeRunHook runs after the first successful load and before the servers
// start. An error aborts Run.
type BeforeRunHook func(ctx context.Context, a *App) error

// ShutdownHook runs during shutdown. Errors are logged and do not stop later hooks.
type ShutdownHook func(ctx context.Context, a *App) error

// ShutdownTimeout bounds the graceful stop of the servers and the hooks.
const ShutdownTimeout = 10 * time.Second

// OnBeforeRun registers a hook to be executed before Run.
func (a *App) OnBeforeRun(h BeforeRunHook) *App {
	if h != nil {
		a.beforeRunHooks = append(a.beforeRunHooks, h)
	}
	return a
}

// OnShutdown registers a hook to be executed during shutdown.
func (a *App) OnShutdown(h ShutdownHook) *App {
	if h != nil {
		a.shutdownHooks = append(a.shutdownHooks, h)
	}
	return a
}

// Run loads the document and blocks until ctx is done, SIGINT/SIGTERM is
// received, or a background job fails.
//
// Execution order:
// 1) Start the health server (NOT_SERVING) and load the document;
// 2) Run OnBeforeRun hooks;
// 3) Start the admin API, then run the watcher, etcd watch and receiver as jobs;
// 4) On exit stop the servers, run OnShutdown hooks and close the configuration.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = xlog.WithContext(ctx, a.log)
	defer a.shutdown()

	if a.cfg.Health != nil {
		hs, err := rpc.NewServer(ctx, a.cfg.Health,
			rpc.WithLogger(a.log),
			rpc.WithGRPCOptions(rpc.KeepaliveEnforcement(rpc.DefaultKeepaliveMinTime)),
		)
		if err != nil {
			return err
		}
		if err := hs.Start(); err != nil {
			return err
		}
		a.health = hs
	}

	if err := a.Reload(ctx); err != nil {
		return fmt.Errorf("app: initial load: %w", err)
	}

	for _, h := range a.beforeRunHooks {
		if err := h(ctx, a); err != nil {
			return fmt.Errorf("app: before run: %w", err)
		}
	}

	if a.cfg.Admin != nil {
		admin := api.NewServer(ctx, a.cfg.Admin, api.WithLogger(a.log))
		api.Register(admin.Engine(), api.NewAdmin(a))
		if err := admin.Start(); err != nil {
			return err
		}
		a.admin.Store(admin)
	}

	sched, err := a.jobs(ctx)
	if err != nil {
		return err
	}
	return sched.Run(ctx)
}

func (a *App) jobs(ctx context.Context) (*job.Scheduler, error) {
	sched := job.NewScheduler(a.log)

	if a.cfg.Watch {
		w, err := watch.New(a.cfg.Document, func() { a.reloadAsync(ctx, "document changed") },
			watch.WithDebounce(a.cfg.Debounce), watch.WithLogger(a.log.Logger))
		if err != nil {
			return nil, err
		}
		_ = sched.AddJob(&job.Job{Name: "watch", Func: func(ctx context.Context, _ *xlog.Logger) error {
			return w.Run(ctx)
		}})
	}

	if a.etcdClient != nil {
		_ = sched.AddJob(&job.Job{Name: "etcd-watch", Func: func(ctx context.Context, _ *xlog.Logger) error {
			etcd.WatchPrefix(ctx, a.etcdClient, a.cfg.Etcd.Prefix, func() { a.reloadAsync(ctx, "etcd properties changed") })
			return nil
		}})
	}

	if a.cfg.Receiver.Enabled() {
		rs, err := receiver.NewServer(ctx, a.cfg.Receiver, receiver.DispatcherFunc(a.Dispatch))
		if err != nil {
			return nil, err
		}
		if err := rs.Listen(ctx); err != nil {
			return nil, err
		}
		a.receiverAddr.Store(rs.Addr().String())
		_ = sched.AddJob(&job.Job{Name: "receiver", Func: func(ctx context.Context, _ *xlog.Logger) error {
			return rs.Serve(ctx)
		}})
	}

	// 没有后台任务时阻塞到退出信号
	if len(sched.Jobs()) == 0 {
		_ = sched.AddJob(&job.Job{Name: "wait", Func: func(ctx context.Context, _ *xlog.Logger) error {
			<-ctx.Done()
			return nil
		}})
	}
	return sched, nil
}

// reloadAsync 来自后台事件的重载；失败只记录日志
func (a *App) reloadAsync(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	a.log.Info("reloading", "reason", reason)
	_ = a.Reload(ctx)
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if admin := a.admin.Load(); admin != nil {
		if err := admin.Shutdown(ctx); err != nil {
			a.log.Error("error stopping api server", "error", err)
		}
	}
	if a.health != nil {
		if err := a.health.Stop(ctx); err != nil {
			a.log.Error("error stopping rpc server", "error", err)
		}
	}

	for _, h := range a.shutdownHooks {
		if err := h(ctx, a); err != nil {
			a.log.Error("shutdown hook failed", "error", err)
		}
	}

	a.log.Info("application shutdown complete")
	if err := a.Close(); err != nil {
		// logger 可能已关闭
		fmt.Fprintln(os.Stderr, "octolog: close:", err)
	}
}

// AdminAddr returns the bound admin API address once Run has started it.
func (a *App) AdminAddr() string {
	admin := a.admin.Load()
	if admin == nil || admin.Addr() == nil {
		return ""
	}
	return admin.Addr().String()
}

// ReceiverAddr returns the bound receiver address once Run has started it.
func (a *App) ReceiverAddr() string {
	if v, ok := a.receiverAddr.Load().(string); ok {
		return v
	}
	return ""
}
