// Package app hosts a live logging configuration: it interprets the document,
// swaps in each successful reload, and runs the optional watcher, receiver,
// admin API and health endpoint around it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/HorseArcher567/octolog/pkg/api"
	"github.com/HorseArcher567/octolog/pkg/builtin"
	"github.com/HorseArcher567/octolog/pkg/config"
	"github.com/HorseArcher567/octolog/pkg/configurator"
	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/etcd"
	"github.com/HorseArcher567/octolog/pkg/registry"
	"github.com/HorseArcher567/octolog/pkg/rpc"
	"github.com/HorseArcher567/octolog/pkg/subst"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// App 管理当前生效的 Configuration
type App struct {
	cfg      *Config
	log      *xlog.Logger
	ownsLog  bool
	registry *registry.Registry
	handler  core.ElementHandler
	extra    []subst.Lookup

	props      *config.Config
	etcdClient *clientv3.Client
	etcdLookup *etcd.Lookup
	health     *rpc.Server
	admin      atomic.Pointer[api.Server]

	receiverAddr atomic.Value

	// mu 串行化 Reload；读路径只访问 current
	mu      sync.Mutex
	current atomic.Pointer[configurator.Configuration]
	lastErr atomic.Pointer[error]
	reloads atomic.Int64

	beforeRunHooks []BeforeRunHook
	shutdownHooks  []ShutdownHook
}

// New creates an App. Nothing is interpreted until Reload or Run.
func New(cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, ownsLog: true}
	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		log, err := xlog.New(&cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("app: logger: %w", err)
		}
		a.log = log
	}
	if a.registry == nil {
		a.registry = builtin.NewRegistry()
	}

	if len(cfg.PropertyFiles) > 0 {
		props, err := config.Load(cfg.PropertyFiles...)
		if err != nil {
			a.closeLog()
			return nil, fmt.Errorf("app: property files: %w", err)
		}
		a.props = props
	}

	if cfg.Etcd.Enabled() {
		cli, err := etcd.NewClient(cfg.Etcd)
		if err != nil {
			a.closeLog()
			return nil, fmt.Errorf("app: etcd: %w", err)
		}
		a.etcdClient = cli
		a.etcdLookup = etcd.NewLookupFromClient(cli, cfg.Etcd)
	}

	return a, nil
}

// Logger returns the process logger.
func (a *App) Logger() *xlog.Logger {
	return a.log
}

// Current returns the live configuration, nil before the first success.
func (a *App) Current() *configurator.Configuration {
	return a.current.Load()
}

// LastError returns the error of the most recent Reload.
func (a *App) LastError() error {
	if p := a.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Reloads reports how many reloads succeeded.
func (a *App) Reloads() int64 {
	return a.reloads.Load()
}

// Dispatch routes e through the live configuration.
func (a *App) Dispatch(e *core.Event) int {
	if c := a.current.Load(); c != nil {
		return c.Dispatch(e)
	}
	return 0
}

// Reload 重新解释文档。成功时替换当前配置并关闭旧配置；
// 失败时保留旧配置继续工作。
func (a *App) Reload(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := configurator.New(
		configurator.WithRegistry(a.registry),
		configurator.WithLookup(a.lookup(ctx)),
		configurator.WithElementHandler(a.handler),
		configurator.WithLogger(a.log.With("component", "configurator", "document", a.cfg.Document)),
	)

	next, err := c.ConfigureFile(ctx, a.cfg.Document)
	if err != nil {
		a.lastErr.Store(&err)
		a.setServing(false)
		a.log.Error("reload failed, keeping previous configuration", "document", a.cfg.Document, "error", err)
		return err
	}

	prev := a.current.Swap(next)
	a.lastErr.Store(nil)
	a.reloads.Add(1)
	a.setServing(true)

	st := next.Status()
	a.log.Info("configuration loaded",
		"document", a.cfg.Document,
		"appenders", len(next.AppenderNames()),
		"warnings", len(st.Warnings()),
		"errors", len(st.Errors()),
	)

	if prev != nil {
		if err := prev.Close(); err != nil {
			a.log.Warn("closing previous configuration", "error", err)
		}
	}
	return nil
}

// lookup 属性来源优先级：properties > propertyFiles > 自定义 > etcd > 环境变量
func (a *App) lookup(ctx context.Context) subst.Lookup {
	var chain subst.Chain
	if len(a.cfg.Properties) > 0 {
		chain = append(chain, subst.Map(a.cfg.Properties))
	}
	if a.props != nil {
		chain = append(chain, a.props)
	}
	chain = append(chain, a.extra...)
	if a.etcdLookup != nil {
		if snap, err := a.etcdLookup.Snapshot(ctx); err == nil {
			chain = append(chain, snap)
		} else {
			a.log.Warn("etcd snapshot failed, falling back to per-key lookups", "error", err)
			chain = append(chain, a.etcdLookup)
		}
	}
	return append(chain, subst.Env{})
}

func (a *App) setServing(ok bool) {
	if a.health != nil {
		a.health.SetServing(ok)
	}
}

// Close 关闭当前配置与外部连接
func (a *App) Close() error {
	var errs []error
	if c := a.current.Swap(nil); c != nil {
		errs = append(errs, c.Close())
	}
	if a.etcdClient != nil {
		errs = append(errs, a.etcdClient.Close())
	}
	a.closeLog()
	return errors.Join(errs...)
}

func (a *App) closeLog() {
	if a.ownsLog && a.log != nil {
		_ = a.log.Close()
	}
}
