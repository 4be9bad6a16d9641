package etcd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/HorseArcher567/octolog/pkg/subst"
)

const defaultRequestTimeout = 3 * time.Second

// Lookup resolves ${name} against the key Prefix+name. Each call is one
// round trip; use Snapshot when a whole document is interpreted at once.
type Lookup struct {
	kv      clientv3.KV
	prefix  string
	timeout time.Duration
	log     *slog.Logger
}

var _ subst.Lookup = (*Lookup)(nil)

// NewLookup creates a Lookup over kv. A zero timeout means 3s.
func NewLookup(kv clientv3.KV, prefix string, timeout time.Duration) *Lookup {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Lookup{
		kv:      kv,
		prefix:  prefix,
		timeout: timeout,
		log:     slog.Default().With("component", "etcd.lookup", "prefix", prefix),
	}
}

// Lookup implements subst.Lookup. Request errors count as unresolved.
func (l *Lookup) Lookup(name string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	resp, err := l.kv.Get(ctx, l.prefix+name)
	if err != nil {
		l.log.Warn("etcd lookup failed", "key", l.prefix+name, "error", err)
		return "", false
	}
	if len(resp.Kvs) == 0 {
		return "", false
	}
	return string(resp.Kvs[0].Value), true
}

// Snapshot reads every key under the prefix in one request. The returned
// map is keyed by the name with the prefix stripped.
func (l *Lookup) Snapshot(ctx context.Context) (subst.Map, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.kv.Get(ctx, l.prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("etcd: snapshot %s: %w", l.prefix, err)
	}

	m := make(subst.Map, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		m[strings.TrimPrefix(string(kv.Key), l.prefix)] = string(kv.Value)
	}
	return m, nil
}

// WatchPrefix calls fn after every batch of changes under prefix until ctx
// is done.
func WatchPrefix(ctx context.Context, w clientv3.Watcher, prefix string, fn func()) {
	ch := w.Watch(ctx, prefix, clientv3.WithPrefix())
	for {
		select {
		case <-ctx.Done():
			return
		case resp, ok := <-ch:
			if !ok {
				return
			}
			if err := resp.Err(); err != nil {
				slog.Default().Warn("etcd watch error", "prefix", prefix, "error", err)
				continue
			}
			if len(resp.Events) > 0 {
				fn()
			}
		}
	}
}
