package etcd

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// fakeKV 只实现 Get，支持前缀查询
type fakeKV struct {
	clientv3.KV
	data  map[string]string
	err   error
	calls atomic.Int32
}

func (f *fakeKV) Get(_ context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}

	op := clientv3.OpGet(key, opts...)
	prefix := op.RangeBytes() != nil

	resp := &clientv3.GetResponse{}
	for k, v := range f.data {
		if k == key || (prefix && strings.HasPrefix(k, key)) {
			resp.Kvs = append(resp.Kvs, &mvccpb.KeyValue{Key: []byte(k), Value: []byte(v)})
		}
	}
	resp.Count = int64(len(resp.Kvs))
	return resp, nil
}

func TestLookup(t *testing.T) {
	kv := &fakeKV{data: map[string]string{
		"/octolog/props/log.dir":   "/var/log",
		"/octolog/props/log.level": "WARN",
		"/other/key":               "x",
	}}
	l := NewLookup(kv, "/octolog/props/", 0)

	v, ok := l.Lookup("log.dir")
	assert.True(t, ok)
	assert.Equal(t, "/var/log", v)

	_, ok = l.Lookup("missing")
	assert.False(t, ok)

	m, err := l.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"log.dir": "/var/log", "log.level": "WARN"}, map[string]string(m))
}

func TestLookupErrors(t *testing.T) {
	kv := &fakeKV{err: errors.New("unavailable")}
	l := NewLookup(kv, "/p/", time.Second)

	_, ok := l.Lookup("a")
	assert.False(t, ok)

	_, err := l.Snapshot(context.Background())
	assert.Error(t, err)
}

type fakeWatcher struct {
	clientv3.Watcher
	ch chan clientv3.WatchResponse
}

func (f *fakeWatcher) Watch(context.Context, string, ...clientv3.OpOption) clientv3.WatchChan {
	return f.ch
}

func TestWatchPrefix(t *testing.T) {
	w := &fakeWatcher{ch: make(chan clientv3.WatchResponse, 3)}
	w.ch <- clientv3.WatchResponse{}
	w.ch <- clientv3.WatchResponse{Events: []*clientv3.Event{{Type: mvccpb.PUT}}}
	close(w.ch)

	var fired atomic.Int32
	WatchPrefix(context.Background(), w, "/p/", func() { fired.Add(1) })
	assert.Equal(t, int32(1), fired.Load())
}

func TestConfig(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.Enabled())
	assert.Error(t, cfg.Validate())

	cfg = &Config{Endpoints: []string{"127.0.0.1:2379"}, Username: "u", Password: "p"}
	assert.True(t, cfg.Enabled())

	c, err := cfg.ClientV3Config()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.DialTimeout)
	assert.Equal(t, "u", c.Username)
}
