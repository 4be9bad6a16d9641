// Package etcd connects to etcd and exposes a key prefix as a property source
// for ${name} substitution.
package etcd

import (
	clientv3 "go.etcd.io/etcd/client/v3"
)

// NewClient 使用配置创建 etcd client
func NewClient(cfg *Config) (*clientv3.Client, error) {
	clientV3Config, err := cfg.ClientV3Config()
	if err != nil {
		return nil, err
	}
	return clientv3.New(*clientV3Config)
}

// MustNewClient 使用配置创建 etcd client，失败时 panic
func MustNewClient(cfg *Config) *clientv3.Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic("etcd: failed to create client: " + err.Error())
	}
	return client
}

// NewLookupFromClient builds a Lookup from cfg's Prefix and RequestTimeout.
func NewLookupFromClient(cli *clientv3.Client, cfg *Config) *Lookup {
	return NewLookup(cli.KV, cfg.Prefix, cfg.RequestTimeout)
}
