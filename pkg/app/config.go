package app

import (
	"errors"
	"time"

	"github.com/HorseArcher567/octolog/pkg/api"
	"github.com/HorseArcher567/octolog/pkg/etcd"
	"github.com/HorseArcher567/octolog/pkg/receiver"
	"github.com/HorseArcher567/octolog/pkg/rpc"
	"github.com/HorseArcher567/octolog/pkg/xlog"
)

// Config 框架配置。可以嵌入到使用方自己的配置结构中，外部加载后传给 New。
//
// Example:
//
//	log:
//	  level: info
//	document: /etc/octolog/log4j.xml
//	watch: true
//	debounce: 500ms
//	properties:
//	  log.dir: /var/log/app
//	propertyFiles: [/etc/octolog/props.yaml]
//	etcd:
//	  endpoints: [127.0.0.1:2379]
//	  prefix: /octolog/props/
//	receiver:
//	  addr: 127.0.0.1:4560
//	  codec: json
//	admin:
//	  host: 127.0.0.1
//	  port: 8080
//	health:
//	  name: octolog
//	  port: 9090
type Config struct {
	// Log configures octolog's own process logger.
	Log xlog.Config `yaml:"log" json:"log" toml:"log"`

	// Document is the logging configuration document (xml, yaml, json or toml).
	Document string `yaml:"document" json:"document" toml:"document"`

	// Watch reloads the document when the file changes.
	Watch bool `yaml:"watch" json:"watch" toml:"watch"`

	// Debounce coalesces bursts of file events (default 200ms).
	Debounce time.Duration `yaml:"debounce" json:"debounce" toml:"debounce"`

	// Properties are consulted first when substituting ${name}.
	Properties map[string]string `yaml:"properties" json:"properties" toml:"properties"`

	// PropertyFiles are merged in order; nested keys are addressed as a.b.c.
	PropertyFiles []string `yaml:"propertyFiles" json:"propertyFiles" toml:"propertyFiles"`

	// Etcd adds a key prefix as a property source and reloads on changes.
	Etcd *etcd.Config `yaml:"etcd" json:"etcd" toml:"etcd"`

	// Receiver accepts remote events and routes them through the live hierarchy.
	Receiver *receiver.Config `yaml:"receiver" json:"receiver" toml:"receiver"`

	// Admin serves the HTTP admin API.
	Admin *api.ServerConfig `yaml:"admin" json:"admin" toml:"admin"`

	// Health serves the gRPC health protocol.
	Health *rpc.ServerConfig `yaml:"health" json:"health" toml:"health"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("app: config is nil")
	}
	if c.Document == "" {
		return errors.New("app: document is required")
	}
	if c.Etcd.Enabled() {
		if err := c.Etcd.Validate(); err != nil {
			return err
		}
	}
	if c.Health != nil {
		if err := c.Health.Validate(); err != nil {
			return err
		}
	}
	return nil
}
