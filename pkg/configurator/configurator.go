// Package configurator interprets a configuration document into a live
// object graph: appenders with their layouts, filters and error handlers,
// and a logger hierarchy that routes events to them.
//
// Interpretation tolerates bad input. A component that cannot be built is
// reported and left out; only a document whose root is not a configuration
// element, or a cancelled context, makes Configure fail.
package configurator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HorseArcher567/octolog/pkg/builtin"
	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/document"
	"github.com/HorseArcher567/octolog/pkg/hierarchy"
	"github.com/HorseArcher567/octolog/pkg/registry"
	"github.com/HorseArcher567/octolog/pkg/status"
	"github.com/HorseArcher567/octolog/pkg/subst"
)

// 文档标签
const (
	tagConfiguration       = "configuration"
	tagLegacyConfiguration = "log4j:configuration"
	tagAppender            = "appender"
	tagAppenderRef         = "appender-ref"
	tagParam               = "param"
	tagLayout              = "layout"
	tagFilter              = "filter"
	tagErrorHandler        = "error-handler"
	tagErrorHandlerAlt     = "errorHandler"
	tagLogger              = "logger"
	tagCategory            = "category"
	tagRoot                = "root"
	tagLevel               = "level"
	tagPriority            = "priority"
	tagRenderer            = "renderer"
	tagThrowableRenderer   = "throwableRenderer"
	tagThrowableRenderer2  = "throwable-renderer"
	tagCategoryFactory     = "categoryFactory"
	tagLoggerFactory       = "loggerFactory"
	tagLoggerFactory2      = "logger-factory"

	attrName       = "name"
	attrClass      = "class"
	attrValue      = "value"
	attrRef        = "ref"
	attrAdditivity = "additivity"
	attrDebug      = "debug"
	attrConfigDbg  = "configDebug"
)

// Option 配置 Configurator
type Option func(*Configurator)

// WithRegistry sets the type registry (default: builtin.NewRegistry()).
func WithRegistry(r *registry.Registry) Option {
	return func(c *Configurator) { c.registry = r }
}

// WithLookup sets the property source for ${...} substitution.
func WithLookup(l subst.Lookup) Option {
	return func(c *Configurator) { c.lookup = l }
}

// WithPrefix registers a ${prefix:name} lookup.
func WithPrefix(prefix string, l subst.Lookup) Option {
	return func(c *Configurator) { c.prefixes[prefix] = l }
}

// WithReporter shares one status reporter across runs. By default every
// run gets a fresh one.
func WithReporter(r *status.Reporter) Option {
	return func(c *Configurator) { c.reporter = r }
}

// WithHierarchy reconfigures an existing hierarchy instead of a new one.
func WithHierarchy(h *hierarchy.Hierarchy) Option {
	return func(c *Configurator) { c.hierarchy = h }
}

// WithElementHandler handles unrecognized top-level elements.
func WithElementHandler(h core.ElementHandler) Option {
	return func(c *Configurator) { c.handler = h }
}

// WithLogger sets the logger status entries are mirrored to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Configurator) { c.logger = l }
}

// Configurator 配置解释器，可重复使用；每次 Configure 的状态互相独立
type Configurator struct {
	registry  *registry.Registry
	lookup    subst.Lookup
	prefixes  map[string]subst.Lookup
	reporter  *status.Reporter
	hierarchy *hierarchy.Hierarchy
	handler   core.ElementHandler
	logger    *slog.Logger
}

// New creates a Configurator.
func New(opts ...Option) *Configurator {
	c := &Configurator{prefixes: make(map[string]subst.Lookup)}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = builtin.NewRegistry()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Registry returns the type registry in use.
func (c *Configurator) Registry() *registry.Registry {
	return c.registry
}

// ConfigureFile parses the file and configures from it.
func (c *Configurator) ConfigureFile(ctx context.Context, path string) (*Configuration, error) {
	root, err := document.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.Configure(ctx, root)
}

// Configure interprets doc. Component failures are recorded in the returned
// configuration's status; the error is non-nil only for ErrNotConfiguration
// or when ctx is done, and then no configuration is returned.
func (c *Configurator) Configure(ctx context.Context, doc *document.Element) (*Configuration, error) {
	r := c.newRun(ctx, doc)

	switch doc.Tag {
	case tagConfiguration:
	case tagLegacyConfiguration:
		r.status.Warn(fmt.Sprintf("The <%s> element has been deprecated.", tagLegacyConfiguration))
		r.status.Warn(fmt.Sprintf("Use the <%s> element instead.", tagConfiguration))
	default:
		r.status.Error(fmt.Sprintf("DOM element is - not a <%s> element.", tagConfiguration), "tag", doc.Tag)
		return nil, fmt.Errorf("%w: <%s>", ErrNotConfiguration, doc.Tag)
	}

	r.parseDebug(doc)

	for _, child := range doc.Children {
		if r.interrupted() {
			break
		}
		r.parseTopLevel(child)
	}

	if r.abort != nil {
		// 部分构建的配置必须丢弃
		r.closeAll()
		return nil, r.abort
	}

	r.status.Debug("configuration finished", "appenders", len(r.order), "loggers", len(r.hierarchy.Loggers()))
	return &Configuration{
		hierarchy: r.hierarchy,
		appenders: r.built(),
		order:     r.order,
		status:    r.status,
		debug:     r.status.Verbose(),
	}, nil
}

// parseDebug 处理 debug / configDebug 属性，只影响状态输出的详细程度
func (r *run) parseDebug(doc *document.Element) {
	debug := r.Attr(doc, attrDebug)
	r.status.Debug(fmt.Sprintf("debug attribute= %q.", debug))
	if debug != "" && debug != "null" {
		r.status.SetVerbose(toBoolean(debug, true))
	} else {
		r.status.Debug("Ignoring " + attrDebug + " attribute.")
	}

	confDebug := r.Attr(doc, attrConfigDbg)
	if confDebug != "" && confDebug != "null" {
		r.status.Warn(fmt.Sprintf("The %q attribute is deprecated.", attrConfigDbg))
		r.status.Warn(fmt.Sprintf("Use the %q attribute instead.", attrDebug))
		r.status.SetVerbose(toBoolean(confDebug, true))
	}
}

func (r *run) parseTopLevel(el *document.Element) {
	switch el.Tag {
	case tagLogger, tagCategory:
		r.parseCategory(el)
	case tagRoot:
		r.parseRoot(el)
	case tagAppender:
		r.parseTopLevelAppender(el)
	case tagRenderer:
		r.status.Warn("Renderers are not supported and will be ignored.", "element", el.Location())
	case tagThrowableRenderer, tagThrowableRenderer2:
		r.status.Warn("Throwable Renderers are not supported and will be ignored.", "element", el.Location())
	case tagCategoryFactory, tagLoggerFactory, tagLoggerFactory2:
		r.status.Warn("Logger factories are not supported and will be ignored.", "element", el.Location())
	default:
		r.quietParseUnrecognizedElement(r.handler, el)
	}
}
