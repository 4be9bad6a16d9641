package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HorseArcher567/octolog/pkg/configurator"
	"github.com/HorseArcher567/octolog/pkg/hierarchy"
	"github.com/HorseArcher567/octolog/pkg/status"
	"github.com/gin-gonic/gin"
)

// Backend 提供当前生效的配置与重载能力
type Backend interface {
	// Current returns the live configuration, nil before the first load.
	Current() *configurator.Configuration
	// Reload reinterprets the document and swaps it in on success.
	Reload(ctx context.Context) error
	// LastError returns the error of the most recent load, if any.
	LastError() error
}

// Admin 管理接口：查看 logger、appender、诊断信息，触发重载
type Admin struct {
	backend Backend
}

var _ RouterRegistrar = (*Admin)(nil)

// NewAdmin creates the admin routes over b.
func NewAdmin(b Backend) *Admin {
	return &Admin{backend: b}
}

// LoggerView is the JSON form of one hierarchy node.
type LoggerView struct {
	Name      string   `json:"name"`
	Level     string   `json:"level,omitempty"`
	Effective string   `json:"effectiveLevel"`
	Additive  bool     `json:"additive"`
	Appenders []string `json:"appenders"`
}

// AppenderView is the JSON form of one appender.
type AppenderView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (a *Admin) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/loggers", a.loggers)
	engine.GET("/appenders", a.appenders)
	engine.GET("/status", a.status)
	engine.POST("/reload", a.reload)
}

func (a *Admin) current(c *gin.Context) (*configurator.Configuration, bool) {
	cfg := a.backend.Current()
	if cfg == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"code":    http.StatusServiceUnavailable,
			"message": "no configuration loaded",
		})
		return nil, false
	}
	return cfg, true
}

func (a *Admin) loggers(c *gin.Context) {
	cfg, ok := a.current(c)
	if !ok {
		return
	}
	h := cfg.Hierarchy()

	out := []LoggerView{nodeView(h, h.Root())}
	for _, name := range h.Loggers() {
		out = append(out, nodeView(h, h.Logger(name)))
	}
	c.JSON(http.StatusOK, out)
}

func nodeView(h *hierarchy.Hierarchy, n *hierarchy.Node) LoggerView {
	v := LoggerView{
		Name:      n.Name(),
		Additive:  n.Additive(),
		Appenders: []string{},
	}
	if l, ok := n.Level(); ok {
		v.Level = l.String()
	}
	if n.IsRoot() {
		v.Effective = v.Level
	} else {
		v.Effective = h.EffectiveLevel(n.Name()).String()
	}
	for _, ap := range n.Appenders() {
		v.Appenders = append(v.Appenders, ap.Name())
	}
	return v
}

func (a *Admin) appenders(c *gin.Context) {
	cfg, ok := a.current(c)
	if !ok {
		return
	}
	out := make([]AppenderView, 0, len(cfg.AppenderNames()))
	for _, ap := range cfg.Appenders() {
		out = append(out, AppenderView{Name: ap.Name(), Type: fmt.Sprintf("%T", ap)})
	}
	c.JSON(http.StatusOK, out)
}

func (a *Admin) status(c *gin.Context) {
	resp := gin.H{"loaded": false}
	if err := a.backend.LastError(); err != nil {
		resp["lastError"] = err.Error()
	}
	if cfg := a.backend.Current(); cfg != nil {
		entries := cfg.Status().Entries()
		if entries == nil {
			entries = []status.Entry{}
		}
		resp["loaded"] = true
		resp["debug"] = cfg.Debug()
		resp["errors"] = len(cfg.Status().Errors())
		resp["warnings"] = len(cfg.Status().Warnings())
		resp["entries"] = entries
	}
	c.JSON(http.StatusOK, resp)
}

func (a *Admin) reload(c *gin.Context) {
	if err := a.backend.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    http.StatusUnprocessableEntity,
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "reloaded"})
}
