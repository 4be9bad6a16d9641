// Package hierarchy keeps the tree of named logger nodes. Names are dotted
// paths ("com.foo.Bar"); a node's parent is the nearest existing ancestor
// path, or the root.
package hierarchy

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/HorseArcher567/octolog/pkg/core"
	"github.com/HorseArcher567/octolog/pkg/level"
)

// RootName 根节点名称
const RootName = "root"

// ErrRootLevelInherit 根节点的级别不能为空（继承）
var ErrRootLevelInherit = errors.New("hierarchy: root level cannot inherit")

// Node 层级中的一个 logger 节点
type Node struct {
	// IncludeLocation 是否在事件中携带调用位置，作为 param 绑定
	IncludeLocation bool

	mu        sync.RWMutex
	name      string
	root      bool
	level     *level.Level // nil 表示继承
	additive  bool
	appenders []core.Appender
}

func newNode(name string, root bool) *Node {
	return &Node{name: name, root: root, additive: true}
}

// Name returns the logger name; the root reports RootName.
func (n *Node) Name() string {
	return n.name
}

// IsRoot reports whether n is the hierarchy root.
func (n *Node) IsRoot() bool {
	return n.root
}

// Level returns the node's own level and whether it is set.
func (n *Node) Level() (level.Level, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.level == nil {
		return 0, false
	}
	return *n.level, true
}

// SetLevel sets the node's own level.
func (n *Node) SetLevel(l level.Level) {
	n.mu.Lock()
	n.level = &l
	n.mu.Unlock()
}

// ClearLevel makes the node inherit its level. The root refuses.
func (n *Node) ClearLevel() error {
	if n.root {
		return ErrRootLevelInherit
	}
	n.mu.Lock()
	n.level = nil
	n.mu.Unlock()
	return nil
}

// Additive reports whether events also reach ancestor appenders.
func (n *Node) Additive() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.additive
}

// SetAdditive 根节点的 additivity 固定为 true
func (n *Node) SetAdditive(v bool) {
	if n.root {
		return
	}
	n.mu.Lock()
	n.additive = v
	n.mu.Unlock()
}

// AddAppender appends an appender reference.
func (n *Node) AddAppender(a core.Appender) {
	n.mu.Lock()
	n.appenders = append(n.appenders, a)
	n.mu.Unlock()
}

// RemoveAllAppenders clears the appender references.
func (n *Node) RemoveAllAppenders() {
	n.mu.Lock()
	n.appenders = nil
	n.mu.Unlock()
}

// Appenders returns the appender references in order.
func (n *Node) Appenders() []core.Appender {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]core.Appender(nil), n.appenders...)
}

// Hierarchy 日志层级，始终包含根节点
type Hierarchy struct {
	mu    sync.RWMutex
	root  *Node
	nodes map[string]*Node
}

// New creates a hierarchy whose root level is DEBUG.
func New() *Hierarchy {
	root := newNode(RootName, true)
	root.SetLevel(level.Debug)
	return &Hierarchy{root: root, nodes: make(map[string]*Node)}
}

// Root returns the root node.
func (h *Hierarchy) Root() *Node {
	return h.root
}

// Logger returns the node for name, creating it with an inherited level.
// "" and RootName return the root.
func (h *Hierarchy) Logger(name string) *Node {
	if name == "" || name == RootName {
		return h.root
	}

	h.mu.RLock()
	n, ok := h.nodes[name]
	h.mu.RUnlock()
	if ok {
		return n
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.nodes[name]; ok {
		return n
	}
	n = newNode(name, false)
	h.nodes[name] = n
	return n
}

// Exists reports whether a non-root node was created for name.
func (h *Hierarchy) Exists(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.nodes[name]
	return ok
}

// Parent returns the nearest existing ancestor of name, or the root.
func (h *Hierarchy) Parent(name string) *Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.parentLocked(name)
}

func (h *Hierarchy) parentLocked(name string) *Node {
	for {
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return h.root
		}
		name = name[:i]
		if n, ok := h.nodes[name]; ok {
			return n
		}
	}
}

// chain 返回从 name 对应节点（若存在）到根的路径
func (h *Hierarchy) chain(name string) []*Node {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Node
	if n, ok := h.nodes[name]; ok && name != "" && name != RootName {
		out = append(out, n)
	}
	if name == "" || name == RootName {
		return []*Node{h.root}
	}
	for n := h.parentLocked(name); ; n = h.parentLocked(n.name) {
		out = append(out, n)
		if n.root {
			return out
		}
	}
}

// EffectiveLevel walks towards the root until a node with a level is found.
func (h *Hierarchy) EffectiveLevel(name string) level.Level {
	for _, n := range h.chain(name) {
		if l, ok := n.Level(); ok {
			return l
		}
	}
	// 根节点级别不可能为空
	l, _ := h.root.Level()
	return l
}

// Dispatch routes e to the appenders of its logger and its ancestors,
// stopping after the first non-additive node. It returns how many appenders
// received the event.
func (h *Hierarchy) Dispatch(e *core.Event) int {
	if e.Level < h.EffectiveLevel(e.Logger) {
		return 0
	}

	count := 0
	for _, n := range h.chain(e.Logger) {
		for _, a := range n.Appenders() {
			a.Append(e)
			count++
		}
		if !n.Additive() {
			break
		}
	}
	return count
}

// Loggers returns the names of every non-root node, sorted.
func (h *Hierarchy) Loggers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.nodes))
	for name := range h.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
