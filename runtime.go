package inline

import (
	"strconv"
	"sync/atomic"
	"time"
)

type hookKind uint8

const (
	hookState hookKind = iota
	hookInput
	hookMessage
	hookTick
	hookEffect
)

func (k hookKind) String() string {
	switch k {
	case hookState:
		return "state"
	case hookInput:
		return "input"
	case hookMessage:
		return "message"
	case hookTick:
		return "tick"
	case hookEffect:
		return "effect"
	}
	return "unknown"
}

type hook struct {
	kind  hookKind
	value any
}

// slot holds one component instance's hooks, in call order.
type slot struct {
	key     string
	hooks   []hook
	mounted bool // rendered at least once; hook count is fixed from here on
}

// Runtime owns component state across frames. It is driven from a single
// goroutine (the render loop); only MarkDirty, RequestExit and signal writes
// are safe from elsewhere.
type Runtime struct {
	slots map[string]*slot
	order []*slot // creation order, for handler dispatch

	dirty atomic.Bool
	exit  atomic.Bool
	wake  chan struct{}

	effects []*effect
	renders int
}

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		slots: make(map[string]*slot),
		wake:  make(chan struct{}, 1),
	}
}

// MarkDirty schedules a render and wakes the loop. Safe from any goroutine.
func (r *Runtime) MarkDirty() {
	r.dirty.Store(true)
	r.Wakeup()
}

// Wakeup nudges the loop without scheduling a render.
func (r *Runtime) Wakeup() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Wake is signalled whenever state changes outside the loop's own events.
func (r *Runtime) Wake() <-chan struct{} { return r.wake }

// Dirty reports whether a render is pending.
func (r *Runtime) Dirty() bool { return r.dirty.Load() }

// RequestExit asks the loop to stop after the current event.
func (r *Runtime) RequestExit() {
	r.exit.Store(true)
	r.Wakeup()
}

// ExitRequested reports whether RequestExit was called.
func (r *Runtime) ExitRequested() bool { return r.exit.Load() }

// Renders returns the number of completed resolve passes.
func (r *Runtime) Renders() int { return r.renders }

// SlotCount returns the number of live component instances.
func (r *Runtime) SlotCount() int { return len(r.slots) }

// Resolve expands every component in root, keyed by tree position, and
// returns the resulting tree. Slots whose positions were not visited are
// dropped and their effects cleaned up. Returns nil for an empty tree.
func (r *Runtime) Resolve(root Element) *node {
	r.dirty.Store(false)
	seen := make(map[string]struct{}, len(r.slots))
	n := r.resolve(root, root.segment(0), seen)
	if dropped := r.collect(seen); dropped > 0 {
		Debugf("runtime: collected %d component slots", dropped)
	}
	r.renders++
	return n
}

func (r *Runtime) resolve(e Element, key string, seen map[string]struct{}) *node {
	switch e.kind {
	case KindEmpty:
		return nil
	case KindText:
		return &node{kind: KindText, key: key, text: e.text}
	case KindComponent:
		seen[key] = struct{}{}
		out := r.renderComponent(key, e.render)
		return r.resolve(out, childKey(key, out.segment(0)), seen)
	}

	n := &node{kind: e.kind, key: key, box: e.box}
	for i, c := range e.children {
		if cn := r.resolve(c, childKey(key, c.segment(i)), seen); cn != nil {
			n.children = append(n.children, cn)
		}
	}
	return n
}

func (r *Runtime) renderComponent(key string, fn ComponentFunc) Element {
	s, ok := r.slots[key]
	if !ok {
		s = &slot{key: key}
		r.slots[key] = s
		r.order = append(r.order, s)
	}
	if fn == nil {
		return Element{}
	}
	h := &Hooks{rt: r, slot: s, active: true}
	out := fn(h)
	h.active = false
	if s.mounted && h.cursor != len(s.hooks) {
		panic(&StateViolation{
			Key:      key,
			Position: -1,
			Want:     hookCount(len(s.hooks)),
			Got:      hookCount(h.cursor),
		})
	}
	s.mounted = true
	return out
}

// collect drops every slot not in seen and returns how many went.
func (r *Runtime) collect(seen map[string]struct{}) int {
	if len(seen) == len(r.slots) {
		return 0
	}
	kept := r.order[:0]
	dropped := 0
	for _, s := range r.order {
		if _, ok := seen[s.key]; ok {
			kept = append(kept, s)
			continue
		}
		r.release(s)
		delete(r.slots, s.key)
		dropped++
	}
	clear(r.order[len(kept):])
	r.order = kept
	return dropped
}

// release runs the cleanups of a slot's effects.
func (r *Runtime) release(s *slot) {
	for i := len(s.hooks) - 1; i >= 0; i-- {
		if e, ok := s.hooks[i].value.(*effect); ok {
			e.dispose()
		}
	}
}

// RunEffects runs effects whose dependencies changed during the last
// Resolve. Call it after the frame has been written.
func (r *Runtime) RunEffects() {
	pending := r.effects
	r.effects = nil
	for _, e := range pending {
		e.run()
	}
}

// DispatchKey delivers k to every input handler, in component order.
func (r *Runtime) DispatchKey(k Key) {
	for _, fn := range handlers[func(Key)](r, hookInput) {
		fn(k)
	}
}

// DispatchMessage delivers an async message to every message handler.
func (r *Runtime) DispatchMessage(msg any) {
	for _, fn := range handlers[func(any)](r, hookMessage) {
		fn(msg)
	}
}

// DispatchTick delivers a tick to every tick handler.
func (r *Runtime) DispatchTick(t time.Time) {
	for _, fn := range handlers[func(time.Time)](r, hookTick) {
		fn(t)
	}
}

// HandlerCount returns the number of registered handlers of every kind.
func (r *Runtime) HandlerCount() int {
	n := 0
	for _, s := range r.order {
		for _, h := range s.hooks {
			if h.kind == hookInput || h.kind == hookMessage || h.kind == hookTick {
				n++
			}
		}
	}
	return n
}

// handlers snapshots the registered handlers of kind so dispatch is not
// affected by slots changing underneath it.
func handlers[F any](r *Runtime, kind hookKind) []F {
	var out []F
	for _, s := range r.order {
		for _, h := range s.hooks {
			if h.kind != kind {
				continue
			}
			if fn, ok := h.value.(F); ok {
				out = append(out, fn)
			}
		}
	}
	return out
}

// Unmount cleans up every slot's effects and forgets all state.
func (r *Runtime) Unmount() {
	for i := len(r.order) - 1; i >= 0; i-- {
		r.release(r.order[i])
	}
	clear(r.slots)
	clear(r.order)
	r.order = r.order[:0]
	r.effects = nil
}

func hookCount(n int) string {
	if n == 1 {
		return "1 hook"
	}
	return strconv.Itoa(n) + " hooks"
}
