package inline

import (
	"fmt"
	"reflect"
	"time"
)

// Hooks is handed to a component while it renders. Every primitive claims
// the next slot position, so a component must call the same primitives in
// the same order on every render. Breaking that rule panics with a
// *StateViolation.
type Hooks struct {
	rt     *Runtime
	slot   *slot
	cursor int
	active bool
}

// Key returns the component's position key.
func (h *Hooks) Key() string { return h.slot.key }

// Exit asks the render loop to stop. Safe to call from handlers and
// goroutines captured by the component.
func (h *Hooks) Exit() { h.rt.RequestExit() }

// Invalidate schedules a render without changing any state.
func (h *Hooks) Invalidate() { h.rt.MarkDirty() }

// State returns the component's signal at this position, creating it with
// initial on the first render. Later renders return the same signal and
// ignore initial.
func State[T any](h *Hooks, initial T) *Signal[T] {
	return useSignal(h, func() *Signal[T] { return newSignal(h.rt, initial) })
}

// StateFunc is State with a lazily computed initial value. init runs once.
func StateFunc[T any](h *Hooks, init func() T) *Signal[T] {
	return useSignal(h, func() *Signal[T] { return newSignal(h.rt, init()) })
}

func useSignal[T any](h *Hooks, create func() *Signal[T]) *Signal[T] {
	pos := h.cursor
	v := h.use(hookState, func() any { return create() })
	sig, ok := v.(*Signal[T])
	if !ok {
		panic(&StateViolation{
			Key:      h.slot.key,
			Position: pos,
			Want:     fmt.Sprintf("%T", v),
			Got:      fmt.Sprintf("%T", (*Signal[T])(nil)),
		})
	}
	return sig
}

// Input registers fn for key events. Only the first render's fn is kept;
// it should read state through signals rather than captured values.
func (h *Hooks) Input(fn func(Key)) {
	h.use(hookInput, func() any { return fn })
}

// Message registers fn for values passed to App.Send.
func (h *Hooks) Message(fn func(msg any)) {
	h.use(hookMessage, func() any { return fn })
}

// Tick registers fn to run on every loop tick.
func (h *Hooks) Tick(fn func(now time.Time)) {
	h.use(hookTick, func() any { return fn })
}

// Effect runs fn after the frame is written, on the first render and again
// whenever deps differ from the previous render's. With no deps it runs once.
// The func fn returns, if any, runs before the next fn and when the
// component leaves the tree.
func (h *Hooks) Effect(fn func() (cleanup func()), deps ...any) {
	created := false
	e := h.use(hookEffect, func() any {
		created = true
		return &effect{}
	}).(*effect)
	if !created && reflect.DeepEqual(e.deps, deps) {
		return
	}
	e.fn, e.deps = fn, deps
	if !e.queued {
		e.queued = true
		h.rt.effects = append(h.rt.effects, e)
	}
}

// use claims the next hook position, creating its value on first use.
func (h *Hooks) use(kind hookKind, create func() any) any {
	s := h.slot
	if !h.active {
		panic(&StateViolation{Key: s.key, Position: h.cursor, Want: "call during render", Got: kind.String() + " after render"})
	}
	pos := h.cursor
	h.cursor++
	if pos < len(s.hooks) {
		if s.hooks[pos].kind != kind {
			panic(&StateViolation{Key: s.key, Position: pos, Want: s.hooks[pos].kind.String(), Got: kind.String()})
		}
		return s.hooks[pos].value
	}
	if s.mounted {
		panic(&StateViolation{Key: s.key, Position: -1, Want: hookCount(len(s.hooks)), Got: hookCount(pos + 1)})
	}
	v := create()
	s.hooks = append(s.hooks, hook{kind: kind, value: v})
	return v
}

type effect struct {
	fn      func() func()
	deps    []any
	cleanup func()
	queued  bool
}

func (e *effect) run() {
	e.queued = false
	e.dispose()
	if e.fn != nil {
		e.cleanup = e.fn()
	}
}

func (e *effect) dispose() {
	if c := e.cleanup; c != nil {
		e.cleanup = nil
		c()
	}
}
