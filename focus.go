package inline

import "github.com/charmbracelet/bubbles/key"

// FocusID names one focusable part of a component tree.
type FocusID int

// NoFocus is reported when nothing holds focus.
const NoFocus FocusID = -1

// FocusEvent describes one focus change. Either side may be NoFocus.
type FocusEvent struct {
	Blurred FocusID
	Focused FocusID
}

// IsFocus reports whether something gained focus.
func (e FocusEvent) IsFocus() bool { return e.Focused != NoFocus }

// IsBlur reports whether something lost focus.
func (e FocusEvent) IsBlur() bool { return e.Blurred != NoFocus }

// FocusManager tracks which of a set of ids holds keyboard focus and cycles
// it with Tab and Shift-Tab.
//
// usage:
//
//	focus := UseFocus(h, 0, 1, 2)
//	h.Input(func(k Key) {
//		switch focus.Focused() {
//		case 0: ...
//		}
//	})
//
// A FocusManager belongs to the render loop goroutine.
type FocusManager struct {
	items    []FocusID
	current  int // index into items, -1 when blurred
	onChange func(FocusEvent)
	changed  func()

	next key.Binding
	prev key.Binding
}

// NewFocusManager creates a manager with Tab and Shift-Tab bindings.
func NewFocusManager() *FocusManager {
	return &FocusManager{
		current: -1,
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
	}
}

// Register adds ids in order. The first id registered receives focus.
// Ids already registered are ignored.
func (fm *FocusManager) Register(ids ...FocusID) *FocusManager {
	for _, id := range ids {
		if fm.index(id) >= 0 {
			continue
		}
		fm.items = append(fm.items, id)
		if fm.current < 0 && len(fm.items) == 1 {
			fm.current = 0
			fm.emit(NoFocus, id)
		}
	}
	return fm
}

// Unregister removes id. If it held focus, focus stays at the same index,
// or moves to the last item when id was last.
func (fm *FocusManager) Unregister(id FocusID) {
	pos := fm.index(id)
	if pos < 0 {
		return
	}
	had := fm.IsFocused(id)
	fm.items = append(fm.items[:pos], fm.items[pos+1:]...)
	switch {
	case len(fm.items) == 0:
		fm.current = -1
	case fm.current > pos || fm.current >= len(fm.items):
		fm.current--
	}
	if had {
		fm.emit(id, fm.Focused())
	}
}

// NextKey replaces the keys that move focus forward.
func (fm *FocusManager) NextKey(keys ...string) *FocusManager {
	fm.next.SetKeys(keys...)
	return fm
}

// PrevKey replaces the keys that move focus backward.
func (fm *FocusManager) PrevKey(keys ...string) *FocusManager {
	fm.prev.SetKeys(keys...)
	return fm
}

// OnChange sets a callback that fires when focus changes.
func (fm *FocusManager) OnChange(fn func(FocusEvent)) *FocusManager {
	fm.onChange = fn
	return fm
}

// Bindings returns the focus cycling bindings, for help lines.
func (fm *FocusManager) Bindings() []key.Binding {
	return []key.Binding{fm.next, fm.prev}
}

// Next moves focus to the following id, wrapping at the end. With nothing
// focused it starts at the first.
func (fm *FocusManager) Next() {
	if len(fm.items) == 0 {
		return
	}
	fm.moveTo((fm.current + 1) % len(fm.items))
}

// Prev moves focus to the preceding id, wrapping at the start. With nothing
// focused it starts at the last.
func (fm *FocusManager) Prev() {
	if len(fm.items) == 0 {
		return
	}
	if fm.current <= 0 {
		fm.moveTo(len(fm.items) - 1)
		return
	}
	fm.moveTo(fm.current - 1)
}

// Focus moves focus to id. Unknown ids are ignored.
func (fm *FocusManager) Focus(id FocusID) {
	if pos := fm.index(id); pos >= 0 {
		fm.moveTo(pos)
	}
}

// Blur clears focus.
func (fm *FocusManager) Blur() {
	fm.moveTo(-1)
}

// Focused returns the id holding focus, or NoFocus.
func (fm *FocusManager) Focused() FocusID {
	if fm.current < 0 {
		return NoFocus
	}
	return fm.items[fm.current]
}

// IsFocused reports whether id holds focus.
func (fm *FocusManager) IsFocused(id FocusID) bool {
	return id != NoFocus && fm.Focused() == id
}

// HasFocus reports whether any id holds focus.
func (fm *FocusManager) HasFocus() bool { return fm.current >= 0 }

// Count returns the number of registered ids.
func (fm *FocusManager) Count() int { return len(fm.items) }

// HandleKey cycles focus when k matches a focus binding and reports whether
// it did.
func (fm *FocusManager) HandleKey(k Key) bool {
	switch {
	case k.Matches(fm.next):
		fm.Next()
	case k.Matches(fm.prev):
		fm.Prev()
	default:
		return false
	}
	return true
}

func (fm *FocusManager) moveTo(pos int) {
	old := fm.Focused()
	fm.current = pos
	fm.emit(old, fm.Focused())
}

func (fm *FocusManager) emit(blurred, focused FocusID) {
	if blurred == focused {
		return
	}
	if fm.onChange != nil {
		fm.onChange(FocusEvent{Blurred: blurred, Focused: focused})
	}
	if fm.changed != nil {
		fm.changed()
	}
}

func (fm *FocusManager) index(id FocusID) int {
	for i, it := range fm.items {
		if it == id {
			return i
		}
	}
	return -1
}

// UseFocus returns the component's focus manager, registering ids on the
// first render. Tab and Shift-Tab cycle focus through an Input handler, and
// every change schedules a render. Keys that cycle focus still reach the
// component's own Input handlers; check them with FocusManager.Bindings.
func UseFocus(h *Hooks, ids ...FocusID) *FocusManager {
	sig := StateFunc(h, func() *FocusManager {
		fm := NewFocusManager().Register(ids...)
		fm.changed = h.rt.MarkDirty
		return fm
	})
	fm := sig.Get()
	h.Input(func(k Key) { fm.HandleKey(k) })
	return fm
}
