package inline

import (
	"strconv"
	"strings"
)

// Kind identifies which variant an Element holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindText
	KindBox
	KindFragment
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindBox:
		return "box"
	case KindFragment:
		return "fragment"
	case KindComponent:
		return "component"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// TextProps describes a text leaf.
type TextProps struct {
	Content string
	Style   Style
	Layout  LayoutStyle
}

// BoxProps describes a container. A non-zero Border reserves one cell on
// every side unless Layout.Border is set explicitly.
type BoxProps struct {
	Layout      LayoutStyle
	Border      BorderStyle
	BorderColor Color
	Background  *Color
}

// ComponentFunc renders a component. Hook primitives on h are only valid
// for the duration of the call.
type ComponentFunc func(h *Hooks) Element

// Element is an immutable UI description. The zero value is Empty.
type Element struct {
	kind     Kind
	key      string
	text     TextProps
	box      BoxProps
	children []Element
	name     string
	render   ComponentFunc
}

// Empty renders nothing and takes no space.
func Empty() Element { return Element{} }

// Text creates an unstyled text leaf. Newlines start new rows.
func Text(content string) Element {
	return Element{kind: KindText, text: TextProps{Content: content}}
}

// StyledText creates a text leaf drawn in style.
func StyledText(content string, style Style) Element {
	return Element{kind: KindText, text: TextProps{Content: content, Style: style}}
}

// TextWith creates a text leaf from full props.
func TextWith(p TextProps) Element {
	return Element{kind: KindText, text: p}
}

// Box creates a container.
func Box(p BoxProps, children ...Element) Element {
	return Element{kind: KindBox, box: p, children: children}
}

// VBox stacks children top to bottom.
func VBox(children ...Element) Element {
	return Box(BoxProps{Layout: LayoutStyle{Direction: Column}}, children...)
}

// HBox places children left to right.
func HBox(children ...Element) Element {
	return Box(BoxProps{Layout: LayoutStyle{Direction: Row}}, children...)
}

// Fragment groups children without a visual container of its own. A
// fragment lays its children out in a row.
func Fragment(children ...Element) Element {
	return Element{kind: KindFragment, children: children}
}

// Component creates a stateful element. name is part of the component's
// position key, so swapping one component for another at the same spot
// starts the new one with fresh state.
func Component(name string, fn ComponentFunc) Element {
	return Element{kind: KindComponent, name: name, render: fn}
}

// WithKey returns a copy of e identified by key instead of its index among
// its siblings. Keyed components keep their state when siblings move.
func (e Element) WithKey(key string) Element {
	e.key = key
	return e
}

// Kind returns the element variant.
func (e Element) Kind() Kind { return e.kind }

// Key returns the explicit key, if any.
func (e Element) Key() string { return e.key }

// Name returns a component's name.
func (e Element) Name() string { return e.name }

// Children returns the element's direct children.
func (e Element) Children() []Element { return e.children }

// TextProps returns the props of a text leaf.
func (e Element) TextProps() TextProps { return e.text }

// BoxProps returns the props of a box.
func (e Element) BoxProps() BoxProps { return e.box }

// segment is this element's part of a position key.
func (e Element) segment(index int) string {
	var seg string
	if e.key != "" {
		seg = "#" + e.key
	} else {
		seg = strconv.Itoa(index)
	}
	if e.kind == KindComponent {
		seg += ":" + e.name
	}
	return seg
}

// childKey joins a parent position key and a child segment.
func childKey(parent, seg string) string {
	if parent == "" {
		return seg
	}
	var b strings.Builder
	b.Grow(len(parent) + 1 + len(seg))
	b.WriteString(parent)
	b.WriteByte('/')
	b.WriteString(seg)
	return b.String()
}

// node is a resolved element: components are expanded and empties removed.
type node struct {
	kind     Kind
	key      string
	text     TextProps
	box      BoxProps
	children []*node
}

// layoutStyle returns the style handed to the layout adapter.
func (n *node) layoutStyle() LayoutStyle {
	switch n.kind {
	case KindText:
		return n.text.Layout
	case KindFragment:
		return LayoutStyle{Direction: Row}
	}
	st := n.box.Layout
	if !n.box.Border.IsZero() && st.Border == (Edges{}) {
		st.Border = Uniform(1)
	}
	return st
}
