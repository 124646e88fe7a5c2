package inline

import "math"

// Direction is the main axis along which a container places its children.
type Direction uint8

const (
	Column Direction = iota // top to bottom
	Row                     // left to right
)

// Align positions children on the cross axis.
type Align uint8

const (
	AlignAuto    Align = iota // inherit from the parent's AlignItems; stretch at the top
	AlignStart                // top or left edge
	AlignCenter               // centered
	AlignEnd                  // bottom or right edge
	AlignStretch              // fill the cross axis unless sized explicitly
)

// Justify distributes free space on the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Position selects normal flow or absolute placement.
type Position uint8

const (
	Relative Position = iota
	Absolute          // placed at (X, Y) inside the parent's content box, out of flow
)

type lengthUnit uint8

const (
	unitAuto lengthUnit = iota
	unitCells
	unitPercent
)

// Length is a size that is either automatic, a fixed number of cells, or a
// percentage of the parent's content size. The zero value is Auto.
type Length struct {
	unit  lengthUnit
	value float64
}

// Auto sizes the node from its content.
func Auto() Length { return Length{} }

// Cells is a fixed size in terminal cells.
func Cells(n int) Length { return Length{unit: unitCells, value: float64(n)} }

// Percent is a fraction of the parent's content size, 0-100.
func Percent(p float64) Length { return Length{unit: unitPercent, value: p} }

// IsAuto reports whether the length is automatic.
func (l Length) IsAuto() bool { return l.unit == unitAuto }

// resolve returns the length in cells given the parent size. ok is false for Auto.
func (l Length) resolve(parent int) (n int, ok bool) {
	switch l.unit {
	case unitCells:
		return int(l.value), true
	case unitPercent:
		return int(math.Floor(float64(parent) * l.value / 100)), true
	}
	return 0, false
}

// Edges holds a per-side quantity in cells.
type Edges struct {
	Top, Right, Bottom, Left int
}

// Uniform returns edges with the same value on every side.
func Uniform(n int) Edges { return Edges{n, n, n, n} }

// Symmetric returns edges with vertical (top/bottom) and horizontal (left/right) values.
func Symmetric(vertical, horizontal int) Edges {
	return Edges{Top: vertical, Bottom: vertical, Left: horizontal, Right: horizontal}
}

func (e Edges) horizontal() int { return e.Left + e.Right }
func (e Edges) vertical() int   { return e.Top + e.Bottom }

// LayoutStyle describes the sizing and spacing intents of one node. The zero
// value is an auto-sized column that neither grows nor refuses to shrink.
type LayoutStyle struct {
	Direction Direction

	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length
	AspectRatio         float64 // width / height, applied when one axis is auto

	Grow     float64
	Shrink   float64 // zero means 1
	NoShrink bool

	Padding Edges
	Margin  Edges
	Border  Edges // cells taken by a border, usually Uniform(1)
	Gap     int

	AlignItems Align
	AlignSelf  Align
	Justify    Justify

	Position Position
	X, Y     int // offset of an Absolute node
}

func (s LayoutStyle) shrinkFactor() float64 {
	switch {
	case s.NoShrink:
		return 0
	case s.Shrink == 0:
		return 1
	}
	return s.Shrink
}

// MeasureFunc reports the intrinsic size of a leaf given the widest it may be.
type MeasureFunc func(maxWidth int) (width, height int)

// LayoutNode is one node of the style tree handed to the adapter. Nodes are
// built fresh for every frame.
type LayoutNode struct {
	Name     string // for diagnostics, usually the element's position key
	Style    LayoutStyle
	Measure  MeasureFunc // leaves only
	Children []*LayoutNode
}

// NodeID identifies a node inside a Solver's table.
type NodeID int

// Solver is the constraint engine behind the adapter. Its node table must be
// fully rebuilt after Reset; ids from an earlier build are invalid.
type Solver interface {
	Reset()
	Add(style LayoutStyle, measure MeasureFunc, children []NodeID) NodeID
	Compute(root NodeID, width, height int)
	Rect(id NodeID) Rect
}

// Layout is the geometry read back for every node of one style tree.
type Layout struct {
	Root   Rect
	Issues []*LayoutError // constraints that were clamped to make the tree solvable
	rects  map[*LayoutNode]Rect
}

// Rect returns the absolute geometry of n, or the zero rect if n was not part
// of the tree.
func (l Layout) Rect(n *LayoutNode) Rect {
	return l.rects[n]
}

// Adapter translates a style tree into solver calls and reads geometry back.
type Adapter struct {
	solver Solver
	ids    map[*LayoutNode]NodeID
	issues []*LayoutError
}

// NewAdapter returns an adapter over s, or over the built-in flex solver when
// s is nil.
func NewAdapter(s Solver) *Adapter {
	if s == nil {
		s = NewFlexSolver()
	}
	return &Adapter{solver: s}
}

// Compute lays out the tree rooted at root inside a width x height viewport.
// Negative or unsatisfiable inputs are clamped and reported in Issues; the
// result is always usable and every rect is non-negative.
func (a *Adapter) Compute(root *LayoutNode, width, height int) Layout {
	a.solver.Reset()
	a.ids = make(map[*LayoutNode]NodeID)
	a.issues = nil

	if width < 0 || height < 0 {
		a.issues = append(a.issues, &LayoutError{Node: root.Name, Field: "viewport", Reason: "negative available space clamped to zero"})
		width, height = max(width, 0), max(height, 0)
	}

	id := a.add(root)
	a.solver.Compute(id, width, height)

	view := Rect{W: width, H: height}
	out := Layout{Issues: a.issues, rects: make(map[*LayoutNode]Rect, len(a.ids))}
	for n, id := range a.ids {
		out.rects[n] = clipToView(a.solver.Rect(id), view)
	}
	out.Root = out.rects[root]
	return out
}

// clipToView confines r to the viewport. A rect entirely outside it collapses to
// an empty rect on the nearest edge.
func clipToView(r, view Rect) Rect {
	r.W, r.H = max(r.W, 0), max(r.H, 0)
	c := r.Intersect(view)
	c.X, c.Y = min(c.X, view.Right()), min(c.Y, view.Bottom())
	if c.Empty() {
		c.W, c.H = 0, 0
	}
	return c
}

// add registers children before their parent.
func (a *Adapter) add(n *LayoutNode) NodeID {
	children := make([]NodeID, 0, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		children = append(children, a.add(c))
	}
	id := a.solver.Add(a.sanitize(n), n.Measure, children)
	a.ids[n] = id
	return id
}

// sanitize clamps values no solver can honor.
func (a *Adapter) sanitize(n *LayoutNode) LayoutStyle {
	s := n.Style
	report := func(field, reason string) {
		a.issues = append(a.issues, &LayoutError{Node: n.Name, Field: field, Reason: reason})
	}

	for _, l := range []struct {
		name string
		v    *Length
	}{
		{"width", &s.Width}, {"height", &s.Height},
		{"min-width", &s.MinWidth}, {"min-height", &s.MinHeight},
		{"max-width", &s.MaxWidth}, {"max-height", &s.MaxHeight},
	} {
		if !l.v.IsAuto() && l.v.value < 0 {
			report(l.name, "negative size clamped to zero")
			l.v.value = 0
		}
	}
	for _, e := range []struct {
		name string
		v    *Edges
	}{
		{"padding", &s.Padding}, {"margin", &s.Margin}, {"border", &s.Border},
	} {
		if e.v.Top < 0 || e.v.Right < 0 || e.v.Bottom < 0 || e.v.Left < 0 {
			report(e.name, "negative edge clamped to zero")
			*e.v = Edges{max(e.v.Top, 0), max(e.v.Right, 0), max(e.v.Bottom, 0), max(e.v.Left, 0)}
		}
	}
	if s.Gap < 0 {
		report("gap", "negative gap clamped to zero")
		s.Gap = 0
	}
	if s.Grow < 0 {
		report("grow", "negative grow clamped to zero")
		s.Grow = 0
	}
	if s.Shrink < 0 {
		report("shrink", "negative shrink clamped to zero")
		s.Shrink, s.NoShrink = 0, true
	}
	if s.AspectRatio < 0 {
		report("aspect-ratio", "negative ratio ignored")
		s.AspectRatio = 0
	}
	if s.MinWidth.unit == s.MaxWidth.unit && !s.MinWidth.IsAuto() && s.MinWidth.value > s.MaxWidth.value {
		report("max-width", "max below min raised to min")
		s.MaxWidth = s.MinWidth
	}
	if s.MinHeight.unit == s.MaxHeight.unit && !s.MinHeight.IsAuto() && s.MinHeight.value > s.MaxHeight.value {
		report("max-height", "max below min raised to min")
		s.MaxHeight = s.MinHeight
	}
	return s
}
