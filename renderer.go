package inline

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Renderer turns an element tree into a frame: it resolves components,
// computes layout, paints a grid and hands the styled lines to the writer.
type Renderer struct {
	rt      *Runtime
	adapter *Adapter
	writer  *InlineWriter

	width, height int

	interval time.Duration // minimum time between frames
	last     time.Time

	static []string
	lines  []string
	layout Layout
	now    func() time.Time
	trace  *FrameTrace // set while Render runs
}

// NewRenderer renders into w for a width x height terminal.
func NewRenderer(rt *Runtime, w *InlineWriter, width, height int) *Renderer {
	return &Renderer{
		rt:      rt,
		adapter: NewAdapter(nil),
		writer:  w,
		width:   width,
		height:  height,
		now:     time.Now,
	}
}

// SetMaxFPS caps the frame rate. fps <= 0 removes the cap.
func (r *Renderer) SetMaxFPS(fps int) {
	if fps <= 0 {
		r.interval = 0
		return
	}
	r.interval = time.Second / time.Duration(fps)
}

// Size returns the viewport size.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Resize changes the viewport and drops the rows drawn at the old size. The
// next frame is a full rewrite.
func (r *Renderer) Resize(width, height int) error {
	r.width, r.height = width, height
	return r.writer.HandleResize()
}

// Wait returns how long until the frame-rate cap allows another frame.
func (r *Renderer) Wait(now time.Time) time.Duration {
	if r.interval <= 0 || r.last.IsZero() {
		return 0
	}
	return max(r.interval-now.Sub(r.last), 0)
}

// Print queues lines to be written permanently above the live region with
// the next frame.
func (r *Renderer) Print(lines ...string) {
	for _, l := range lines {
		r.static = append(r.static, strings.Split(l, "\n")...)
	}
}

// HasPending reports whether printed lines are waiting for a frame.
func (r *Renderer) HasPending() bool { return len(r.static) > 0 }

// Lines returns the last frame's styled lines.
func (r *Renderer) Lines() []string { return r.lines }

// Layout returns the last frame's layout.
func (r *Renderer) Layout() Layout { return r.layout }

// Frames returns the number of frames written.
func (r *Renderer) Frames() int { return r.writer.Frames() }

// Writer returns the underlying inline writer.
func (r *Renderer) Writer() *InlineWriter { return r.writer }

// viewHeight is the tallest frame that fits. The cursor rests on the row
// below the frame, so a frame as tall as the terminal would scroll its top
// row out of reach.
func (r *Renderer) viewHeight() int {
	return max(r.height-1, 1)
}

// Frame resolves and paints root without writing it.
func (r *Renderer) Frame(root Element) []string {
	tr := r.trace
	tree := r.rt.Resolve(root)
	tr.Phase("resolve")
	if tree == nil {
		r.layout = Layout{}
		return nil
	}

	lroot := buildLayout(tree)
	r.layout = r.adapter.Compute(lroot, r.width, r.viewHeight())
	tr.Phase("layout")
	for _, issue := range r.layout.Issues {
		Debugf("render: %v", issue)
	}

	g := GetGrid(r.layout.Root.Right(), r.layout.Root.Bottom())
	defer PutGrid(g)
	paint(g, tree, lroot, r.layout, g.Bounds())
	lines := g.StyledLines()
	tr.Phase("paint")
	return lines
}

// Render writes a frame for root, along with any printed lines, then runs
// the effects the frame scheduled. A *WriteError leaves the writer ready to
// rewrite everything on the next call.
func (r *Renderer) Render(root Element) error {
	tr := traceFrame(r.writer.Frames() + 1)
	r.trace = tr
	defer func() { r.trace = nil }()

	lines := r.Frame(root)
	if err := r.writer.RenderWithStatic(r.static, lines); err != nil {
		Debugf("render: %v", err)
		return err
	}
	tr.Phase("write")
	r.static = r.static[:0]
	r.lines = lines
	r.last = r.now()
	r.rt.RunEffects()
	tr.Phase("effects")
	tr.Done(len(lines))
	return nil
}

// Unmount releases the terminal. The last frame stays on screen.
func (r *Renderer) Unmount() error {
	if len(r.static) > 0 {
		if err := r.writer.RenderWithStatic(r.static, r.lines); err != nil {
			return err
		}
		r.static = r.static[:0]
	}
	return r.writer.Unmount()
}

func buildLayout(n *node) *LayoutNode {
	ln := &LayoutNode{Name: n.key, Style: n.layoutStyle()}
	if n.kind == KindText {
		content := n.text.Content
		ln.Measure = func(int) (int, int) { return measureText(content) }
	}
	if len(n.children) > 0 {
		ln.Children = make([]*LayoutNode, len(n.children))
		for i, c := range n.children {
			ln.Children[i] = buildLayout(c)
		}
	}
	return ln
}

// measureText returns the cell size of s as the grid will draw it.
func measureText(s string) (int, int) {
	s = strings.ReplaceAll(s, "\t", " ")
	return lipgloss.Width(s), lipgloss.Height(s)
}

// paint draws n and its subtree. Children never draw over their parent's
// border or outside its rect.
func paint(g *Grid, n *node, ln *LayoutNode, l Layout, clip Rect) {
	rect := l.Rect(ln)
	switch n.kind {
	case KindText:
		g.WriteTextClipped(rect.X, rect.Y, n.text.Content, n.text.Style, rect.Intersect(clip))
		return
	case KindBox:
		b := n.box
		if !b.Border.IsZero() || b.Background != nil {
			style := Style{FG: b.BorderColor}
			var fill *Style
			if b.Background != nil {
				style.BG = *b.Background
				fill = &Style{BG: *b.Background}
			}
			g.WriteRect(rect.Intersect(clip), b.Border, style, fill)
		}
	}

	st := ln.Style
	inner := Rect{
		X: rect.X + st.Border.Left,
		Y: rect.Y + st.Border.Top,
		W: rect.W - st.Border.horizontal(),
		H: rect.H - st.Border.vertical(),
	}
	clip = clip.Intersect(inner)
	for i, c := range n.children {
		paint(g, c, ln.Children[i], l, clip)
	}
}
