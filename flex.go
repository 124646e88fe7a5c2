package inline

import "math"

// Flexbox solver in two passes over a flat node table:
//
// Measure (bottom→up): intrinsic border-box size of a node for a given
// available space, from explicit sizes, leaf measure funcs, or children.
// Arrange (top→down): parents resolve grow/shrink, justify and align, then
// hand each child its absolute rect and recurse.
//
// The table is rebuilt from scratch for every frame; nothing survives Reset.

type flexNode struct {
	style    LayoutStyle
	measure  MeasureFunc
	children []NodeID
	rect     Rect
}

// FlexSolver is the built-in Solver.
type FlexSolver struct {
	nodes []flexNode
}

// NewFlexSolver creates an empty solver.
func NewFlexSolver() *FlexSolver {
	return &FlexSolver{}
}

// Reset drops every node.
func (s *FlexSolver) Reset() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
}

// Len returns the number of nodes in the table.
func (s *FlexSolver) Len() int {
	return len(s.nodes)
}

// Add appends a node whose children were added earlier.
func (s *FlexSolver) Add(style LayoutStyle, measure MeasureFunc, children []NodeID) NodeID {
	s.nodes = append(s.nodes, flexNode{style: style, measure: measure, children: children})
	return NodeID(len(s.nodes) - 1)
}

// Rect returns the computed absolute rect of id.
func (s *FlexSolver) Rect(id NodeID) Rect {
	if int(id) < 0 || int(id) >= len(s.nodes) {
		return Rect{}
	}
	return s.nodes[id].rect
}

// Compute lays out root in a width x height viewport. An auto-width root
// fills the viewport; an auto-height root takes its content height. Both are
// clamped to the viewport.
func (s *FlexSolver) Compute(root NodeID, width, height int) {
	if int(root) < 0 || int(root) >= len(s.nodes) {
		return
	}
	width, height = max(width, 0), max(height, 0)
	st := s.nodes[root].style
	availW := max(width-st.Margin.horizontal(), 0)
	availH := max(height-st.Margin.vertical(), 0)

	w, h := s.measure(root, availW, availH)
	if st.Width.IsAuto() {
		w = clampLength(availW, st.MinWidth, st.MaxWidth, availW)
	}
	w = min(w, availW)
	h = min(h, availH)
	s.arrange(root, Rect{X: st.Margin.Left, Y: st.Margin.Top, W: w, H: h})
}

func clampLength(v int, lo, hi Length, parent int) int {
	if n, ok := hi.resolve(parent); ok && v > n {
		v = n
	}
	if n, ok := lo.resolve(parent); ok && v < n {
		v = n
	}
	return max(v, 0)
}

func (n *flexNode) frame() (w, h int) {
	st := n.style
	return st.Padding.horizontal() + st.Border.horizontal(), st.Padding.vertical() + st.Border.vertical()
}

// measure returns the intrinsic border-box size of id given the space
// available to it (margins already removed).
func (s *FlexSolver) measure(id NodeID, availW, availH int) (int, int) {
	n := &s.nodes[id]
	st := n.style
	availW, availH = max(availW, 0), max(availH, 0)

	w, wok := st.Width.resolve(availW)
	h, hok := st.Height.resolve(availH)
	if st.AspectRatio > 0 {
		if wok && !hok {
			h, hok = int(math.Round(float64(w)/st.AspectRatio)), true
		} else if hok && !wok {
			w, wok = int(math.Round(float64(h)*st.AspectRatio)), true
		}
	}

	if !wok || !hok {
		fw, fh := n.frame()
		innerW, innerH := availW-fw, availH-fh
		if wok {
			innerW = w - fw
		}
		if hok {
			innerH = h - fh
		}
		var cw, ch int
		if n.measure != nil && len(n.children) == 0 {
			cw, ch = n.measure(max(innerW, 0))
		} else {
			cw, ch = s.contentSize(n, max(innerW, 0), max(innerH, 0))
		}
		if !wok {
			w = cw + fw
		}
		if !hok {
			h = ch + fh
		}
	}

	return clampLength(w, st.MinWidth, st.MaxWidth, availW),
		clampLength(h, st.MinHeight, st.MaxHeight, availH)
}

// contentSize sums in-flow children along the main axis and takes the
// largest on the cross axis.
func (s *FlexSolver) contentSize(n *flexNode, innerW, innerH int) (int, int) {
	row := n.style.Direction == Row
	var mainSum, cross, count int
	for _, c := range n.children {
		cs := s.nodes[c].style
		if cs.Position == Absolute {
			continue
		}
		cw, ch := s.measure(c, innerW-cs.Margin.horizontal(), innerH-cs.Margin.vertical())
		cw += cs.Margin.horizontal()
		ch += cs.Margin.vertical()
		if row {
			mainSum += cw
			cross = max(cross, ch)
		} else {
			mainSum += ch
			cross = max(cross, cw)
		}
		count++
	}
	if count > 1 {
		mainSum += n.style.Gap * (count - 1)
	}
	if row {
		return mainSum, cross
	}
	return cross, mainSum
}

type flexItem struct {
	id                 NodeID
	main, cross        int
	marginMain         [2]int // start, end
	marginCross        [2]int
	grow, shrink       float64
	minMain, maxMain   Length
	minCross, maxCross Length
	autoCross          bool
	align              Align
}

// arrange assigns rect to id and positions its children inside it.
func (s *FlexSolver) arrange(id NodeID, rect Rect) {
	n := &s.nodes[id]
	n.rect = rect
	if len(n.children) == 0 {
		return
	}
	st := n.style
	content := Rect{
		X: rect.X + st.Border.Left + st.Padding.Left,
		Y: rect.Y + st.Border.Top + st.Padding.Top,
	}
	fw, fh := n.frame()
	content.W, content.H = max(rect.W-fw, 0), max(rect.H-fh, 0)

	row := st.Direction == Row
	mainSize, crossSize := content.H, content.W
	if row {
		mainSize, crossSize = content.W, content.H
	}

	items := make([]flexItem, 0, len(n.children))
	var absolute []NodeID
	for _, c := range n.children {
		cs := s.nodes[c].style
		if cs.Position == Absolute {
			absolute = append(absolute, c)
			continue
		}
		cw, ch := s.measure(c, content.W-cs.Margin.horizontal(), content.H-cs.Margin.vertical())
		it := flexItem{id: c, grow: cs.Grow, shrink: cs.shrinkFactor()}
		if row {
			it.main, it.cross = cw, ch
			it.marginMain = [2]int{cs.Margin.Left, cs.Margin.Right}
			it.marginCross = [2]int{cs.Margin.Top, cs.Margin.Bottom}
			it.minMain, it.maxMain = cs.MinWidth, cs.MaxWidth
			it.minCross, it.maxCross = cs.MinHeight, cs.MaxHeight
			it.autoCross = cs.Height.IsAuto()
		} else {
			it.main, it.cross = ch, cw
			it.marginMain = [2]int{cs.Margin.Top, cs.Margin.Bottom}
			it.marginCross = [2]int{cs.Margin.Left, cs.Margin.Right}
			it.minMain, it.maxMain = cs.MinHeight, cs.MaxHeight
			it.minCross, it.maxCross = cs.MinWidth, cs.MaxWidth
			it.autoCross = cs.Width.IsAuto()
		}
		it.align = cs.AlignSelf
		if it.align == AlignAuto {
			it.align = st.AlignItems
		}
		if it.align == AlignAuto {
			it.align = AlignStretch
		}
		items = append(items, it)
	}

	s.flexMain(items, mainSize, st.Gap)

	used := 0
	for i, it := range items {
		used += it.main + it.marginMain[0] + it.marginMain[1]
		if i > 0 {
			used += st.Gap
		}
	}
	lead, spacing := justify(st.Justify, max(mainSize-used, 0), len(items))

	cursor := lead
	for i, it := range items {
		marginCross := it.marginCross[0] + it.marginCross[1]
		cross := it.cross
		if it.align == AlignStretch && it.autoCross {
			cross = clampLength(crossSize-marginCross, it.minCross, it.maxCross, crossSize)
		}
		var crossPos int
		switch it.align {
		case AlignEnd:
			crossPos = crossSize - cross - it.marginCross[1]
		case AlignCenter:
			crossPos = it.marginCross[0] + (crossSize-marginCross-cross)/2
		default:
			crossPos = it.marginCross[0]
		}
		crossPos = max(crossPos, 0)

		cursor += it.marginMain[0]
		r := Rect{X: content.X + crossPos, Y: content.Y + cursor, W: cross, H: it.main}
		if row {
			r = Rect{X: content.X + cursor, Y: content.Y + crossPos, W: it.main, H: cross}
		}
		s.arrange(it.id, r)
		cursor += it.main + it.marginMain[1] + st.Gap + spacing[i]
	}

	for _, c := range absolute {
		cs := s.nodes[c].style
		w, h := s.measure(c, content.W-cs.Margin.horizontal(), content.H-cs.Margin.vertical())
		s.arrange(c, Rect{
			X: content.X + cs.X + cs.Margin.Left,
			Y: content.Y + cs.Y + cs.Margin.Top,
			W: w,
			H: h,
		})
	}
}

// flexMain grows or shrinks item main sizes to fit mainSize.
func (s *FlexSolver) flexMain(items []flexItem, mainSize, gap int) {
	total := 0
	for i, it := range items {
		total += it.main + it.marginMain[0] + it.marginMain[1]
		if i > 0 {
			total += gap
		}
	}
	free := mainSize - total

	weights := make([]float64, len(items))
	var sum float64
	if free > 0 {
		for i, it := range items {
			weights[i] = it.grow
			sum += it.grow
		}
	} else if free < 0 {
		for i, it := range items {
			weights[i] = it.shrink * float64(it.main)
			sum += weights[i]
		}
	}
	if sum > 0 {
		shares := distribute(abs(free), weights, sum)
		for i := range items {
			if free > 0 {
				items[i].main += shares[i]
			} else {
				items[i].main -= shares[i]
			}
		}
	}
	for i := range items {
		items[i].main = clampLength(items[i].main, items[i].minMain, items[i].maxMain, mainSize)
	}
}

// distribute splits total cells by weight, rounding cumulatively so the
// shares always add up to total.
func distribute(total int, weights []float64, sum float64) []int {
	shares := make([]int, len(weights))
	var acc float64
	prev := 0
	for i, w := range weights {
		acc += float64(total) * w / sum
		cur := int(math.Round(acc))
		shares[i] = cur - prev
		prev = cur
	}
	return shares
}

// justify returns the leading offset and the extra space after each item.
func justify(j Justify, free, count int) (int, []int) {
	spacing := make([]int, count)
	if count == 0 || free <= 0 {
		return 0, spacing
	}
	even := func(slots int) []int {
		w := make([]float64, slots)
		for i := range w {
			w[i] = 1
		}
		return distribute(free, w, float64(slots))
	}
	switch j {
	case JustifyEnd:
		return free, spacing
	case JustifyCenter:
		return free / 2, spacing
	case JustifySpaceBetween:
		if count == 1 {
			return 0, spacing
		}
		copy(spacing, even(count-1))
		return 0, spacing
	case JustifySpaceAround:
		// half a share before the first item and after the last
		halves := even(count * 2)
		lead := halves[0]
		for i := 0; i < count; i++ {
			spacing[i] = halves[2*i+1]
			if i+1 < count {
				spacing[i] += halves[2*i+2]
			}
		}
		return lead, spacing
	case JustifySpaceEvenly:
		slots := even(count + 1)
		copy(spacing, slots[1:count])
		return slots[0], spacing
	}
	return 0, spacing
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
