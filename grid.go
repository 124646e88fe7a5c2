package inline

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Grid is a 2D buffer of styled cells that nodes draw into at their computed
// coordinates. Writes outside the grid are clipped, never rejected, and
// overlapping writes resolve last-write-wins per cell.
type Grid struct {
	cells  []Cell
	width  int
	height int
}

// NewGrid creates a grid filled with blank cells.
func NewGrid(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	g := &Grid{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	g.Clear()
	return g
}

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

// Bounds returns the grid as a rect at the origin.
func (g *Grid) Bounds() Rect { return Rect{W: g.width, H: g.height} }

// InBounds returns true if the coordinates are within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// Get returns the cell at (x, y); out of bounds yields a blank cell.
func (g *Grid) Get(x, y int) Cell {
	if !g.InBounds(x, y) {
		return EmptyCell()
	}
	return g.cells[g.index(x, y)]
}

// Clear resets every cell to blank.
func (g *Grid) Clear() {
	empty := EmptyCell()
	for i := range g.cells {
		g.cells[i] = empty
	}
}

// set writes c at (x, y), repairing any wide rune it splits.
func (g *Grid) set(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.index(x, y)
	old := g.cells[i]
	if old.IsContinuation() && x > 0 {
		// orphaned left half
		g.cells[i-1] = Cell{Rune: ' ', Width: 1, Style: g.cells[i-1].Style}
	}
	if old.Width == 2 && c.Width != 2 && x+1 < g.width {
		g.cells[i+1] = Cell{Rune: ' ', Width: 1, Style: old.Style}
	}
	g.cells[i] = c
}

// Set places a single-column cell. Wide runes go through WriteText.
func (g *Grid) Set(x, y int, c Cell) {
	if c.Width != 1 {
		c.Width = 1
	}
	g.set(x, y, c)
}

// FillRect fills a rectangular area with a cell.
func (g *Grid) FillRect(r Rect, c Cell) {
	r = r.Intersect(g.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			g.set(x, y, c)
		}
	}
}

// WriteText writes a possibly multi-line string starting at (x, y), clipped
// to the grid. It returns the widest line written, in columns.
func (g *Grid) WriteText(x, y int, text string, style Style) int {
	return g.WriteTextClipped(x, y, text, style, g.Bounds())
}

// WriteTextClipped is WriteText limited to clip as well as the grid.
//
// Escape sequences in text are stripped; styling comes only from style.
// A wide rune that would straddle the right clip edge is not written at all,
// leaving the last column untouched.
func (g *Grid) WriteTextClipped(x, y int, text string, style Style, clip Rect) int {
	clip = clip.Intersect(g.Bounds())
	if clip.Empty() || text == "" {
		return 0
	}
	if strings.IndexByte(text, '\x1b') >= 0 {
		text = ansi.Strip(text)
	}

	widest := 0
	for row, line := range strings.Split(text, "\n") {
		cy := y + row
		if cy >= clip.Bottom() {
			break
		}
		line = strings.TrimSuffix(line, "\r")
		col := x
		for len(line) > 0 {
			r, size := utf8.DecodeRuneInString(line)
			line = line[size:]
			if r == '\t' {
				r = ' '
			}
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if col+w > clip.Right() {
				break
			}
			if cy >= clip.Y && col >= clip.X {
				if w == 2 {
					// right half first so repairing it cannot clobber the new lead
					g.set(col+1, cy, Cell{Width: 0, Style: style})
					g.set(col, cy, Cell{Rune: r, Width: 2, Style: style})
				} else {
					g.set(col, cy, Cell{Rune: r, Width: 1, Style: style})
				}
			}
			col += w
		}
		widest = max(widest, col-x)
	}
	return widest
}

// BorderStyle holds the glyphs for each part of a rectangle's border.
// The zero value draws nothing.
type BorderStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

// IsZero reports whether the style draws no border.
func (b BorderStyle) IsZero() bool {
	return b == BorderStyle{}
}

// Predefined border styles.
var (
	BorderNone    = BorderStyle{}
	BorderSingle  = borderFrom(lipgloss.NormalBorder())
	BorderRounded = borderFrom(lipgloss.RoundedBorder())
	BorderDouble  = borderFrom(lipgloss.DoubleBorder())
	BorderBold    = borderFrom(lipgloss.ThickBorder())
	BorderClassic = BorderStyle{
		Horizontal: '-', Vertical: '|',
		TopLeft: '+', TopRight: '+', BottomLeft: '+', BottomRight: '+',
	}
)

func borderFrom(b lipgloss.Border) BorderStyle {
	first := func(s string) rune {
		r, _ := utf8.DecodeRuneInString(s)
		return r
	}
	return BorderStyle{
		Horizontal:  first(b.Top),
		Vertical:    first(b.Left),
		TopLeft:     first(b.TopLeft),
		TopRight:    first(b.TopRight),
		BottomLeft:  first(b.BottomLeft),
		BottomRight: first(b.BottomRight),
	}
}

// WriteRect draws border glyphs on the perimeter of r and, when fill is
// non-nil, paints the interior with blanks in that style. Rects smaller than
// 2x2 get no border.
func (g *Grid) WriteRect(r Rect, border BorderStyle, style Style, fill *Style) {
	if r.Empty() {
		return
	}
	hasBorder := !border.IsZero() && r.W >= 2 && r.H >= 2
	if fill != nil {
		inner := r
		if hasBorder {
			inner = Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
		}
		g.FillRect(inner, Cell{Rune: ' ', Width: 1, Style: *fill})
	}
	if !hasBorder {
		return
	}

	right, bottom := r.Right()-1, r.Bottom()-1
	g.set(r.X, r.Y, NewCell(border.TopLeft, style))
	g.set(right, r.Y, NewCell(border.TopRight, style))
	g.set(r.X, bottom, NewCell(border.BottomLeft, style))
	g.set(right, bottom, NewCell(border.BottomRight, style))
	for x := r.X + 1; x < right; x++ {
		g.set(x, r.Y, NewCell(border.Horizontal, style))
		g.set(x, bottom, NewCell(border.Horizontal, style))
	}
	for y := r.Y + 1; y < bottom; y++ {
		g.set(r.X, y, NewCell(border.Vertical, style))
		g.set(right, y, NewCell(border.Vertical, style))
	}
}

// lineEnd returns one past the last column of row y that is not a default
// blank. Everything from there on is trimmed.
func (g *Grid) lineEnd(y int) int {
	row := g.cells[y*g.width : (y+1)*g.width]
	end := len(row)
	for end > 0 && row[end-1].isBlank() {
		end--
	}
	return end
}

// StyledLines serializes the grid row by row. An escape sequence is emitted
// only where the style changes between runs, and any row that leaves a
// non-default style active ends with a reset. Trailing default blanks are
// trimmed.
func (g *Grid) StyledLines() []string {
	lines := make([]string, g.height)
	var buf []byte
	for y := 0; y < g.height; y++ {
		buf = buf[:0]
		cur := Style{}
		end := g.lineEnd(y)
		for x := 0; x < end; x++ {
			c := g.cells[y*g.width+x]
			if c.IsContinuation() {
				continue
			}
			if c.Style != cur {
				buf = c.Style.appendSGR(buf)
				cur = c.Style
			}
			buf = utf8.AppendRune(buf, c.Rune)
		}
		if !cur.IsDefault() {
			buf = append(buf, sgrReset...)
		}
		lines[y] = string(buf)
	}
	return lines
}

// String returns the grid's text without styling, rows joined by newlines and
// trailing blanks trimmed.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		end := g.lineEnd(y)
		for x := 0; x < end; x++ {
			c := g.cells[y*g.width+x]
			if !c.IsContinuation() {
				sb.WriteRune(c.Rune)
			}
		}
	}
	return sb.String()
}

// Resize changes the grid dimensions, clearing its contents.
func (g *Grid) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if need := width * height; cap(g.cells) >= need {
		g.cells = g.cells[:need]
	} else {
		g.cells = make([]Cell, need)
	}
	g.width, g.height = width, height
	g.Clear()
}
