// Package inline renders reactive component trees into the terminal without
// taking over the screen. Output stays in normal scrollback and only the rows
// the runtime itself wrote are ever rewritten.
package inline

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text styling attributes that can be combined.
type Attribute uint16

const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << (iota - 1)
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrHidden
	AttrStrikethrough
)

// sgr codes in bit order
var attrCodes = [...]struct {
	attr Attribute
	code string
}{
	{AttrBold, "1"},
	{AttrDim, "2"},
	{AttrItalic, "3"},
	{AttrUnderline, "4"},
	{AttrBlink, "5"},
	{AttrInverse, "7"},
	{AttrHidden, "8"},
	{AttrStrikethrough, "9"},
}

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// ColorMode represents the color mode for a color value.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota // Terminal default
	Color16                       // Basic 16 colors (0-15)
	Color256                      // 256 color palette (0-255)
	ColorRGB                      // 24-bit true color
)

// Color represents a terminal color. The zero value is the terminal default.
type Color struct {
	Mode    ColorMode
	R, G, B uint8 // For RGB mode
	Index   uint8 // For 16/256 mode
}

// DefaultColor returns the terminal's default color.
func DefaultColor() Color {
	return Color{Mode: ColorDefault}
}

// BasicColor returns one of the 16 basic terminal colors.
func BasicColor(index uint8) Color {
	return Color{Mode: Color16, Index: index & 0x0F}
}

// PaletteColor returns one of the 256 palette colors.
func PaletteColor(index uint8) Color {
	return Color{Mode: Color256, Index: index}
}

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// ParseHex parses "#rrggbb" (or "#rgb") into a true color.
func ParseHex(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return DefaultColor(), fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// Hex is ParseHex for literals; an invalid value yields the default color.
func Hex(s string) Color {
	c, _ := ParseHex(s)
	return c
}

// Blend mixes two true colors in Lab space. t=0 gives c, t=1 gives other.
// Non-RGB colors are returned unchanged.
func (c Color) Blend(other Color, t float64) Color {
	if c.Mode != ColorRGB || other.Mode != ColorRGB {
		return c
	}
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	r, g, bl := a.BlendLab(b, t).Clamped().RGB255()
	return RGB(r, g, bl)
}

// Standard basic colors for convenience.
var (
	Black   = BasicColor(0)
	Red     = BasicColor(1)
	Green   = BasicColor(2)
	Yellow  = BasicColor(3)
	Blue    = BasicColor(4)
	Magenta = BasicColor(5)
	Cyan    = BasicColor(6)
	White   = BasicColor(7)

	BrightBlack   = BasicColor(8)
	BrightRed     = BasicColor(9)
	BrightGreen   = BasicColor(10)
	BrightYellow  = BasicColor(11)
	BrightBlue    = BasicColor(12)
	BrightMagenta = BasicColor(13)
	BrightCyan    = BasicColor(14)
	BrightWhite   = BasicColor(15)
)

// Style combines foreground, background colors and attributes.
// The zero value is the terminal's default style.
type Style struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// DefaultStyle returns a style with default colors and no attributes.
func DefaultStyle() Style {
	return Style{}
}

// Foreground returns a new style with the given foreground color.
func (s Style) Foreground(c Color) Style {
	s.FG = c
	return s
}

// Background returns a new style with the given background color.
func (s Style) Background(c Color) Style {
	s.BG = c
	return s
}

// With returns a new style with the given attributes added.
func (s Style) With(attr Attribute) Style {
	s.Attr = s.Attr.With(attr)
	return s
}

func (s Style) Bold() Style          { return s.With(AttrBold) }
func (s Style) Dim() Style           { return s.With(AttrDim) }
func (s Style) Italic() Style        { return s.With(AttrItalic) }
func (s Style) Underline() Style     { return s.With(AttrUnderline) }
func (s Style) Inverse() Style       { return s.With(AttrInverse) }
func (s Style) Strikethrough() Style { return s.With(AttrStrikethrough) }

// IsDefault reports whether the style renders as plain terminal text.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// appendSGR appends the escape sequence that switches the terminal from any
// state into s. It always starts from a reset so attributes never leak
// between runs.
func (s Style) appendSGR(b []byte) []byte {
	if s.IsDefault() {
		return append(b, sgrReset...)
	}
	b = append(b, "\x1b[0"...)
	for _, ac := range attrCodes {
		if s.Attr.Has(ac.attr) {
			b = append(b, ';')
			b = append(b, ac.code...)
		}
	}
	b = s.FG.appendSGR(b, true)
	b = s.BG.appendSGR(b, false)
	return append(b, 'm')
}

// appendSGR writes the colour parameters, leading ';' included.
// Default colours write nothing since the sequence starts with a reset.
func (c Color) appendSGR(b []byte, fg bool) []byte {
	switch c.Mode {
	case Color16:
		base := 30
		if !fg {
			base = 40
		}
		idx := int(c.Index)
		if idx >= 8 {
			base += 60
			idx -= 8
		}
		b = append(b, ';')
		b = appendInt(b, base+idx)
	case Color256:
		if fg {
			b = append(b, ";38;5;"...)
		} else {
			b = append(b, ";48;5;"...)
		}
		b = appendInt(b, int(c.Index))
	case ColorRGB:
		if fg {
			b = append(b, ";38;2;"...)
		} else {
			b = append(b, ";48;2;"...)
		}
		b = appendInt(b, int(c.R))
		b = append(b, ';')
		b = appendInt(b, int(c.G))
		b = append(b, ';')
		b = appendInt(b, int(c.B))
	}
	return b
}

// SGR returns the escape sequence for the style.
func (s Style) SGR() string {
	var scratch [48]byte
	return string(s.appendSGR(scratch[:0]))
}

const sgrReset = "\x1b[0m"

// appendInt appends an integer to a byte slice without allocation.
func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	if n < 0 {
		b = append(b, '-')
		n = -n
	}
	var scratch [20]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, scratch[i:]...)
}

// Cell is one column of the output grid.
//
// Width is 1 for ordinary runes and 2 for the leading half of a wide rune.
// The column after a wide rune holds a continuation cell with Width 0 and
// Rune 0; it is never serialized.
type Cell struct {
	Rune  rune
	Width uint8
	Style Style
}

// EmptyCell returns a cell with a space and default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1}
}

// NewCell creates a single-column cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: 1, Style: style}
}

// IsContinuation reports whether the cell is the right half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// isBlank reports whether the cell is indistinguishable from untouched space.
func (c Cell) isBlank() bool {
	return c.Rune == ' ' && c.Width == 1 && c.Style.IsDefault()
}

// Rect is an axis-aligned box in terminal cells.
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the first column past the rect.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int { return r.Y + r.H }

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersect returns the overlap of r and o; the result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}
