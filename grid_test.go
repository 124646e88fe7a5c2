package inline

import (
	"strings"
	"testing"
)

func TestGrid(t *testing.T) {
	t.Run("NewGrid", func(t *testing.T) {
		g := NewGrid(80, 24)
		if g.Width() != 80 || g.Height() != 24 {
			t.Errorf("expected 80x24, got %dx%d", g.Width(), g.Height())
		}
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				if c := g.Get(x, y); c.Rune != ' ' || c.Width != 1 {
					t.Fatalf("expected blank at (%d,%d), got %+v", x, y, c)
				}
			}
		}
	})

	t.Run("NegativeSize", func(t *testing.T) {
		g := NewGrid(-3, -1)
		if g.Width() != 0 || g.Height() != 0 {
			t.Errorf("expected 0x0, got %dx%d", g.Width(), g.Height())
		}
		if lines := g.StyledLines(); len(lines) != 0 {
			t.Errorf("expected no lines, got %q", lines)
		}
	})

	t.Run("InBounds", func(t *testing.T) {
		g := NewGrid(10, 10)
		tests := []struct {
			x, y   int
			expect bool
		}{
			{0, 0, true},
			{9, 9, true},
			{-1, 0, false},
			{0, -1, false},
			{10, 0, false},
			{0, 10, false},
		}
		for _, tt := range tests {
			if got := g.InBounds(tt.x, tt.y); got != tt.expect {
				t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		g := NewGrid(10, 10)
		cell := NewCell('X', DefaultStyle().Foreground(Red))
		g.Set(5, 5, cell)
		if got := g.Get(5, 5); got != cell {
			t.Errorf("got %+v, want %+v", got, cell)
		}
		g.Set(20, 20, cell)
		if oob := g.Get(-1, -1); oob.Rune != ' ' {
			t.Error("expected empty cell for out of bounds")
		}
	})

	t.Run("WriteText", func(t *testing.T) {
		g := NewGrid(20, 5)
		style := DefaultStyle().Foreground(Green)
		if written := g.WriteText(2, 2, "Hello", style); written != 5 {
			t.Errorf("expected 5 written, got %d", written)
		}
		for i, ch := range "Hello" {
			c := g.Get(2+i, 2)
			if c.Rune != ch || c.Style != style {
				t.Errorf("at %d: expected %q, got %q", i, ch, c.Rune)
			}
		}
	})

	t.Run("WriteTextMultiline", func(t *testing.T) {
		g := NewGrid(10, 3)
		g.WriteText(1, 0, "ab\r\ncde\nf", DefaultStyle())
		want := " ab\n cde\n f"
		if got := g.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("WriteTextClipsRightAndBottom", func(t *testing.T) {
		g := NewGrid(5, 2)
		g.WriteText(2, 1, "Hello\nWorld", DefaultStyle())
		want := "\n  Hel"
		if got := g.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("WriteTextNegativeOrigin", func(t *testing.T) {
		g := NewGrid(5, 2)
		g.WriteText(-2, -1, "skip\nabcdef", DefaultStyle())
		want := "cdef\n"
		if got := g.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("WriteTextClippedToRect", func(t *testing.T) {
		g := NewGrid(20, 5)
		g.WriteTextClipped(0, 0, "Hello World", DefaultStyle(), Rect{W: 5, H: 1})
		if g.Get(4, 0).Rune != 'o' {
			t.Error("expected 'o' at position 4")
		}
		if g.Get(5, 0).Rune != ' ' {
			t.Error("expected space at position 5")
		}
	})

	t.Run("WriteTextStripsEscapes", func(t *testing.T) {
		g := NewGrid(10, 1)
		g.WriteText(0, 0, "\x1b[31mred\x1b[0m", DefaultStyle())
		if got := g.String(); got != "red" {
			t.Errorf("expected %q, got %q", "red", got)
		}
	})

	t.Run("WideRune", func(t *testing.T) {
		g := NewGrid(6, 1)
		g.WriteText(0, 0, "a世b", DefaultStyle())
		if c := g.Get(1, 0); c.Rune != '世' || c.Width != 2 {
			t.Errorf("expected wide lead at 1, got %+v", c)
		}
		if c := g.Get(2, 0); !c.IsContinuation() {
			t.Errorf("expected continuation at 2, got %+v", c)
		}
		if c := g.Get(3, 0); c.Rune != 'b' {
			t.Errorf("expected 'b' at 3, got %q", c.Rune)
		}
		if got := g.String(); got != "a世b" {
			t.Errorf("expected %q, got %q", "a世b", got)
		}
	})

	t.Run("WideRuneAtLastColumnIsClipped", func(t *testing.T) {
		g := NewGrid(5, 1)
		g.WriteText(0, 0, "abcdz", DefaultStyle())
		g.WriteText(4, 0, "世", DefaultStyle().Foreground(Red))
		last := g.Get(4, 0)
		if last.Rune != 'z' || last.Width != 1 || !last.Style.IsDefault() {
			t.Errorf("expected column 4 untouched, got %+v", last)
		}
		if got := g.String(); got != "abcdz" {
			t.Errorf("expected %q, got %q", "abcdz", got)
		}
	})

	t.Run("OverwriteHalfOfWideRune", func(t *testing.T) {
		g := NewGrid(4, 1)
		g.WriteText(0, 0, "世界", DefaultStyle())
		g.WriteText(1, 0, "x", DefaultStyle())
		if got := g.String(); got != " x界" {
			t.Errorf("expected %q, got %q", " x界", got)
		}
		g.WriteText(2, 0, "y", DefaultStyle())
		if got := g.String(); got != " xy" {
			t.Errorf("expected %q, got %q", " xy", got)
		}
	})

	t.Run("WideOverWide", func(t *testing.T) {
		g := NewGrid(4, 1)
		g.WriteText(0, 0, "世界", DefaultStyle())
		g.WriteText(1, 0, "中", DefaultStyle())
		if got := g.String(); got != " 中" {
			t.Errorf("expected %q, got %q", " 中", got)
		}
	})

	t.Run("FillRect", func(t *testing.T) {
		g := NewGrid(20, 10)
		cell := NewCell('#', DefaultStyle().Background(Blue))
		g.FillRect(Rect{X: 5, Y: 5, W: 3, H: 2}, cell)
		for y := 5; y < 7; y++ {
			for x := 5; x < 8; x++ {
				if g.Get(x, y).Rune != '#' {
					t.Errorf("expected '#' at (%d,%d)", x, y)
				}
			}
		}
		if g.Get(4, 5).Rune != ' ' {
			t.Error("expected space outside filled area")
		}
	})

	t.Run("Resize", func(t *testing.T) {
		g := NewGrid(10, 10)
		g.WriteText(0, 0, "x", DefaultStyle())
		g.Resize(3, 2)
		if g.Width() != 3 || g.Height() != 2 {
			t.Errorf("expected 3x2, got %dx%d", g.Width(), g.Height())
		}
		if g.Get(0, 0).Rune != ' ' {
			t.Error("expected resize to clear contents")
		}
	})
}

func TestWriteRect(t *testing.T) {
	t.Run("Single", func(t *testing.T) {
		g := NewGrid(5, 3)
		g.WriteRect(Rect{W: 5, H: 3}, BorderSingle, DefaultStyle(), nil)
		want := "┌───┐\n│   │\n└───┘"
		if got := g.String(); got != want {
			t.Errorf("expected\n%s\ngot\n%s", want, got)
		}
	})

	t.Run("Glyphs", func(t *testing.T) {
		tests := []struct {
			name   string
			border BorderStyle
			corner rune
		}{
			{"rounded", BorderRounded, '╭'},
			{"double", BorderDouble, '╔'},
			{"bold", BorderBold, '┏'},
			{"classic", BorderClassic, '+'},
		}
		for _, tt := range tests {
			g := NewGrid(3, 3)
			g.WriteRect(Rect{W: 3, H: 3}, tt.border, DefaultStyle(), nil)
			if got := g.Get(0, 0).Rune; got != tt.corner {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.corner, got)
			}
		}
	})

	t.Run("TooSmallForBorder", func(t *testing.T) {
		g := NewGrid(5, 3)
		g.WriteRect(Rect{W: 1, H: 3}, BorderSingle, DefaultStyle(), nil)
		g.WriteRect(Rect{X: 2, W: 3, H: 1}, BorderSingle, DefaultStyle(), nil)
		if got := g.String(); strings.TrimSpace(got) != "" {
			t.Errorf("expected nothing drawn, got %q", got)
		}
	})

	t.Run("Fill", func(t *testing.T) {
		g := NewGrid(4, 3)
		bg := DefaultStyle().Background(Blue)
		g.WriteRect(Rect{W: 4, H: 3}, BorderSingle, DefaultStyle(), &bg)
		if c := g.Get(1, 1); c.Style != bg {
			t.Errorf("expected interior fill, got %+v", c)
		}
		if c := g.Get(0, 0); c.Rune != '┌' || c.Style != DefaultStyle() {
			t.Errorf("expected border untouched by fill, got %+v", c)
		}
	})

	t.Run("PartiallyOffGrid", func(t *testing.T) {
		g := NewGrid(3, 2)
		g.WriteRect(Rect{X: 1, Y: 0, W: 5, H: 5}, BorderSingle, DefaultStyle(), nil)
		want := " ┌─\n │"
		if got := g.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}

func TestStyledLines(t *testing.T) {
	t.Run("PlainTextHasNoEscapes", func(t *testing.T) {
		g := NewGrid(10, 2)
		g.WriteText(0, 0, "hi", DefaultStyle())
		lines := g.StyledLines()
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if lines[0] != "hi" || lines[1] != "" {
			t.Errorf("expected [\"hi\" \"\"], got %q", lines)
		}
	})

	t.Run("OneEscapePerRun", func(t *testing.T) {
		g := NewGrid(10, 1)
		red := DefaultStyle().Foreground(Red)
		g.WriteText(0, 0, "aaa", red)
		g.WriteText(3, 0, "bb", red.Bold())
		g.WriteText(5, 0, "c", DefaultStyle())
		want := "\x1b[0;31maaa\x1b[0;1;31mbb\x1b[0mc"
		if got := g.StyledLines()[0]; got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("ResetAtEndOfStyledLine", func(t *testing.T) {
		g := NewGrid(10, 1)
		g.WriteText(0, 0, "x", DefaultStyle().Background(Blue))
		want := "\x1b[0;44mx\x1b[0m"
		if got := g.StyledLines()[0]; got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("NoAdjacentDuplicateEscapes", func(t *testing.T) {
		g := NewGrid(30, 3)
		s1 := DefaultStyle().Foreground(Red)
		s2 := DefaultStyle().Foreground(PaletteColor(200)).Underline()
		s3 := DefaultStyle().Background(RGB(1, 2, 3))
		g.WriteText(0, 0, "aa", s1)
		g.WriteText(2, 0, "bb", s1)
		g.WriteText(4, 0, "cc", s2)
		g.WriteText(0, 1, "世界", s3)
		g.WriteText(4, 1, "dd", s3)
		g.WriteRect(Rect{X: 10, Y: 0, W: 5, H: 3}, BorderRounded, s2, &s1)
		for i, line := range g.StyledLines() {
			seqs := sgrSequences(line)
			for j := 1; j < len(seqs); j++ {
				if seqs[j] == seqs[j-1] {
					t.Errorf("line %d: duplicate adjacent escape %q in %q", i, seqs[j], line)
				}
			}
		}
	})

	t.Run("TrailingStyledBlanksKept", func(t *testing.T) {
		g := NewGrid(6, 1)
		bg := DefaultStyle().Background(Red)
		g.FillRect(Rect{W: 3, H: 1}, NewCell(' ', bg))
		want := "\x1b[0;41m   \x1b[0m"
		if got := g.StyledLines()[0]; got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("TrailingDefaultBlanksTrimmed", func(t *testing.T) {
		g := NewGrid(20, 1)
		g.WriteText(0, 0, "a   ", DefaultStyle())
		if got := g.StyledLines()[0]; got != "a" {
			t.Errorf("expected %q, got %q", "a", got)
		}
	})
}

// sgrSequences returns the SGR escapes in s in order.
func sgrSequences(s string) []string {
	var out []string
	for {
		i := strings.Index(s, "\x1b[")
		if i < 0 {
			return out
		}
		j := strings.IndexByte(s[i:], 'm')
		if j < 0 {
			return out
		}
		out = append(out, s[i:i+j+1])
		s = s[i+j+1:]
	}
}

func TestStyleSGR(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"default", DefaultStyle(), "\x1b[0m"},
		{"bold", DefaultStyle().Bold(), "\x1b[0;1m"},
		{"bright fg", DefaultStyle().Foreground(BrightRed), "\x1b[0;91m"},
		{"palette bg", DefaultStyle().Background(PaletteColor(17)), "\x1b[0;48;5;17m"},
		{"rgb", DefaultStyle().Foreground(RGB(255, 85, 0)), "\x1b[0;38;2;255;85;0m"},
		{"attrs", DefaultStyle().Italic().Strikethrough().Inverse(), "\x1b[0;3;7;9m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.SGR(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff5500", RGB(255, 85, 0), false},
		{"ff5500", RGB(255, 85, 0), false},
		{"#fff", RGB(255, 255, 255), false},
		{"#zzzzzz", DefaultColor(), true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 8, W: 10, H: 10}
	if got := a.Intersect(b); got != (Rect{X: 5, Y: 8, W: 5, H: 2}) {
		t.Errorf("unexpected intersection %+v", got)
	}
	if got := a.Intersect(Rect{X: 20, Y: 20, W: 1, H: 1}); !got.Empty() {
		t.Errorf("expected empty intersection, got %+v", got)
	}
}
