package inline

// Theme provides a set of styles for consistent UI appearance.
type Theme struct {
	Base   Style // default text style
	Muted  Style // de-emphasized text
	Accent Style // highlighted/important text
	Error  Style // error messages
	Border Style // border color comes from FG
	Frame  BorderStyle
}

// Pre-defined themes

// ThemeDark is a dark theme with light text on dark background.
var ThemeDark = Theme{
	Base:   Style{FG: White},
	Muted:  Style{FG: BrightBlack},
	Accent: Style{FG: BrightCyan},
	Error:  Style{FG: BrightRed},
	Border: Style{FG: BrightBlack},
	Frame:  BorderRounded,
}

// ThemeLight is a light theme with dark text on light background.
var ThemeLight = Theme{
	Base:   Style{FG: Black},
	Muted:  Style{FG: BrightBlack},
	Accent: Style{FG: Blue},
	Error:  Style{FG: Red},
	Border: Style{FG: White},
	Frame:  BorderSingle,
}

// ThemeMonochrome is a minimal theme using only attributes.
var ThemeMonochrome = Theme{
	Base:   Style{},
	Muted:  Style{Attr: AttrDim},
	Accent: Style{Attr: AttrBold},
	Error:  Style{Attr: AttrBold | AttrUnderline},
	Border: Style{Attr: AttrDim},
	Frame:  BorderClassic,
}

// ThemeHex builds a true-color theme from hex colors. muted is blended
// halfway between base and the border color.
func ThemeHex(base, accent, errColor, border string) Theme {
	b, br := Hex(base), Hex(border)
	return Theme{
		Base:   Style{FG: b},
		Muted:  Style{FG: b.Blend(br, 0.5)},
		Accent: Style{FG: Hex(accent)},
		Error:  Style{FG: Hex(errColor)},
		Border: Style{FG: br},
		Frame:  BorderRounded,
	}
}

// Text returns a leaf in the base style.
func (t Theme) Text(s string) Element { return StyledText(s, t.Base) }

// MutedText returns a leaf in the muted style.
func (t Theme) MutedText(s string) Element { return StyledText(s, t.Muted) }

// AccentText returns a leaf in the accent style.
func (t Theme) AccentText(s string) Element { return StyledText(s, t.Accent) }

// ErrorText returns a leaf in the error style.
func (t Theme) ErrorText(s string) Element { return StyledText(s, t.Error) }

// Panel wraps children in a bordered column with one cell of horizontal
// padding.
func (t Theme) Panel(layout LayoutStyle, children ...Element) Element {
	layout.Padding = Symmetric(0, 1)
	return Box(BoxProps{
		Layout:      layout,
		Border:      t.Frame,
		BorderColor: t.Border.FG,
	}, children...)
}
