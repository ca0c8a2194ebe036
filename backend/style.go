package backend

// Color is a terminal color. Values 0-255 are palette indexes; RGB colors
// carry colorRGB in the high bits.
type Color int32

const (
	// ColorDefault leaves the terminal's own color in place.
	ColorDefault Color = -1

	colorRGB Color = 1 << 24
)

// Palette colors shared by the widgets.
const (
	ColorBlack Color = iota
	ColorMaroon
	ColorGreen
	ColorOlive
	ColorNavy
	ColorPurple
	ColorTeal
	ColorSilver
	ColorGray
	ColorRed
	ColorLime
	ColorYellow
	ColorBlue
	ColorFuchsia
	ColorAqua
	ColorWhite
)

// ColorRGB builds a true-color value.
func ColorRGB(r, g, b uint8) Color {
	return colorRGB | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsRGB reports whether c is a true-color value.
func (c Color) IsRGB() bool {
	return c >= 0 && c&colorRGB != 0
}

// RGB returns the components of a true-color value.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16 & 0xff), uint8(c >> 8 & 0xff), uint8(c & 0xff)
}

// AttrMask is a set of text attributes.
type AttrMask uint8

const (
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Style is a comparable cell style.
type Style struct {
	FG    Color
	BG    Color
	Attrs AttrMask
}

// DefaultStyle uses the terminal's colors with no attributes.
func DefaultStyle() Style {
	return Style{FG: ColorDefault, BG: ColorDefault}
}

// Foreground returns s with the foreground set.
func (s Style) Foreground(c Color) Style {
	s.FG = c
	return s
}

// Background returns s with the background set.
func (s Style) Background(c Color) Style {
	s.BG = c
	return s
}

// Bold returns s with bold toggled.
func (s Style) Bold(on bool) Style {
	return s.attr(AttrBold, on)
}

// Dim returns s with dim toggled.
func (s Style) Dim(on bool) Style {
	return s.attr(AttrDim, on)
}

// Italic returns s with italic toggled.
func (s Style) Italic(on bool) Style {
	return s.attr(AttrItalic, on)
}

// Underline returns s with underline toggled.
func (s Style) Underline(on bool) Style {
	return s.attr(AttrUnderline, on)
}

// Reverse returns s with reverse video toggled.
func (s Style) Reverse(on bool) Style {
	return s.attr(AttrReverse, on)
}

// Has reports whether every attribute in a is set.
func (s Style) Has(a AttrMask) bool {
	return s.Attrs&a == a
}

func (s Style) attr(a AttrMask, on bool) Style {
	if on {
		s.Attrs |= a
	} else {
		s.Attrs &^= a
	}
	return s
}
