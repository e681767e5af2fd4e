package terminal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Color is a cell foreground or background color.
// ColorDefault is the terminal's own default. In Output256 mode, value n in
// 1..256 addresses palette index n-1, so the base colors keep their meaning.
type Color uint16

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// Attr represents text style attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrUnderline Attr = 1 << 1
	AttrReverse   Attr = 1 << 2
)

// Style is the four-valued style of the classic termbox API
type Style uint8

const (
	StyleNormal Style = iota
	StyleBold
	StyleUnderline
	StyleBoldUnderline
)

// Attr converts a Style to its attribute bits
func (s Style) Attr() Attr {
	switch s {
	case StyleBold:
		return AttrBold
	case StyleUnderline:
		return AttrUnderline
	case StyleBoldUnderline:
		return AttrBold | AttrUnderline
	default:
		return AttrNone
	}
}

// OutputMode selects how colors are encoded in SGR sequences
type OutputMode uint8

const (
	OutputNormal OutputMode = iota // 8 base colors, SGR 30-37/40-47
	Output256                      // xterm-256 palette, SGR 38;5;n/48;5;n
)

var colorNames = [...]string{"default", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// String returns the color name for base colors and "color(n)" for palette entries
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", int(c)-1)
}

// ParseColor resolves a base color name, a palette index ("0".."255"), or any
// color name or #rrggbb value tcell knows, mapped to the nearest palette entry
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}

	if idx, err := strconv.Atoi(name); err == nil {
		if idx < 0 || idx > 255 {
			return ColorDefault, fmt.Errorf("palette index %d out of range [0, 255]", idx)
		}
		return PaletteColor(uint8(idx)), nil
	}

	tc := tcell.GetColor(name)
	if tc == tcell.ColorDefault {
		return ColorDefault, fmt.Errorf("unknown color %q", s)
	}
	r, g, b := tc.RGB()
	if r < 0 || g < 0 || b < 0 {
		return ColorDefault, fmt.Errorf("color %q has no RGB value", s)
	}
	return Color256(uint8(r), uint8(g), uint8(b)), nil
}

// PaletteColor returns the Color addressing xterm-256 palette index idx
func PaletteColor(idx uint8) Color {
	return Color(idx) + 1
}

// Color cube values for 6x6x6 palette (indices 16-231)
// Levels: 0, 95, 135, 175, 215, 255
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to nearest cube index 0-5
func cubeIndex(v uint8) uint8 {
	best := uint8(0)
	bestDist := abs(int(v) - int(cubeValues[0]))
	for j := 1; j < 6; j++ {
		d := abs(int(v) - int(cubeValues[j]))
		if d < bestDist {
			bestDist = d
			best = uint8(j)
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Color256 maps a 24-bit color to the nearest xterm-256 palette entry
func Color256(r, g, b uint8) Color {
	return PaletteColor(nearest256(r, g, b))
}

// nearest256 picks between the 6x6x6 cube and the grayscale ramp
func nearest256(r, g, b uint8) uint8 {
	cr, cg, cb := cubeIndex(r), cubeIndex(g), cubeIndex(b)
	cubeDist := abs(int(r)-int(cubeValues[cr])) +
		abs(int(g)-int(cubeValues[cg])) +
		abs(int(b)-int(cubeValues[cb]))
	cube := 16 + 36*cr + 6*cg + cb

	// Grayscale ramp: 232-255 maps to luminance 8, 18, 28, ..., 238
	gray := (int(r) + int(g) + int(b)) / 3
	maxDiff := max(abs(int(r)-gray), abs(int(g)-gray), abs(int(b)-gray))
	if maxDiff >= 10 || gray < 4 || gray > 243 {
		return cube
	}

	step := (gray - 8) / 10
	if step < 0 {
		step = 0
	}
	if step > 23 {
		step = 23
	}
	level := 8 + step*10
	grayDist := abs(int(r)-level) + abs(int(g)-level) + abs(int(b)-level)
	if grayDist < cubeDist {
		return uint8(232 + step)
	}
	return cube
}

// paletteRGB returns the RGB value of an xterm-256 cube or grayscale entry (index >= 16)
func paletteRGB(idx uint8) (r, g, b uint8) {
	if idx >= 232 {
		v := 8 + (idx-232)*10
		return v, v, v
	}
	i := idx - 16
	return cubeValues[i/36], cubeValues[(i/6)%6], cubeValues[i%6]
}

// baseColorIndex folds a palette color onto the eight base colors (0-7) for OutputNormal
func baseColorIndex(c Color) int {
	idx := uint8(int(c-1) & 0xff)
	switch {
	case idx < 8:
		return int(idx)
	case idx < 16:
		return int(idx - 8)
	}

	// ANSI base color bits: 1 red, 2 green, 4 blue
	r, g, b := paletteRGB(idx)
	n := 0
	if r >= 128 {
		n |= 1
	}
	if g >= 128 {
		n |= 2
	}
	if b >= 128 {
		n |= 4
	}
	return n
}

// DetectOutputMode determines color capability from environment
func DetectOutputMode() OutputMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return Output256
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return Output256
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "256color") ||
		strings.Contains(term, "truecolor") ||
		strings.Contains(term, "direct") {
		return Output256
	}

	return OutputNormal
}
