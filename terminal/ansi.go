// @focus: #terminal { ansi }
package terminal

import (
	"bytes"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	// CSI sequences
	csi      = []byte("\x1b[")
	csiSGR0  = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J")
	csiHome  = []byte("\x1b[H")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: Auto-Wrap Mode
	// ?7l disables wrapping (cursor sticks at right edge), preventing scroll when writing to bottom-right corner
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Save cursor, jump far bottom-right, request cursor position report, restore cursor
	seqSizeProbe = []byte("\x1b7\x1b[999;999H\x1b[6n\x1b8")
)

// SGR parameter codes
const (
	sgrBold      = 1
	sgrUnderline = 4
	sgrReverse   = 7
	sgrFgBase    = 30
	sgrFgDefault = 39
	sgrBgBase    = 40
	sgrBgDefault = 49
)

// writeInt writes a non-negative integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bytes.Buffer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	// Fallback for >999 (rare)
	var buf [10]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bytes.Buffer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeSGR writes one complete SGR sequence that resets and then applies attrs and both colors
func writeSGR(w *bytes.Buffer, mode OutputMode, fg, bg Color, attrs Attr) {
	w.Write(csi)
	w.WriteByte('0')

	if attrs&AttrBold != 0 {
		w.WriteByte(';')
		writeInt(w, sgrBold)
	}
	if attrs&AttrUnderline != 0 {
		w.WriteByte(';')
		writeInt(w, sgrUnderline)
	}
	if attrs&AttrReverse != 0 {
		w.WriteByte(';')
		writeInt(w, sgrReverse)
	}

	writeColor(w, mode, fg, sgrFgBase, sgrFgDefault, "38;5;")
	writeColor(w, mode, bg, sgrBgBase, sgrBgDefault, "48;5;")

	w.WriteByte('m')
}

// writeColor writes ";<param>" for one color slot
func writeColor(w *bytes.Buffer, mode OutputMode, c Color, base, def int, palettePrefix string) {
	w.WriteByte(';')
	switch {
	case c == ColorDefault:
		writeInt(w, def)
	case mode == Output256:
		w.WriteString(palettePrefix)
		writeInt(w, int(c-1)&0xff)
	default:
		writeInt(w, base+baseColorIndex(c))
	}
}
