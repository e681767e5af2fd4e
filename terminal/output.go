// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

import (
	"bytes"

	"github.com/mattn/go-runewidth"
)

// renderer diffs the back grid against the front grid and emits the update
// as a single batched write
type renderer struct {
	mode OutputMode
	buf  bytes.Buffer

	// Physical cursor position as left by the last write
	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastFg    Color
	lastBg    Color
	lastAttr  Attr
	lastValid bool

	// Requested cursor, applied on next present
	wantX       int
	wantY       int
	wantVisible bool
	cursorDirty bool

	// Physical cursor visibility
	visible bool

	// Full screen clear scheduled ahead of the next diff
	clearPending bool
}

func newRenderer(mode OutputMode) *renderer {
	return &renderer{mode: mode}
}

// setCursor records a visible cursor position for the next present
func (r *renderer) setCursor(x, y int) {
	if r.wantVisible && r.wantX == x && r.wantY == y {
		return
	}
	r.wantX = x
	r.wantY = y
	r.wantVisible = true
	r.cursorDirty = true
}

// hideCursor records a hidden cursor for the next present
func (r *renderer) hideCursor() {
	if !r.wantVisible {
		return
	}
	r.wantVisible = false
	r.cursorDirty = true
}

// invalidate forgets all physical terminal state tracking
func (r *renderer) invalidate() {
	r.cursorValid = false
	r.lastValid = false
}

// scheduleClear requests a full clear before the next diff
func (r *renderer) scheduleClear() {
	r.clearPending = true
	r.invalidate()
}

// present writes the difference between back and front to out.
// Nothing dirty means zero writes. On success front becomes a copy of back;
// on failure front is left untouched so the next present resends the diff.
func (r *renderer) present(cb *CellBuffer, out Backend) error {
	w := &r.buf
	w.Reset()

	if r.clearPending {
		w.Write(csiSGR0)
		w.Write(csiClear)
		r.cursorValid = false
		r.lastValid = false
	}

	width, height := cb.width, cb.height
	front, back := cb.front, cb.back
	cellsWritten := false

	for y := 0; y < height; y++ {
		rowStart := y * width
		x := 0
		// Cells under a wide rune that is being replaced must be redrawn
		redrawUntil := 0

		for x < width {
			idx := rowStart + x
			c := back[idx]

			if c == front[idx] && x >= redrawUntil {
				x++
				continue
			}
			redrawUntil = max(redrawUntil, x+shadowWidth(front[idx]))

			if !r.cursorValid || x != r.cursorX || y != r.cursorY {
				writeCursorPos(w, x, y)
				r.cursorX = x
				r.cursorY = y
				r.cursorValid = true
			}

			if !r.lastValid || c.Fg != r.lastFg || c.Bg != r.lastBg || c.Attrs != r.lastAttr {
				writeSGR(w, r.mode, c.Fg, c.Bg, c.Attrs)
				r.lastFg = c.Fg
				r.lastBg = c.Bg
				r.lastAttr = c.Attrs
				r.lastValid = true
			}

			rn := printableRune(c.Rune)
			cols := runewidth.RuneWidth(rn)
			if cols > 1 && x+cols > width {
				// No room for the right half at the edge
				rn, cols = ' ', 1
			}
			if rn < 0x80 {
				w.WriteByte(byte(rn))
			} else {
				w.WriteRune(rn)
			}
			cellsWritten = true

			switch {
			case cols <= 0:
				// Zero-width rune: terminal column advance is unknown
				r.cursorValid = false
				x++
			case cols > 1:
				// Wide rune covers the following cell(s) on screen; whatever they
				// showed before is gone, including halves of other wide runes
				for i := 1; i < cols; i++ {
					redrawUntil = max(redrawUntil, x+i+shadowWidth(front[idx+i]))
				}
				r.cursorX += cols
				x += cols
			default:
				r.cursorX++
				x++
			}
		}
	}

	if cellsWritten {
		w.Write(csiSGR0)
		r.lastValid = false
	}

	visible := r.visible
	if r.wantVisible != visible {
		if r.wantVisible {
			w.Write(csiCursorShow)
		} else {
			w.Write(csiCursorHide)
		}
		visible = r.wantVisible
	}
	if r.wantVisible && (cellsWritten || r.cursorDirty || r.clearPending) {
		writeCursorPos(w, r.wantX, r.wantY)
		r.cursorX = r.wantX
		r.cursorY = r.wantY
		r.cursorValid = true
	}

	if w.Len() == 0 {
		r.cursorDirty = false
		return nil
	}

	if err := out.Write(w.Bytes()); err != nil {
		r.invalidate()
		return &IOError{Op: "present", Err: err}
	}

	r.visible = visible
	r.cursorDirty = false
	r.clearPending = false
	cb.commit()
	return nil
}

// shadowWidth returns how many columns a front cell occupied on screen
func shadowWidth(c Cell) int {
	if c.Rune <= 0 {
		return 1
	}
	return max(runewidth.RuneWidth(c.Rune), 1)
}

// printableRune maps runes the terminal would interpret as controls to a space
func printableRune(rn rune) rune {
	switch {
	case rn == WideTail:
		return ' '
	case rn < 0, rn > 0x10ffff:
		return 0xfffd
	case rn < 0x20, rn == 0x7f:
		return ' '
	case rn >= 0x80 && rn < 0xa0:
		return ' '
	}
	return rn
}
