package terminal

import (
	"bytes"
	"io"
	"log/slog"
	"time"

	"github.com/mattn/go-runewidth"
)

// Options configures a Terminal. The zero value drives /dev/tty with defaults.
type Options struct {
	// Backend overrides the device; nil opens a TTYBackend on TTYPath
	Backend Backend
	TTYPath string

	// EscapeDelay bounds the wait for escape sequence continuation bytes; 0 selects DefaultEscapeDelay
	EscapeDelay time.Duration
	InputMode   InputMode
	OutputMode  OutputMode

	// KeySequences adds or overrides escape sequences recognized by the decoder
	KeySequences map[string]Key

	// Colors used by ClearDefault
	ClearFg Color
	ClearBg Color

	Logger *slog.Logger
}

// Terminal owns the device, the cell buffer and the input decoder.
// It is not safe for concurrent use.
type Terminal struct {
	opts    Options
	backend Backend
	logger  *slog.Logger

	cells  *CellBuffer
	render *renderer
	dec    *decoder

	readBuf  []byte
	escDelay time.Duration
	clearFg  Color
	clearBg  Color

	initialized bool
}

// New creates an uninitialized Terminal
func New(opts Options) *Terminal {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	escDelay := opts.EscapeDelay
	if escDelay <= 0 {
		escDelay = DefaultEscapeDelay
	}

	return &Terminal{
		opts:     opts,
		backend:  opts.Backend,
		logger:   logger,
		readBuf:  make([]byte, 4096),
		escDelay: escDelay,
		clearFg:  opts.ClearFg,
		clearBg:  opts.ClearBg,
	}
}

// Init enters raw mode and the alternate screen, sizes the buffers and clears the screen.
// Calling Init on an initialized Terminal is a no-op.
func (t *Terminal) Init() error {
	if t.initialized {
		return nil
	}
	if t.backend == nil {
		t.backend = NewTTYBackend(t.opts.TTYPath)
	}

	if err := t.backend.EnterRawMode(); err != nil {
		return &InitError{Op: "raw mode", Err: err}
	}

	w, h, err := t.backend.Size()
	if err != nil {
		t.restore()
		return &InitError{Op: "size", Err: err}
	}

	t.cells = NewCellBuffer(w, h)
	t.render = newRenderer(t.opts.OutputMode)
	t.dec = newDecoder(t.buildKeyTable(), t.opts.InputMode, t.logger)

	var buf bytes.Buffer
	buf.Write(csiAltScreenEnter)
	buf.Write(csiCursorHide)
	// Prevents scroll on bottom-right corner write
	buf.Write(csiAutoWrapOff)
	buf.Write(csiSGR0)
	buf.Write(csiClear)
	buf.Write(csiHome)
	if err := t.backend.Write(buf.Bytes()); err != nil {
		t.restore()
		return &InitError{Op: "setup", Err: err}
	}

	// Non-default clear colors are painted by the first present
	t.cells.Clear(t.clearFg, t.clearBg)

	t.initialized = true
	t.logger.Debug("terminal initialized", "width", w, "height", h)
	return nil
}

// buildKeyTable merges builtin, xterm modified and user sequences, later groups winning
func (t *Terminal) buildKeyTable() *keyTable {
	groups := [][]escapeSequence{builtinSequences, modifiedSequences()}
	if len(t.opts.KeySequences) > 0 {
		user := make([]escapeSequence, 0, len(t.opts.KeySequences))
		for seq, k := range t.opts.KeySequences {
			if len(seq) < 2 || seq[0] != 0x1b {
				t.logger.Debug("ignoring key sequence without ESC prefix", "seq", seq)
				continue
			}
			user = append(user, escapeSequence{seq: seq, key: k})
		}
		groups = append(groups, user)
	}
	return newKeyTable(groups...)
}

func (t *Terminal) restore() {
	if err := t.backend.RestoreMode(); err != nil {
		t.logger.Debug("restore mode failed", "error", err)
	}
}

// Shutdown restores the terminal to the state before Init.
// Never fails; calling it again or before Init does nothing.
func (t *Terminal) Shutdown() {
	if !t.initialized {
		return
	}
	t.initialized = false

	var buf bytes.Buffer
	buf.Write(csiCursorShow)
	buf.Write(csiSGR0)
	buf.Write(csiClear)
	buf.Write(csiAltScreenExit)
	// Re-enable after leaving the alternate screen so the main buffer wraps
	buf.Write(csiAutoWrapOn)
	if err := t.backend.Write(buf.Bytes()); err != nil {
		t.logger.Debug("shutdown write failed", "error", err)
	}

	t.restore()
	t.dec.reset()
	t.cells = nil
	t.logger.Debug("terminal shut down")
}

// Width returns the buffer width, 0 when not initialized
func (t *Terminal) Width() int {
	if !t.initialized {
		return 0
	}
	return t.cells.width
}

// Height returns the buffer height, 0 when not initialized
func (t *Terminal) Height() int {
	if !t.initialized {
		return 0
	}
	return t.cells.height
}

// CellBuffer exposes the cell grids for bulk writes, nil when not initialized
func (t *Terminal) CellBuffer() *CellBuffer {
	if !t.initialized {
		return nil
	}
	return t.cells
}

// Clear fills the back buffer with spaces in the given colors
func (t *Terminal) Clear(fg, bg Color) {
	if !t.initialized {
		return
	}
	t.cells.Clear(fg, bg)
}

// SetClearAttributes sets the colors used by ClearDefault
func (t *Terminal) SetClearAttributes(fg, bg Color) {
	t.clearFg = fg
	t.clearBg = bg
}

// ClearDefault clears the back buffer with the colors from SetClearAttributes
func (t *Terminal) ClearDefault() {
	t.Clear(t.clearFg, t.clearBg)
}

// SetCell writes one cell into the back buffer; out-of-bounds positions are ignored
func (t *Terminal) SetCell(x, y int, r rune, attrs Attr, fg, bg Color) {
	if !t.initialized {
		return
	}
	t.cells.SetCell(x, y, Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs})
}

// Print writes text left to right from (x, y), one cell per code point plus a
// WideTail cell for each extra column of a wide rune.
// Text does not wrap; cells past the right edge are dropped.
func (t *Terminal) Print(x, y int, attrs Attr, fg, bg Color, text string) {
	if !t.initialized || y < 0 || y >= t.cells.height {
		return
	}
	for _, r := range text {
		if x >= t.cells.width {
			return
		}
		t.cells.SetCell(x, y, Cell{Rune: r, Fg: fg, Bg: bg, Attrs: attrs})
		x++
		// Wide runes take their covered columns; a tail past the edge is dropped
		for w := runewidth.RuneWidth(r); w > 1; w-- {
			t.cells.SetCell(x, y, Cell{Rune: WideTail, Fg: fg, Bg: bg, Attrs: attrs})
			x++
		}
	}
}

// SetCursor shows the cursor at (x, y) on the next present; negative coordinates hide it
func (t *Terminal) SetCursor(x, y int) {
	if !t.initialized {
		return
	}
	if x < 0 || y < 0 {
		t.render.hideCursor()
		return
	}
	t.render.setCursor(x, y)
}

// HideCursor hides the cursor on the next present
func (t *Terminal) HideCursor() {
	if !t.initialized {
		return
	}
	t.render.hideCursor()
}

// SetInputMode selects how unmatched ESC bytes are reported
func (t *Terminal) SetInputMode(mode InputMode) {
	t.opts.InputMode = mode
	if t.initialized {
		t.dec.mode = mode
	}
}

// SetOutputMode switches the color encoding; the next present redraws every cell
func (t *Terminal) SetOutputMode(mode OutputMode) {
	t.opts.OutputMode = mode
	if !t.initialized || t.render.mode == mode {
		return
	}
	t.render.mode = mode
	t.render.invalidate()
	t.cells.invalidateFront()
}

// Present writes every cell changed since the last present in one write
func (t *Terminal) Present() error {
	if !t.initialized {
		return ErrNotInitialized
	}
	if err := t.render.present(t.cells, t.backend); err != nil {
		t.logger.Debug("present failed", "error", err)
		return err
	}
	return nil
}

// Sync clears the screen and redraws every cell
func (t *Terminal) Sync() error {
	if !t.initialized {
		return ErrNotInitialized
	}
	t.cells.invalidateFront()
	t.render.scheduleClear()
	return t.Present()
}

// PollEvent blocks until a key, resize or error event is available
func (t *Terminal) PollEvent() Event {
	return t.waitEvent(BlockForever)
}

// PeekEvent waits at most timeout for an event; EventNone when nothing arrived.
// A zero timeout only decodes what is already available.
func (t *Terminal) PeekEvent(timeout time.Duration) Event {
	if timeout < 0 {
		timeout = 0
	}
	return t.waitEvent(timeout)
}

// waitEvent runs the resize check, decode and read cycle until an event or the deadline
func (t *Terminal) waitEvent(timeout time.Duration) Event {
	if !t.initialized {
		return Event{Type: EventError, Err: ErrNotInitialized}
	}

	block := timeout < 0
	deadline := time.Now().Add(timeout)

	for {
		// Resize takes priority over buffered keys
		if t.backend.ResizePending() {
			return t.applyResize()
		}

		now := time.Now()
		expired := t.dec.expired(now, t.escDelay)
		if expired {
			// Continuation bytes might already sit in the kernel buffer
			n, err := t.backend.Read(t.readBuf, 0)
			if err != nil {
				return Event{Type: EventError, Err: &IOError{Op: "read", Err: err}}
			}
			if n > 0 {
				t.dec.feed(t.readBuf[:n])
			}
		}
		if ev, ok := t.dec.next(expired); ok {
			return ev
		}

		wait := BlockForever
		if !block {
			wait = time.Until(deadline)
			if wait < 0 {
				wait = 0
			}
		}
		if t.dec.pending() {
			t.dec.startWait(now)
			if left := t.dec.remaining(now, t.escDelay); wait < 0 || left < wait {
				wait = left
			}
		}

		n, err := t.backend.Read(t.readBuf, wait)
		if err != nil {
			t.logger.Debug("read failed", "error", err)
			return Event{Type: EventError, Err: &IOError{Op: "read", Err: err}}
		}
		if n > 0 {
			t.dec.feed(t.readBuf[:n])
			continue
		}

		if t.dec.pending() && t.dec.expired(time.Now(), t.escDelay) {
			continue
		}
		if !block && !time.Now().Before(deadline) {
			return Event{Type: EventNone}
		}
	}
}

// applyResize reallocates the buffers to the current device size and schedules a clear
func (t *Terminal) applyResize() Event {
	w, h, err := t.backend.Size()
	if err != nil {
		t.logger.Debug("size query after resize failed", "error", err)
		w, h = t.cells.Size()
	}
	t.cells.Resize(w, h)
	t.render.scheduleClear()
	t.logger.Debug("terminal resized", "width", w, "height", h)
	return Event{Type: EventResize, Width: w, Height: h}
}
