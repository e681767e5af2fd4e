package terminal

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestTerminal(t *testing.T, w, h int) (*Terminal, *VirtualBackend) {
	t.Helper()
	vb := NewVirtualBackend(w, h)
	term := New(Options{Backend: vb})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	vb.Reset()
	return term, vb
}

func TestInit_Sequences(t *testing.T) {
	vb := NewVirtualBackend(10, 4)
	term := New(Options{Backend: vb})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Shutdown()

	if !vb.IsRawMode() {
		t.Error("expected raw mode after Init")
	}
	if term.Width() != 10 || term.Height() != 4 {
		t.Errorf("size = %dx%d, want 10x4", term.Width(), term.Height())
	}

	out := vb.Output()
	alt := strings.Index(out, "\x1b[?1049h")
	hide := strings.Index(out, "\x1b[?25l")
	wrap := strings.Index(out, "\x1b[?7l")
	clear := strings.Index(out, "\x1b[2J")
	if alt != 0 {
		t.Errorf("output should start with alternate screen enter, got %q", out)
	}
	if !(alt < hide && hide < wrap && wrap < clear) {
		t.Errorf("unexpected init order in %q", out)
	}
}

func TestInit_NotTerminal(t *testing.T) {
	vb := NewVirtualBackend(10, 4)
	vb.FailEnter(ErrNotTerminal)
	term := New(Options{Backend: vb})

	err := term.Init()
	if err == nil {
		t.Fatal("expected Init error")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected *InitError, got %T", err)
	}
	if !errors.Is(err, ErrNotTerminal) {
		t.Errorf("expected ErrNotTerminal in chain, got %v", err)
	}
	if vb.Writes() != 0 {
		t.Errorf("expected no output on failed Init, got %d writes", vb.Writes())
	}
}

func TestNotInitialized(t *testing.T) {
	vb := NewVirtualBackend(10, 4)
	term := New(Options{Backend: vb})

	if err := term.Present(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Present = %v, want ErrNotInitialized", err)
	}
	if err := term.Sync(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Sync = %v, want ErrNotInitialized", err)
	}
	ev := term.PeekEvent(0)
	if ev.Type != EventError || !errors.Is(ev.Err, ErrNotInitialized) {
		t.Errorf("PeekEvent = %v, want not-initialized error", ev)
	}
	if term.Width() != 0 || term.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", term.Width(), term.Height())
	}

	// Mutations are ignored
	term.SetCell(0, 0, 'x', AttrNone, ColorDefault, ColorDefault)
	term.Print(0, 0, AttrNone, ColorDefault, ColorDefault, "abc")
	term.Clear(ColorRed, ColorRed)
	term.SetCursor(1, 1)
	term.Shutdown()

	if vb.Writes() != 0 {
		t.Errorf("expected no writes, got %d", vb.Writes())
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)

	term.Shutdown()
	term.Shutdown()

	if vb.IsRawMode() {
		t.Error("raw mode still active after Shutdown")
	}
	if vb.EnterCount() != 1 || vb.ExitCount() != 1 {
		t.Errorf("enter/exit = %d/%d, want 1/1", vb.EnterCount(), vb.ExitCount())
	}
	if n := strings.Count(vb.Output(), "\x1b[?1049l"); n != 1 {
		t.Errorf("alternate screen exit written %d times, want 1", n)
	}

	out := vb.Output()
	show := strings.Index(out, "\x1b[?25h")
	sgr := strings.Index(out, "\x1b[0m")
	clear := strings.Index(out, "\x1b[2J")
	exit := strings.Index(out, "\x1b[?1049l")
	wrap := strings.Index(out, "\x1b[?7h")
	if !(show >= 0 && show < sgr && sgr < clear && clear < exit && exit < wrap) {
		t.Errorf("unexpected shutdown order in %q", out)
	}

	if err := term.Present(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Present after Shutdown = %v, want ErrNotInitialized", err)
	}
}

func TestShutdown_WriteFailureIgnored(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	vb.FailWrites(errors.New("broken pipe"))

	term.Shutdown()

	if vb.IsRawMode() {
		t.Error("raw mode should be restored even when writes fail")
	}
}

func TestPresent_RoundTrip(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	term.SetCell(2, 1, 'x', AttrUnderline, ColorRed, ColorDefault)
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	want := Cell{Rune: 'x', Fg: ColorRed, Attrs: AttrUnderline}
	if got := term.CellBuffer().Front()[1*10+2]; got != want {
		t.Errorf("front cell = %+v, want %+v", got, want)
	}

	out := vb.Output()
	if !strings.Contains(out, "\x1b[2;3H") {
		t.Errorf("missing cursor position in %q", out)
	}
	if !strings.Contains(out, "\x1b[0;4;31;49mx") {
		t.Errorf("missing styled cell in %q", out)
	}
	if vb.Writes() != 1 {
		t.Errorf("present used %d writes, want 1", vb.Writes())
	}
}

func TestPresent_UnchangedWritesNothing(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	term.Print(0, 0, AttrNone, ColorGreen, ColorDefault, "abc")
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	vb.Reset()

	if err := term.Present(); err != nil {
		t.Fatalf("second Present failed: %v", err)
	}
	if vb.Writes() != 0 {
		t.Errorf("unchanged present wrote %d times: %q", vb.Writes(), vb.Output())
	}
}

func TestPresent_HiScenario(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 3)
	defer term.Shutdown()

	term.Print(0, 0, AttrBold, ColorWhite, ColorDefault, "Hi")
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	want := "\x1b[1;1H\x1b[0;1;37;49mHi\x1b[0m"
	if got := vb.Output(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPresent_FailureResends(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	term.SetCell(0, 0, 'z', AttrNone, ColorDefault, ColorDefault)
	vb.FailWrites(errors.New("EIO"))

	err := term.Present()
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Present = %v, want *IOError", err)
	}
	if got := term.CellBuffer().Front()[0]; got.Rune != ' ' {
		t.Errorf("front changed after failed present: %+v", got)
	}

	vb.FailWrites(nil)
	vb.Reset()
	if err := term.Present(); err != nil {
		t.Fatalf("Present after recovery failed: %v", err)
	}
	if !strings.Contains(vb.Output(), "z") {
		t.Errorf("diff not resent: %q", vb.Output())
	}
}

func TestSetCell_OutOfBounds(t *testing.T) {
	term, vb := newTestTerminal(t, 5, 3)
	defer term.Shutdown()

	positions := []struct{ x, y int }{{-1, 0}, {0, -1}, {5, 0}, {0, 3}, {100, 100}}
	for _, p := range positions {
		term.SetCell(p.x, p.y, 'x', AttrNone, ColorRed, ColorRed)
	}

	for i, c := range term.CellBuffer().Back() {
		if c != BlankCell() {
			t.Fatalf("cell %d modified: %+v", i, c)
		}
	}
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if vb.Writes() != 0 {
		t.Errorf("expected no writes, got %q", vb.Output())
	}
}

func TestPrint_Clips(t *testing.T) {
	term, _ := newTestTerminal(t, 5, 2)
	defer term.Shutdown()

	term.Print(3, 0, AttrNone, ColorDefault, ColorDefault, "abcdef")
	term.Print(0, 5, AttrNone, ColorDefault, ColorDefault, "never")

	cb := term.CellBuffer()
	if cb.Get(3, 0).Rune != 'a' || cb.Get(4, 0).Rune != 'b' {
		t.Errorf("row 0 = %q%q", cb.Get(3, 0).Rune, cb.Get(4, 0).Rune)
	}
	if cb.Get(0, 1).Rune != ' ' {
		t.Errorf("text wrapped to next row: %q", cb.Get(0, 1).Rune)
	}
}

func TestPrint_WideRunes(t *testing.T) {
	term, vb := newTestTerminal(t, 6, 1)
	defer term.Shutdown()

	term.Print(0, 0, AttrNone, ColorDefault, ColorDefault, "世界")
	cb := term.CellBuffer()
	wantRunes := []rune{'世', WideTail, '界', WideTail, ' ', ' '}
	for x, want := range wantRunes {
		if got := cb.Get(x, 0).Rune; got != want {
			t.Errorf("cell %d = %q, want %q", x, got, want)
		}
	}

	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if got, want := vb.Output(), "\x1b[1;1H\x1b[0;39;49m世界\x1b[0m"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	vb.Reset()
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if vb.Writes() != 0 {
		t.Errorf("unchanged present wrote %q", vb.Output())
	}

	// Narrow text over the wide pair repaints both columns of the first rune
	term.Print(0, 0, AttrNone, ColorDefault, ColorDefault, "ab")
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if got, want := vb.Output(), "\x1b[1;1H\x1b[0;39;49mab\x1b[0m"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrint_WideRuneClippedAtEdge(t *testing.T) {
	term, _ := newTestTerminal(t, 3, 1)
	defer term.Shutdown()

	term.Print(1, 0, AttrNone, ColorDefault, ColorDefault, "世界")

	cb := term.CellBuffer()
	if cb.Get(1, 0).Rune != '世' || cb.Get(2, 0).Rune != WideTail {
		t.Errorf("cells = %q %q, want wide rune and tail", cb.Get(1, 0).Rune, cb.Get(2, 0).Rune)
	}
	if cb.Get(0, 0).Rune != ' ' {
		t.Errorf("cell 0 modified: %q", cb.Get(0, 0).Rune)
	}
}

func TestCursor(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	term.SetCursor(3, 2)
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if got := vb.Output(); got != "\x1b[?25h\x1b[3;4H" {
		t.Errorf("output = %q", got)
	}

	vb.Reset()
	term.SetCursor(3, 2)
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if vb.Writes() != 0 {
		t.Errorf("unchanged cursor wrote %q", vb.Output())
	}

	vb.Reset()
	term.HideCursor()
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if got := vb.Output(); got != "\x1b[?25l" {
		t.Errorf("output = %q", got)
	}
}

func TestSync_RedrawsEverything(t *testing.T) {
	term, vb := newTestTerminal(t, 3, 1)
	defer term.Shutdown()

	term.Print(0, 0, AttrNone, ColorDefault, ColorDefault, "abc")
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	vb.Reset()

	if err := term.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	out := vb.Output()
	if !strings.HasPrefix(out, "\x1b[0m\x1b[2J") {
		t.Errorf("sync should start with a clear: %q", out)
	}
	if !strings.Contains(out, "abc") {
		t.Errorf("sync did not redraw cells: %q", out)
	}
}

func TestSetOutputMode_256(t *testing.T) {
	term, vb := newTestTerminal(t, 4, 1)
	defer term.Shutdown()

	term.SetOutputMode(Output256)
	term.SetCell(0, 0, '#', AttrNone, PaletteColor(196), PaletteColor(17))
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.Contains(vb.Output(), "\x1b[0;38;5;196;48;5;17m#") {
		t.Errorf("missing 256-color SGR in %q", vb.Output())
	}
}

func TestClearDefault(t *testing.T) {
	term, _ := newTestTerminal(t, 3, 2)
	defer term.Shutdown()

	term.SetClearAttributes(ColorYellow, ColorBlue)
	term.ClearDefault()

	want := Cell{Rune: ' ', Fg: ColorYellow, Bg: ColorBlue}
	for i, c := range term.CellBuffer().Back() {
		if c != want {
			t.Fatalf("cell %d = %+v, want %+v", i, c, want)
		}
	}
}

func TestResize(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	term.Print(0, 0, AttrNone, ColorDefault, ColorDefault, "data")
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	term.Print(0, 1, AttrNone, ColorDefault, ColorDefault, "pending")

	vb.Feed([]byte("a"))
	vb.SetSize(20, 6)

	// Resize is surfaced before the buffered key
	ev := term.PeekEvent(100 * time.Millisecond)
	if ev.Type != EventResize || ev.Width != 20 || ev.Height != 6 {
		t.Fatalf("event = %v, want resize 20x6", ev)
	}
	if term.Width() != 20 || term.Height() != 6 {
		t.Errorf("size = %dx%d, want 20x6", term.Width(), term.Height())
	}

	cb := term.CellBuffer()
	for i := range cb.Back() {
		if cb.Back()[i] != BlankCell() || cb.Front()[i] != BlankCell() {
			t.Fatalf("cell %d not cleared after resize", i)
		}
	}

	ev = term.PeekEvent(100 * time.Millisecond)
	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'a' {
		t.Errorf("event = %v, want key 'a'", ev)
	}

	vb.Reset()
	if err := term.Present(); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.HasPrefix(vb.Output(), "\x1b[0m\x1b[2J") {
		t.Errorf("present after resize should clear first: %q", vb.Output())
	}
}

func TestPeekEvent_Timeout(t *testing.T) {
	term, _ := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	start := time.Now()
	ev := term.PeekEvent(20 * time.Millisecond)
	if ev.Type != EventNone {
		t.Errorf("event = %v, want none", ev)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("PeekEvent returned after %v, before timeout", elapsed)
	}

	if ev := term.PeekEvent(0); ev.Type != EventNone {
		t.Errorf("zero-timeout event = %v, want none", ev)
	}
}

func TestPollEvent_Keys(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	vb.Feed([]byte{0x1b, 0x5b, 0x41})
	vb.Feed([]byte{0x03})
	vb.Feed([]byte("é"))

	want := []Event{
		{Type: EventKey, Key: KeyArrowUp},
		{Type: EventKey, Key: KeyCtrlC},
		{Type: EventKey, Key: KeyRune, Rune: 'é'},
	}
	for i, w := range want {
		if got := term.PollEvent(); got != w {
			t.Errorf("event %d = %v, want %v", i, got, w)
		}
	}
}

func TestPeekEvent_LoneEscape(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	vb.Feed([]byte{0x1b})

	start := time.Now()
	ev := term.PeekEvent(500 * time.Millisecond)
	if ev.Type != EventKey || ev.Key != KeyEsc {
		t.Fatalf("event = %v, want esc", ev)
	}
	if elapsed := time.Since(start); elapsed < DefaultEscapeDelay {
		t.Errorf("lone ESC resolved after %v, before escape delay", elapsed)
	}
}

func TestPeekEvent_SplitSequence(t *testing.T) {
	term, vb := newTestTerminal(t, 10, 4)
	defer term.Shutdown()

	vb.Feed([]byte("\x1b["))
	vb.Feed([]byte("1;5C"))

	ev := term.PeekEvent(500 * time.Millisecond)
	if ev.Type != EventKey || ev.Key != KeyArrowRight || ev.Mod != ModCtrl {
		t.Errorf("event = %v, want Ctrl+arrow_right", ev)
	}
}

func TestPeekEvent_AltMode(t *testing.T) {
	vb := NewVirtualBackend(10, 4)
	term := New(Options{Backend: vb, InputMode: InputAlt})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Shutdown()

	vb.Feed([]byte("\x1bx"))
	ev := term.PeekEvent(100 * time.Millisecond)
	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'x' || ev.Mod != ModAlt {
		t.Errorf("event = %v, want Alt+'x'", ev)
	}

	term.SetInputMode(InputEsc)
	vb.Feed([]byte("\x1bx"))
	if ev := term.PeekEvent(100 * time.Millisecond); ev.Key != KeyEsc {
		t.Errorf("event = %v, want esc", ev)
	}
	if ev := term.PeekEvent(100 * time.Millisecond); ev.Key != KeyRune || ev.Rune != 'x' || ev.Mod != ModNone {
		t.Errorf("event = %v, want 'x'", ev)
	}
}

func TestRun(t *testing.T) {
	t.Run("returns fn error and shuts down", func(t *testing.T) {
		vb := NewVirtualBackend(10, 4)
		want := errors.New("done")
		err := Run(Options{Backend: vb}, func(term *Terminal) error {
			if term.Width() != 10 {
				t.Errorf("width = %d, want 10", term.Width())
			}
			return want
		})
		if !errors.Is(err, want) {
			t.Errorf("Run = %v, want %v", err, want)
		}
		if vb.IsRawMode() || vb.ExitCount() != 1 {
			t.Error("terminal not restored")
		}
	})

	t.Run("recovers panic", func(t *testing.T) {
		vb := NewVirtualBackend(10, 4)
		err := Run(Options{Backend: vb}, func(term *Terminal) error {
			panic("boom")
		})
		if err == nil || !strings.Contains(err.Error(), "boom") {
			t.Errorf("Run = %v, want panic error", err)
		}
		if vb.IsRawMode() || vb.ExitCount() != 1 {
			t.Error("terminal not restored after panic")
		}
	})

	t.Run("init failure", func(t *testing.T) {
		vb := NewVirtualBackend(10, 4)
		vb.FailEnter(ErrNotTerminal)
		called := false
		err := Run(Options{Backend: vb}, func(term *Terminal) error {
			called = true
			return nil
		})
		if !errors.Is(err, ErrNotTerminal) {
			t.Errorf("Run = %v, want ErrNotTerminal", err)
		}
		if called {
			t.Error("fn called despite init failure")
		}
	})
}

func TestKeySequences(t *testing.T) {
	vb := NewVirtualBackend(10, 4)
	term := New(Options{
		Backend: vb,
		KeySequences: map[string]Key{
			"\x1b[25~": KeyF1,
			"\x1b[A":   KeyPageUp, // overrides the builtin arrow
			"q":        KeyF2,     // not an escape sequence, ignored
		},
	})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Shutdown()

	vb.Feed([]byte("\x1b[25~\x1b[Aq"))
	want := []Event{
		{Type: EventKey, Key: KeyF1},
		{Type: EventKey, Key: KeyPageUp},
		{Type: EventKey, Key: KeyRune, Rune: 'q'},
	}
	for i, w := range want {
		if got := term.PeekEvent(100 * time.Millisecond); got != w {
			t.Errorf("event %d = %v, want %v", i, got, w)
		}
	}
}
