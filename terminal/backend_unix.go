//go:build unix

package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultTTYPath is the controlling terminal device opened by NewTTYBackend
const DefaultTTYPath = "/dev/tty"

const (
	// pollSlice bounds a single poll so pending resize signals are noticed
	pollSlice = 50 * time.Millisecond

	// probeTimeout is the wait for a cursor position report during size probing
	probeTimeout = 100 * time.Millisecond
)

// TTYBackend drives a real terminal device through termios and poll(2)
type TTYBackend struct {
	path  string
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	owned bool

	oldTerm *term.State
	sigCh   chan os.Signal
	resized bool

	// Bytes read during size probing that were not part of the reply
	pending []byte
}

// NewTTYBackend returns a backend for the terminal device at path.
// Empty path selects /dev/tty; if it cannot be opened, stdin/stdout are used
// when stdin is a terminal.
func NewTTYBackend(path string) *TTYBackend {
	if path == "" {
		path = DefaultTTYPath
	}
	return &TTYBackend{path: path}
}

// NewFileBackend returns a backend on already opened files.
// The files are never closed by the backend.
func NewFileBackend(in, out *os.File) *TTYBackend {
	b := &TTYBackend{}
	b.attach(in, out, false)
	return b
}

func (b *TTYBackend) attach(in, out *os.File, owned bool) {
	b.in = in
	b.out = out
	b.inFd = int(in.Fd())
	b.outFd = int(out.Fd())
	b.owned = owned
}

func (b *TTYBackend) open() error {
	if b.in != nil {
		return nil
	}

	f, err := os.OpenFile(b.path, os.O_RDWR, 0)
	if err != nil {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("opening %s: %w", b.path, err)
		}
		b.attach(os.Stdin, os.Stdout, false)
		return nil
	}
	b.attach(f, f, true)
	return nil
}

func (b *TTYBackend) release() {
	if b.owned && b.in != nil {
		b.in.Close()
		b.in = nil
		b.out = nil
	}
}

// EnterRawMode implements Backend
func (b *TTYBackend) EnterRawMode() error {
	if b.oldTerm != nil {
		return nil
	}
	if err := b.open(); err != nil {
		return err
	}

	if !term.IsTerminal(b.inFd) {
		b.release()
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		b.release()
		return fmt.Errorf("entering raw mode: %w", err)
	}
	b.oldTerm = old

	b.sigCh = make(chan os.Signal, 1)
	signal.Notify(b.sigCh, syscall.SIGWINCH)
	return nil
}

// RestoreMode implements Backend
func (b *TTYBackend) RestoreMode() error {
	if b.sigCh != nil {
		signal.Stop(b.sigCh)
		b.sigCh = nil
	}
	b.resized = false
	b.pending = nil

	var err error
	if b.oldTerm != nil {
		if rerr := term.Restore(b.inFd, b.oldTerm); rerr != nil {
			err = fmt.Errorf("restoring terminal mode: %w", rerr)
		}
		b.oldTerm = nil
	}
	b.release()
	return err
}

// checkResize drains the signal channel into the pending flag
func (b *TTYBackend) checkResize() bool {
	if b.sigCh != nil {
		select {
		case <-b.sigCh:
			b.resized = true
		default:
		}
	}
	return b.resized
}

// ResizePending implements Backend
func (b *TTYBackend) ResizePending() bool {
	pending := b.checkResize()
	b.resized = false
	return pending
}

// Read implements Backend
func (b *TTYBackend) Read(p []byte, maxWait time.Duration) (int, error) {
	return b.read(p, maxWait, true)
}

// read waits for input; with watchResize a pending resize ends the wait early.
// The resize flag is left set either way.
func (b *TTYBackend) read(p []byte, maxWait time.Duration, watchResize bool) (int, error) {
	if b.in == nil {
		return 0, ErrClosed
	}
	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}

	var deadline time.Time
	if maxWait > 0 {
		deadline = time.Now().Add(maxWait)
	}

	for {
		if watchResize && b.checkResize() {
			return 0, nil
		}

		slice := pollSlice
		switch {
		case maxWait == 0:
			slice = 0
		case maxWait > 0:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return 0, nil
			}
			if remaining < slice {
				slice = remaining
			}
		}

		ms := int(slice / time.Millisecond)
		if slice > 0 && ms == 0 {
			ms = 1
		}

		fds := []unix.PollFd{{Fd: int32(b.inFd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, err
		}

		if n == 0 {
			if maxWait == 0 {
				return 0, nil
			}
			continue // Slice elapsed
		}

		if fds[0].Revents&unix.POLLIN == 0 && fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return 0, io.EOF
		}

		rn, err := unix.Read(b.inFd, p)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return 0, err
		}
		if rn == 0 {
			return 0, io.EOF
		}
		return rn, nil
	}
}

// Write implements Backend
func (b *TTYBackend) Write(p []byte) error {
	if b.out == nil {
		return ErrClosed
	}
	for len(p) > 0 {
		n, err := unix.Write(b.outFd, p)
		if n > 0 {
			p = p[n:]
		}
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

// Size implements Backend
func (b *TTYBackend) Size() (int, int, error) {
	if b.out == nil {
		return 0, 0, ErrClosed
	}
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Col), int(ws.Row), nil
	}

	// ioctl unavailable: ask the terminal where a far bottom-right move lands
	w, h, perr := b.probeSize()
	if perr != nil {
		if err == nil {
			err = perr
		}
		return 0, 0, fmt.Errorf("querying terminal size: %w", err)
	}
	return w, h, nil
}

// probeSize moves the cursor to 999;999 and parses the DSR cursor position report
func (b *TTYBackend) probeSize() (int, int, error) {
	if b.oldTerm == nil {
		return 0, 0, fmt.Errorf("size probe requires raw mode")
	}
	if err := b.Write(seqSizeProbe); err != nil {
		return 0, 0, err
	}

	var acc []byte
	buf := make([]byte, 64)
	deadline := time.Now().Add(probeTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			b.pending = append(b.pending, acc...)
			return 0, 0, fmt.Errorf("no cursor position report")
		}
		// A resize during the probe stays pending for the next event poll
		n, err := b.read(buf, remaining, false)
		if err != nil {
			b.pending = append(b.pending, acc...)
			return 0, 0, err
		}
		acc = append(acc, buf[:n]...)

		if start, end, row, col, ok := parseCursorReport(acc); ok {
			b.pending = append(b.pending, acc[:start]...)
			b.pending = append(b.pending, acc[end:]...)
			return col, row, nil
		}
	}
}

// parseCursorReport finds ESC [ row ; col R in data
func parseCursorReport(data []byte) (start, end, row, col int, ok bool) {
	for i := bytes.IndexByte(data, 0x1b); i >= 0 && i < len(data); {
		j := i + 1
		if j < len(data) && data[j] == '[' {
			j++
			r, n1 := scanInt(data[j:])
			j += n1
			if n1 > 0 && j < len(data) && data[j] == ';' {
				j++
				c, n2 := scanInt(data[j:])
				j += n2
				if n2 > 0 && j < len(data) && data[j] == 'R' {
					return i, j + 1, r, c, true
				}
			}
		}
		next := bytes.IndexByte(data[i+1:], 0x1b)
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return 0, 0, 0, 0, false
}

func scanInt(data []byte) (int, int) {
	v, n := 0, 0
	for n < len(data) && data[n] >= '0' && data[n] <= '9' && n < 5 {
		v = v*10 + int(data[n]-'0')
		n++
	}
	return v, n
}
