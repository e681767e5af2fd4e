package terminal

import (
	"bytes"
	"fmt"
	"sync"
	"time"
)

// VirtualBackend is an in-memory Backend for tests and headless use.
// Input is scripted with Feed, output is captured, and SetSize raises a resize notification.
type VirtualBackend struct {
	mu      sync.Mutex
	out     bytes.Buffer
	input   [][]byte
	width   int
	height  int
	rawMode bool
	resized bool

	writes     int
	enterCount int
	exitCount  int

	enterErr error
	writeErr error
}

// NewVirtualBackend returns a VirtualBackend with the given dimensions
func NewVirtualBackend(width, height int) *VirtualBackend {
	return &VirtualBackend{
		width:  width,
		height: height,
	}
}

// EnterRawMode records a raw-mode entry, or fails with the error set by FailEnter
func (v *VirtualBackend) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.enterErr != nil {
		return v.enterErr
	}
	v.rawMode = true
	v.enterCount++
	return nil
}

// RestoreMode records a raw-mode exit if raw mode is active
func (v *VirtualBackend) RestoreMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rawMode {
		v.rawMode = false
		v.exitCount++
	}
	return nil
}

// Read returns the next scripted input chunk.
// With no input queued it sleeps for maxWait (capped for BlockForever) and returns 0.
func (v *VirtualBackend) Read(p []byte, maxWait time.Duration) (int, error) {
	v.mu.Lock()
	if len(v.input) > 0 && !v.resized {
		chunk := v.input[0]
		n := copy(p, chunk)
		if n < len(chunk) {
			v.input[0] = chunk[n:]
		} else {
			v.input = v.input[1:]
		}
		v.mu.Unlock()
		return n, nil
	}
	resized := v.resized
	v.mu.Unlock()

	if resized || maxWait == 0 {
		return 0, nil
	}
	if maxWait < 0 || maxWait > pollSliceVirtual {
		maxWait = pollSliceVirtual
	}
	time.Sleep(maxWait)
	return 0, nil
}

// pollSliceVirtual caps idle sleeps so blocked callers recheck scripted input
const pollSliceVirtual = 5 * time.Millisecond

// Write captures p, or fails with the error set by FailWrites
func (v *VirtualBackend) Write(p []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.writeErr != nil {
		return v.writeErr
	}
	v.writes++
	if _, err := v.out.Write(p); err != nil {
		return fmt.Errorf("writing to virtual buffer: %w", err)
	}
	return nil
}

// Size returns the configured dimensions
func (v *VirtualBackend) Size() (int, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.width, v.height, nil
}

// ResizePending reports and clears the resize flag raised by SetSize
func (v *VirtualBackend) ResizePending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	r := v.resized
	v.resized = false
	return r
}

// --- Test helpers (not part of Backend) ---

// Feed queues one input chunk; each chunk is returned by a separate Read
func (v *VirtualBackend) Feed(data []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.input = append(v.input, append([]byte(nil), data...))
}

// SetSize updates the dimensions and raises a resize notification
func (v *VirtualBackend) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = width
	v.height = height
	v.resized = true
}

// FailEnter makes subsequent EnterRawMode calls return err
func (v *VirtualBackend) FailEnter(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.enterErr = err
}

// FailWrites makes subsequent Write calls return err; nil restores normal writes
func (v *VirtualBackend) FailWrites(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeErr = err
}

// Output returns everything written so far
func (v *VirtualBackend) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.out.String()
}

// Reset clears captured output and the write counter
func (v *VirtualBackend) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.out.Reset()
	v.writes = 0
}

// Writes returns the number of successful Write calls since the last Reset
func (v *VirtualBackend) Writes() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.writes
}

// IsRawMode reports whether raw mode is active
func (v *VirtualBackend) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.rawMode
}

// EnterCount returns how many times raw mode was entered
func (v *VirtualBackend) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// ExitCount returns how many times raw mode was restored
func (v *VirtualBackend) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.exitCount
}
