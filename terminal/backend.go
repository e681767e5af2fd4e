package terminal

import "time"

// Backend abstracts the controlling terminal device.
// The engine owns exactly one Backend between Init and Shutdown and calls it
// from a single goroutine.
type Backend interface {
	// EnterRawMode saves the current terminal attributes and switches to raw mode
	// (no line buffering, no echo, no signal characters). Resize notification is
	// armed as a side effect.
	EnterRawMode() error

	// RestoreMode reverts what EnterRawMode saved. Idempotent; no-op if raw mode
	// was never entered.
	RestoreMode() error

	// Read fills p with 0..len(p) available bytes, waiting at most maxWait.
	// maxWait == 0 polls, maxWait < 0 blocks until input or a resize notification.
	Read(p []byte, maxWait time.Duration) (int, error)

	// Write writes all of p to the terminal output, looping over partial writes.
	Write(p []byte) error

	// Size returns the current terminal dimensions in columns and rows.
	Size() (width, height int, err error)

	// ResizePending reports and clears the pending resize notification.
	ResizePending() bool
}

// BlockForever passed as maxWait makes Backend.Read wait without deadline
const BlockForever time.Duration = -1
