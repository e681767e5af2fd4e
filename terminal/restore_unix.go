//go:build unix

package terminal

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// EmergencyReset writes the shutdown sequences to w and forces the controlling
// terminal back to cooked mode. Best-effort for crash recovery; errors ignored.
func EmergencyReset(w io.Writer) {
	if w != nil {
		seq := make([]byte, 0, 64)
		seq = append(seq, csiCursorShow...)
		seq = append(seq, csiSGR0...)
		seq = append(seq, csiAltScreenExit...)
		seq = append(seq, csiAutoWrapOn...)
		w.Write(seq)
	}
	resetTerminalMode()
}

// resetTerminalMode re-enables line discipline on /dev/tty, which works even
// when stdin is redirected
func resetTerminalMode() {
	tty, err := os.OpenFile(DefaultTTYPath, os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return
	}
	termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Iflag |= unix.ICRNL
	termios.Oflag |= unix.OPOST
	unix.IoctlSetTermios(fd, unix.TCSETS, termios)
}
