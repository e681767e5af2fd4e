// @focus: #sys { term }
// Package terminal provides a full-screen cell buffer and raw input decoder.
//
// Features:
//   - Double-buffered cell grid with cell-level diffing on Present
//   - Eight base colors, 256-color palette output mode, bold/underline/reverse
//   - Raw tty input decoding: control codes, UTF-8, escape sequences with timeout
//   - Key table of xterm/vt/rxvt/linux sequences, extendable from configuration
//   - SIGWINCH resize detection surfaced as resize events
//   - Clean terminal restoration on shutdown or panic
//
// A Terminal is an explicit engine instance created with New and driven from a
// single goroutine. Backends are swappable; VirtualBackend replaces the tty in tests.
package terminal
