package terminal

import (
	"log/slog"
	"time"
	"unicode/utf8"
)

// DefaultEscapeDelay is how long a lone ESC or a partial sequence waits for
// continuation bytes before being resolved with what has arrived
const DefaultEscapeDelay = 25 * time.Millisecond

// decoder turns the raw byte stream into key events.
// Bytes that do not yet form a complete key stay buffered across reads so a
// sequence split over several reads is never lost.
type decoder struct {
	table  *keyTable
	mode   InputMode
	logger *slog.Logger

	// Persistent buffer for stream assembly
	buf []byte

	// Set while buf holds an incomplete escape or UTF-8 sequence
	waiting   bool
	waitStart time.Time
}

func newDecoder(table *keyTable, mode InputMode, logger *slog.Logger) *decoder {
	return &decoder{
		table:  table,
		mode:   mode,
		logger: logger,
		buf:    make([]byte, 0, 256),
	}
}

// feed appends raw input
func (d *decoder) feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// pending reports whether undecoded bytes are buffered
func (d *decoder) pending() bool {
	return len(d.buf) > 0
}

// startWait records the arrival of an incomplete sequence once
func (d *decoder) startWait(now time.Time) {
	if !d.waiting {
		d.waiting = true
		d.waitStart = now
	}
}

// expired reports whether the pending sequence has waited out delay
func (d *decoder) expired(now time.Time, delay time.Duration) bool {
	return d.waiting && now.Sub(d.waitStart) >= delay
}

// remaining returns how much of delay is left for the pending sequence
func (d *decoder) remaining(now time.Time, delay time.Duration) time.Duration {
	if !d.waiting {
		return delay
	}
	left := delay - now.Sub(d.waitStart)
	if left < 0 {
		return 0
	}
	return left
}

// reset drops all buffered input
func (d *decoder) reset() {
	d.buf = d.buf[:0]
	d.waiting = false
}

// next decodes one event from the buffer.
// expired resolves incomplete sequences with what is present instead of waiting.
// Returns false when more input is needed.
func (d *decoder) next(expired bool) (Event, bool) {
	if len(d.buf) == 0 {
		return Event{}, false
	}

	ev, n := d.decode(d.buf, expired)
	if n == 0 {
		return Event{}, false
	}

	// Compact buffer
	if n >= len(d.buf) {
		d.buf = d.buf[:0]
	} else {
		copy(d.buf, d.buf[n:])
		d.buf = d.buf[:len(d.buf)-n]
	}
	d.waiting = false
	return ev, true
}

// decode parses the first key in data and returns bytes consumed, 0 on incomplete
func (d *decoder) decode(data []byte, expired bool) (Event, int) {
	b := data[0]

	switch {
	case b == 0x1b:
		return d.decodeEscape(data, expired)
	case b == ' ':
		return Event{Type: EventKey, Key: KeySpace, Rune: ' '}, 1
	case b < 0x20 || b == 0x7f:
		return keyEvent(controlKey(b)), 1
	case b < 0x80:
		// Fast path: printable ASCII
		return runeEvent(rune(b)), 1
	}

	// UTF-8 multibyte
	if !utf8.FullRune(data) {
		if !expired {
			return Event{}, 0
		}
		// Truncated sequence never completed
		return runeEvent(utf8.RuneError), 1
	}
	// Invalid lead or continuation bytes decode as RuneError consuming one byte
	r, size := utf8.DecodeRune(data)
	return runeEvent(r), size
}

// decodeEscape resolves data starting with ESC against the key table, longest match first
func (d *decoder) decodeEscape(data []byte, expired bool) (Event, int) {
	seq, ok, extendable := d.table.match(data)
	if !expired && (extendable || len(data) == 1) {
		return Event{}, 0 // Wait for more data
	}
	if ok {
		return Event{Type: EventKey, Key: seq.key, Mod: seq.mod}, len(seq.seq)
	}
	if len(data) == 1 {
		return keyEvent(KeyEsc), 1
	}

	if data[1] == '[' || data[1] == 'O' {
		n := len(data)
		if n > d.table.maxLen {
			n = d.table.maxLen
		}
		d.logger.Debug("unknown escape sequence", "bytes", string(data[:n]))
	}

	if d.mode == InputAlt {
		ev, n := d.decode(data[1:], expired)
		if n == 0 {
			return Event{}, 0
		}
		ev.Mod |= ModAlt
		return ev, n + 1
	}

	// Deliver ESC alone; the rest is re-processed from the idle state
	return keyEvent(KeyEsc), 1
}
