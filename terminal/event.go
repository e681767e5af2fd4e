package terminal

import "fmt"

// EventType distinguishes input event categories
type EventType uint8

const (
	EventNone   EventType = iota // Nothing arrived before the timeout
	EventKey                     // Key press
	EventResize                  // Terminal resized, buffers already reallocated
	EventError                   // Read error or engine not initialized
)

// Event represents a terminal input event
type Event struct {
	Type   EventType
	Key    Key
	Rune   rune     // Code point for KeyRune, ' ' for KeySpace
	Mod    Modifier // ModAlt in InputAlt mode, shift/ctrl from xterm modified keys
	Width  int      // For EventResize
	Height int      // For EventResize
	Err    error    // For EventError
}

// String renders the event for logs and diagnostics
func (ev Event) String() string {
	switch ev.Type {
	case EventNone:
		return "none"
	case EventResize:
		return fmt.Sprintf("resize %dx%d", ev.Width, ev.Height)
	case EventError:
		return fmt.Sprintf("error: %v", ev.Err)
	}

	if ev.Key == KeyRune {
		if ev.Rune >= 0x20 && ev.Rune < 0x7f {
			return fmt.Sprintf("key %s'%c'", ev.Mod, ev.Rune)
		}
		return fmt.Sprintf("key %sU+%04X", ev.Mod, ev.Rune)
	}
	if name := KeyName(ev.Key); name != "" {
		return "key " + ev.Mod.String() + name
	}
	return fmt.Sprintf("key %sKey(%d)", ev.Mod, ev.Key)
}

// InputMode selects how an ESC that does not start a known sequence is reported
type InputMode uint8

const (
	InputEsc InputMode = iota // ESC is delivered as KeyEsc, the following bytes decode on their own
	InputAlt                  // ESC followed by a key is delivered as that key with ModAlt
)

func keyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

func runeEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}
