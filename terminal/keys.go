// @focus: #sys { io } #input { keys }
package terminal

// Key represents a parsed input key.
// Control bytes that several names share resolve to one canonical constant;
// the other names are aliases of it (KeyCtrlH is KeyBackspace, etc).
type Key uint16

// Key constants
const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	// Control keys
	KeyEsc
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyBackspace2 // DEL (0x7f), what most terminals send for the backspace key
	KeySpace

	// Editing and navigation
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Control characters, Ctrl+letter at 0x01-0x1a except the canonical Backspace/Tab/Enter codes
	KeyCtrlTilde // 0x00
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
	KeyCtrl4 // 0x1c
	KeyCtrl5 // 0x1d
	KeyCtrl6 // 0x1e
	KeyCtrl7 // 0x1f
)

// Aliases for control bytes with more than one conventional name
const (
	KeyCtrl2          = KeyCtrlTilde
	KeyCtrlSpace      = KeyCtrlTilde
	KeyCtrlH          = KeyBackspace
	KeyCtrlI          = KeyTab
	KeyCtrlM          = KeyEnter
	KeyCtrl3          = KeyEsc
	KeyCtrlLsqBracket = KeyEsc
	KeyCtrlBackslash  = KeyCtrl4
	KeyCtrlRsqBracket = KeyCtrl5
	KeyCtrlCaret      = KeyCtrl6
	KeyCtrlSlash      = KeyCtrl7
	KeyCtrlUnderscore = KeyCtrl7
	KeyCtrl8          = KeyBackspace2
)

// controlKeys maps raw bytes 0x00-0x1f to keys
var controlKeys = [32]Key{
	KeyCtrlTilde, KeyCtrlA, KeyCtrlB, KeyCtrlC, KeyCtrlD, KeyCtrlE, KeyCtrlF, KeyCtrlG,
	KeyBackspace, KeyTab, KeyCtrlJ, KeyCtrlK, KeyCtrlL, KeyEnter, KeyCtrlN, KeyCtrlO,
	KeyCtrlP, KeyCtrlQ, KeyCtrlR, KeyCtrlS, KeyCtrlT, KeyCtrlU, KeyCtrlV, KeyCtrlW,
	KeyCtrlX, KeyCtrlY, KeyCtrlZ, KeyEsc, KeyCtrl4, KeyCtrl5, KeyCtrl6, KeyCtrl7,
}

// controlKey maps a raw control byte (0x00-0x1f, 0x7f) to its key
func controlKey(b byte) Key {
	if b < 0x20 {
		return controlKeys[b]
	}
	if b == 0x7f {
		return KeyBackspace2
	}
	return KeyNone
}

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// String returns "Shift+Alt+Ctrl+" style prefix text
func (m Modifier) String() string {
	var s string
	if m&ModShift != 0 {
		s += "Shift+"
	}
	if m&ModAlt != 0 {
		s += "Alt+"
	}
	if m&ModCtrl != 0 {
		s += "Ctrl+"
	}
	return s
}
