package terminal

import "strconv"

// escapeSequence maps a complete input byte sequence (including the leading ESC) to a key
type escapeSequence struct {
	seq string
	key Key
	mod Modifier
}

// Known escape sequences for xterm, vt, rxvt and the linux console
var builtinSequences = []escapeSequence{
	// Arrow keys (normal and application cursor mode)
	{"\x1b[A", KeyArrowUp, ModNone},
	{"\x1b[B", KeyArrowDown, ModNone},
	{"\x1b[C", KeyArrowRight, ModNone},
	{"\x1b[D", KeyArrowLeft, ModNone},
	{"\x1bOA", KeyArrowUp, ModNone},
	{"\x1bOB", KeyArrowDown, ModNone},
	{"\x1bOC", KeyArrowRight, ModNone},
	{"\x1bOD", KeyArrowLeft, ModNone},
	{"\x1b[Z", KeyBacktab, ModShift},

	// Navigation
	{"\x1b[H", KeyHome, ModNone},
	{"\x1b[F", KeyEnd, ModNone},
	{"\x1bOH", KeyHome, ModNone},
	{"\x1bOF", KeyEnd, ModNone},
	{"\x1b[1~", KeyHome, ModNone},
	{"\x1b[4~", KeyEnd, ModNone},
	{"\x1b[7~", KeyHome, ModNone}, // rxvt
	{"\x1b[8~", KeyEnd, ModNone},  // rxvt
	{"\x1b[2~", KeyInsert, ModNone},
	{"\x1b[3~", KeyDelete, ModNone},
	{"\x1b[5~", KeyPageUp, ModNone},
	{"\x1b[6~", KeyPageDown, ModNone},

	// Function keys (xterm SS3 F1-F4)
	{"\x1bOP", KeyF1, ModNone},
	{"\x1bOQ", KeyF2, ModNone},
	{"\x1bOR", KeyF3, ModNone},
	{"\x1bOS", KeyF4, ModNone},

	// Function keys (vt220 / rxvt)
	{"\x1b[11~", KeyF1, ModNone},
	{"\x1b[12~", KeyF2, ModNone},
	{"\x1b[13~", KeyF3, ModNone},
	{"\x1b[14~", KeyF4, ModNone},
	{"\x1b[15~", KeyF5, ModNone},
	{"\x1b[17~", KeyF6, ModNone},
	{"\x1b[18~", KeyF7, ModNone},
	{"\x1b[19~", KeyF8, ModNone},
	{"\x1b[20~", KeyF9, ModNone},
	{"\x1b[21~", KeyF10, ModNone},
	{"\x1b[23~", KeyF11, ModNone},
	{"\x1b[24~", KeyF12, ModNone},

	// Function keys (linux console)
	{"\x1b[[A", KeyF1, ModNone},
	{"\x1b[[B", KeyF2, ModNone},
	{"\x1b[[C", KeyF3, ModNone},
	{"\x1b[[D", KeyF4, ModNone},
	{"\x1b[[E", KeyF5, ModNone},
}

// xterm modified keys: CSI 1 ; m <final> and CSI n ; m ~
var (
	modFinalKeys = []struct {
		final byte
		key   Key
	}{
		{'A', KeyArrowUp}, {'B', KeyArrowDown}, {'C', KeyArrowRight}, {'D', KeyArrowLeft},
		{'H', KeyHome}, {'F', KeyEnd},
		{'P', KeyF1}, {'Q', KeyF2}, {'R', KeyF3}, {'S', KeyF4},
	}
	modTildeKeys = []struct {
		code int
		key  Key
	}{
		{2, KeyInsert}, {3, KeyDelete}, {5, KeyPageUp}, {6, KeyPageDown},
		{15, KeyF5}, {17, KeyF6}, {18, KeyF7}, {19, KeyF8},
		{20, KeyF9}, {21, KeyF10}, {23, KeyF11}, {24, KeyF12},
	}
)

// modifiedSequences expands the xterm modifier parameter 2..8 for every modifiable key
func modifiedSequences() []escapeSequence {
	var seqs []escapeSequence
	for m := 2; m <= 8; m++ {
		// xterm encodes modifiers as 1 + (shift | alt<<1 | ctrl<<2), same bit layout as Modifier
		mod := Modifier(m - 1)
		param := strconv.Itoa(m)
		for _, k := range modFinalKeys {
			seqs = append(seqs, escapeSequence{"\x1b[1;" + param + string(k.final), k.key, mod})
		}
		for _, k := range modTildeKeys {
			seqs = append(seqs, escapeSequence{"\x1b[" + strconv.Itoa(k.code) + ";" + param + "~", k.key, mod})
		}
	}
	return seqs
}

// keyTable resolves escape sequences with longest-match-wins
type keyTable struct {
	exact    map[string]escapeSequence
	prefixes map[string]struct{} // proper prefixes of every entry
	maxLen   int
}

// newKeyTable builds a table; later groups override earlier ones on identical sequences
func newKeyTable(groups ...[]escapeSequence) *keyTable {
	t := &keyTable{
		exact:    make(map[string]escapeSequence),
		prefixes: make(map[string]struct{}),
	}
	for _, g := range groups {
		for _, s := range g {
			t.add(s)
		}
	}
	return t
}

func (t *keyTable) add(s escapeSequence) {
	if len(s.seq) == 0 {
		return
	}
	t.exact[s.seq] = s
	for i := 1; i < len(s.seq); i++ {
		t.prefixes[s.seq[:i]] = struct{}{}
	}
	if len(s.seq) > t.maxLen {
		t.maxLen = len(s.seq)
	}
}

// match returns the longest entry that prefixes buf, and whether buf itself is a
// proper prefix of some longer entry (more input could change the result)
func (t *keyTable) match(buf []byte) (seq escapeSequence, ok bool, extendable bool) {
	n := len(buf)
	if n > t.maxLen {
		n = t.maxLen
	}
	for l := n; l >= 1; l-- {
		// The string([]byte) conversion inline in map access does not allocate
		if s, found := t.exact[string(buf[:l])]; found {
			seq, ok = s, true
			break
		}
	}
	if len(buf) < t.maxLen {
		_, extendable = t.prefixes[string(buf)]
	}
	return seq, ok, extendable
}
