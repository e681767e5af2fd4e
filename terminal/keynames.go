package terminal

// keyToName maps Key constants to canonical config string names
var keyToName = map[Key]string{
	KeyEsc:        "esc",
	KeyEnter:      "enter",
	KeyTab:        "tab",
	KeyBacktab:    "backtab",
	KeyBackspace:  "backspace",
	KeyBackspace2: "backspace2",
	KeySpace:      "space",

	KeyInsert:     "insert",
	KeyDelete:     "delete",
	KeyHome:       "home",
	KeyEnd:        "end",
	KeyPageUp:     "page_up",
	KeyPageDown:   "page_down",
	KeyArrowUp:    "arrow_up",
	KeyArrowDown:  "arrow_down",
	KeyArrowLeft:  "arrow_left",
	KeyArrowRight: "arrow_right",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",

	KeyCtrlTilde: "ctrl_tilde",
	KeyCtrlA:     "ctrl_a",
	KeyCtrlB:     "ctrl_b",
	KeyCtrlC:     "ctrl_c",
	KeyCtrlD:     "ctrl_d",
	KeyCtrlE:     "ctrl_e",
	KeyCtrlF:     "ctrl_f",
	KeyCtrlG:     "ctrl_g",
	KeyCtrlJ:     "ctrl_j",
	KeyCtrlK:     "ctrl_k",
	KeyCtrlL:     "ctrl_l",
	KeyCtrlN:     "ctrl_n",
	KeyCtrlO:     "ctrl_o",
	KeyCtrlP:     "ctrl_p",
	KeyCtrlQ:     "ctrl_q",
	KeyCtrlR:     "ctrl_r",
	KeyCtrlS:     "ctrl_s",
	KeyCtrlT:     "ctrl_t",
	KeyCtrlU:     "ctrl_u",
	KeyCtrlV:     "ctrl_v",
	KeyCtrlW:     "ctrl_w",
	KeyCtrlX:     "ctrl_x",
	KeyCtrlY:     "ctrl_y",
	KeyCtrlZ:     "ctrl_z",
	KeyCtrl4:     "ctrl_4",
	KeyCtrl5:     "ctrl_5",
	KeyCtrl6:     "ctrl_6",
	KeyCtrl7:     "ctrl_7",
}

// nameToKey is the reverse lookup, built from keyToName
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName)+16)
	for k, v := range keyToName {
		nameToKey[v] = k
	}
	// Aliases
	nameToKey["escape"] = KeyEsc
	nameToKey["shift_tab"] = KeyBacktab
	nameToKey["pgup"] = KeyPageUp
	nameToKey["pgdn"] = KeyPageDown
	nameToKey["ctrl_2"] = KeyCtrl2
	nameToKey["ctrl_space"] = KeyCtrlSpace
	nameToKey["ctrl_h"] = KeyCtrlH
	nameToKey["ctrl_i"] = KeyCtrlI
	nameToKey["ctrl_m"] = KeyCtrlM
	nameToKey["ctrl_3"] = KeyCtrl3
	nameToKey["ctrl_lsq_bracket"] = KeyCtrlLsqBracket
	nameToKey["ctrl_backslash"] = KeyCtrlBackslash
	nameToKey["ctrl_rsq_bracket"] = KeyCtrlRsqBracket
	nameToKey["ctrl_caret"] = KeyCtrlCaret
	nameToKey["ctrl_slash"] = KeyCtrlSlash
	nameToKey["ctrl_underscore"] = KeyCtrlUnderscore
	nameToKey["ctrl_8"] = KeyCtrl8
}

// KeyName returns the canonical string name for a Key constant
// Returns empty string for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyToName[k]
}

// KeyByName resolves a canonical or alias name to a Key constant
// Returns KeyNone and false if name is unknown
func KeyByName(name string) (Key, bool) {
	k, ok := nameToKey[name]
	return k, ok
}
