package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
)

const maxLog = 10

type viewer struct {
	t        *terminal.Terminal
	eventLog []string
	alt      bool
}

func main() {
	configPath := pflag.String("config", "", "TOML config file")
	logPath := pflag.String("log", "", "append log output to file")
	debug := pflag.Bool("debug", false, "log at debug level")
	pflag.Parse()

	cfg, logger, closer, err := config.Bootstrap(*configPath, *logPath, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keytest: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	opts := cfg.Options(logger)
	err = terminal.Run(opts, func(t *terminal.Terminal) error {
		v := &viewer{t: t, alt: opts.InputMode == terminal.InputAlt}
		return v.loop()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "keytest: %v\n", err)
		os.Exit(1)
	}
}

func (v *viewer) addLog(s string) {
	if len(v.eventLog) >= maxLog {
		copy(v.eventLog, v.eventLog[1:])
		v.eventLog = v.eventLog[:maxLog-1]
	}
	v.eventLog = append(v.eventLog, s)
}

func (v *viewer) loop() error {
	if err := v.render(); err != nil {
		return err
	}

	for {
		ev := v.t.PollEvent()

		switch ev.Type {
		case terminal.EventKey:
			if ev.Key == terminal.KeyCtrlC || ev.Key == terminal.KeyCtrlQ {
				return nil
			}
			if ev.Key == terminal.KeyCtrlT {
				v.alt = !v.alt
				if v.alt {
					v.t.SetInputMode(terminal.InputAlt)
				} else {
					v.t.SetInputMode(terminal.InputEsc)
				}
			}
			v.addLog(formatKeyEvent(ev))

		case terminal.EventResize:
			v.addLog(fmt.Sprintf("RESIZE: %dx%d", ev.Width, ev.Height))

		case terminal.EventError:
			return ev.Err
		}

		if err := v.render(); err != nil {
			return err
		}
	}
}

func (v *viewer) render() error {
	t := v.t
	w, h := t.Width(), t.Height()
	t.Clear(terminal.ColorWhite, terminal.ColorBlue)

	// Title
	title := "Key Test - Press keys - Ctrl+T toggles ESC/Alt mode - Ctrl+C to quit"
	t.Print(max(0, (w-len(title))/2), 0, terminal.AttrBold, terminal.ColorWhite, terminal.ColorBlue, title)

	// Divider
	t.Print(0, 1, terminal.AttrNone, terminal.ColorCyan, terminal.ColorBlue, strings.Repeat("─", w))

	// Event log
	for i, entry := range v.eventLog {
		y := 2 + i
		if y >= h-2 {
			break
		}
		t.Print(1, y, terminal.AttrNone, terminal.ColorWhite, terminal.ColorBlue, entry)
	}

	// Status bar
	mode := "esc"
	if v.alt {
		mode = "alt"
	}
	status := fmt.Sprintf("Size: %dx%d | Input mode: %s", w, h, mode)
	t.Print(0, h-2, terminal.AttrNone, terminal.ColorCyan, terminal.ColorBlue, strings.Repeat("─", w))
	t.Print(1, h-1, terminal.AttrReverse, terminal.ColorWhite, terminal.ColorBlue, status)

	return t.Present()
}

func formatKeyEvent(ev terminal.Event) string {
	keyName := terminal.KeyName(ev.Key)
	switch {
	case ev.Key == terminal.KeyRune && ev.Rune >= 0x20 && ev.Rune < 0x7f:
		keyName = fmt.Sprintf("'%c'", ev.Rune)
	case ev.Key == terminal.KeyRune:
		keyName = fmt.Sprintf("'%c' U+%04X", ev.Rune, ev.Rune)
	case keyName == "":
		keyName = fmt.Sprintf("Key(%d)", ev.Key)
	}
	return fmt.Sprintf("KEY: %s%s", ev.Mod, keyName)
}
