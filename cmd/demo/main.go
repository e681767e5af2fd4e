package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
)

func main() {
	configPath := pflag.String("config", "", "TOML config file")
	logPath := pflag.String("log", "", "append log output to file")
	debug := pflag.Bool("debug", false, "log at debug level")
	pflag.Parse()

	cfg, logger, closer, err := config.Bootstrap(*configPath, *logPath, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := terminal.Run(cfg.Options(logger), run); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func draw(t *terminal.Terminal) error {
	t.ClearDefault()
	t.Print(1, 1, terminal.AttrBold, terminal.ColorWhite, terminal.ColorBlack, "Hello, world!")
	t.Print(1, 3, terminal.AttrBold, terminal.ColorWhite, terminal.ColorBlack, "Press 'q' to quit.")
	return t.Present()
}

func run(t *terminal.Terminal) error {
	if err := draw(t); err != nil {
		return err
	}

	for {
		ev := t.PollEvent()
		switch ev.Type {
		case terminal.EventKey:
			if ev.Key == terminal.KeyRune && ev.Rune == 'q' {
				return nil
			}
		case terminal.EventResize:
			// Buffers were cleared by the resize
			if err := draw(t); err != nil {
				return err
			}
		case terminal.EventError:
			return ev.Err
		}
	}
}
