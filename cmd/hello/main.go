package main

import (
	"fmt"
	"os"
	"time"

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
		fmt.Fprintf(os.Stderr, "hello: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	err = terminal.Run(cfg.Options(logger), func(t *terminal.Terminal) error {
		t.Print(1, 1, terminal.AttrBold, terminal.ColorWhite, terminal.ColorBlack, "Hello, world!")
		if err := t.Present(); err != nil {
			return err
		}
		time.Sleep(time.Second)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "hello: %v\n", err)
		os.Exit(1)
	}
}
