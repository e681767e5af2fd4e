package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Run initializes a Terminal, calls fn and always shuts the terminal down.
// A panic in fn resets the terminal and is returned as an error carrying the stack.
func Run(opts Options, fn func(*Terminal) error) (err error) {
	t := New(opts)
	if err := t.Init(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("panic in terminal session", "panic", r)
			if opts.Backend == nil {
				EmergencyReset(os.Stdout)
			}
			t.Shutdown()
			err = fmt.Errorf("terminal session panic: %v\n%s", r, debug.Stack())
			return
		}
		t.Shutdown()
	}()

	return fn(t)
}
