//go:build windows

// consoleHost (windows) mirrors consoleHost_unix without the
// syscall.SetNonblock step, grounded on terminal_host_windows.go: Windows
// console handles don't support O_NONBLOCK, so Stdin.Read blocks inside
// its own goroutine instead.
package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

type consoleHost struct {
	console      *Console
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

func newConsoleHost(c *Console) *consoleHost {
	return &consoleHost{
		console: c,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (h *consoleHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "console: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := os.Stdin.Read(buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' {
					b = '\n'
				}
				if b == 0x7F {
					b = 0x08
				}
				h.console.EnqueueByte(b)
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

func (h *consoleHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

func (h *consoleHost) PrintOutput() {
	out := h.console.DrainOutput()
	if len(out) > 0 {
		fmt.Print(out)
	}
}
