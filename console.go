// console.go - the kernel's one I/O device: a line-buffered, optionally
// echoing console used for WRITE/READ syscalls and for the interactive
// monitor. Grounded on the teacher's TerminalMMIO: an input ring buffer
// consumed by EnqueueByte plus a drained output buffer, but expressed as
// plain byte-stream methods instead of MMIO register reads/writes, since
// this reimplementation has no real address bus to dispatch through.
package main

import (
	"sync"
)

// Console is a pure state-machine terminal: an input line buffer fed by
// EnqueueByte, and an output buffer drained by DrainOutput. The host
// adapter (consoleHost, platform-specific) is the only piece that touches
// a real terminal; Console itself is deterministic and safe to drive
// from tests.
type Console struct {
	mu sync.Mutex

	line    []byte // bytes received since the last newline
	ready   [][]byte
	echoing bool

	out []byte
}

// NewConsole returns a Console with echo enabled, matching the teacher's
// default.
func NewConsole() *Console {
	return &Console{echoing: true}
}

// SetEcho toggles whether EnqueueByte mirrors input back into the output
// buffer, matching TERM_ECHO in the original register interface.
func (c *Console) SetEcho(on bool) {
	c.mu.Lock()
	c.echoing = on
	c.mu.Unlock()
}

// EnqueueByte feeds one input byte, as the host adapter does for each
// stdin byte it reads. Backspace (0x08) removes the last buffered byte;
// newline (0x0A) completes a line and makes it available to ReadLine;
// EOT (Ctrl-D, 0x04) completes whatever has been typed so far, without a
// trailing newline, exactly as syscall_read's "case 4: return ct" ends
// the read early on whatever byte count has accumulated.
func (c *Console) EnqueueByte(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch b {
	case 0x04: // EOT
		completed := make([]byte, len(c.line))
		copy(completed, c.line)
		c.ready = append(c.ready, completed)
		c.line = c.line[:0]
		return
	case 0x08: // backspace
		if len(c.line) > 0 {
			c.line = c.line[:len(c.line)-1]
			if c.echoing {
				c.out = append(c.out, 0x08, ' ', 0x08)
			}
		}
		return
	case '\n':
		completed := make([]byte, len(c.line)+1)
		copy(completed, c.line)
		completed[len(c.line)] = '\n'
		c.ready = append(c.ready, completed)
		c.line = c.line[:0]
		if c.echoing {
			c.out = append(c.out, '\n')
		}
		return
	}

	c.line = append(c.line, b)
	if c.echoing {
		c.out = append(c.out, b)
	}
}

// ReadLine returns the oldest completed line (including its trailing
// newline) and true, or nil and false if no line is ready yet.
func (c *Console) ReadLine() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ready) == 0 {
		return nil, false
	}
	line := c.ready[0]
	c.ready = c.ready[1:]
	return line, true
}

// Write appends p to the output buffer and always reports all of p
// written, matching the newlib WRITE syscall's unbuffered-success
// contract for this console's only destination.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.out = append(c.out, p...)
	c.mu.Unlock()
	return len(p), nil
}

// DrainOutput returns and clears everything queued by Write/EnqueueByte
// echo since the last drain. Called by the host adapter's PrintOutput and,
// in headless tests, directly.
func (c *Console) DrainOutput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.out) == 0 {
		return ""
	}
	s := string(c.out)
	c.out = c.out[:0]
	return s
}
