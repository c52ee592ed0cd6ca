// trap.go - the numeric syscall dispatch table. Grounded on
// original_source/code/kernel/src/syscalls.c and syscalls.h: the same
// syscall surface (newlib's sbrk/write/read/close/fstat/isatty/lseek/exit
// plus the scheduler's thread/mutex/time syscalls), but reached through a
// typed Dispatch call instead of a raw SWI trap, and returning a Go error
// instead of a bare -1.
//
// The backspace/EOT handling of syscalls.c's syscall_read is instead done
// once, ahead of time, inside Console.EnqueueByte.
package main

import "fmt"

// Syscall numbers, matching the original ABI ordering: the newlib set
// first, then the 349 scheduler syscalls.
const (
	SysSbrk = iota
	SysWrite
	SysClose
	SysFstat
	SysIsatty
	SysLseek
	SysRead
	SysExit

	SysThreadInit
	SysThreadCreate
	SysMutexInit
	SysMutexLock
	SysMutexUnlock
	SysWaitUntilNextPeriod
	SysGetTime
	SysSchedulerStart
	SysGetPriority
	SysSpinWait
)

// stdout/stdin file descriptors, matching syscall_write/syscall_read's
// "file != 1"/"file != 0" checks.
const (
	fdStdin  = 0
	fdStdout = 1
)

// Trap bundles a Kernel and Console behind the syscall ABI a task's
// trap stub (in this reimplementation, its goroutine body) calls through.
type Trap struct {
	Kernel  *Kernel
	Console *Console
}

// NewTrap wires a kernel and console together for syscall dispatch.
func NewTrap(k *Kernel, c *Console) *Trap {
	return &Trap{Kernel: k, Console: c}
}

// Write implements the WRITE syscall: file must be stdout.
func (tr *Trap) Write(file int, p []byte) (int, error) {
	if file != fdStdout {
		return -1, ErrUnknownSyscall
	}
	return tr.Console.Write(p)
}

// Read implements the READ syscall: file must be stdin. It never blocks:
// with no full line available yet it returns (0, false) and the caller
// retries; otherwise it copies up to len(p) bytes of the oldest line,
// matching syscall_read's per-line contract.
func (tr *Trap) Read(file int, p []byte) (int, bool) {
	if file != fdStdin {
		return -1, false
	}
	line, ok := tr.Console.ReadLine()
	if !ok {
		return 0, false
	}
	n := copy(p, line)
	return n, true
}

// Close, Fstat, Isatty, Lseek mirror syscalls.c exactly: no filesystem,
// so these are fixed stubs rather than real operations.
func (tr *Trap) Close(file int) int      { return -1 }
func (tr *Trap) Fstat(file int) int      { return 0 }
func (tr *Trap) Isatty(file int) int     { return 1 }
func (tr *Trap) Lseek(file, off int) int { return 0 }

// Sbrk mirrors syscall_sbrk: no heap to grow, so it always fails rather
// than ever returning a usable break address.
func (tr *Trap) Sbrk(increment int) int { return -1 }

// Exit reports status and parks the calling goroutine forever, mirroring
// syscall_exit's "hang with interrupts disabled": the original never
// returns from this call, and neither does this one.
func (tr *Trap) Exit(status int) {
	fmt.Fprintf(tr.Console, "exit status %d\n", status)
	select {}
}

// ThreadInit, ThreadCreate, MutexInit, MutexLock, MutexUnlock,
// WaitUntilNextPeriod, and SpinWait are thin pass-throughs to the Kernel;
// they exist so Dispatch can route a numeric syscall to them uniformly;
// direct callers should just call the Kernel methods. GetTime,
// SchedulerStart, and GetPriority are dispatched straight to the Kernel.

func (tr *Trap) ThreadInit(idleFn func(), idleStackTop uint32) error {
	return tr.Kernel.ThreadInit(idleFn, idleStackTop)
}

func (tr *Trap) ThreadCreate(fn func(), stackTop, prio, computation, period uint32) error {
	return tr.Kernel.ThreadCreate(fn, stackTop, prio, computation, period)
}

func (tr *Trap) MutexInit(m *pcpMutex, ceiling uint32) error {
	return tr.Kernel.MutexInit(m, ceiling)
}

func (tr *Trap) MutexLock(priority uint32, m *pcpMutex) {
	tr.Kernel.MutexLock(priority, m)
}

func (tr *Trap) MutexUnlock(priority uint32, m *pcpMutex) {
	tr.Kernel.MutexUnlock(priority, m)
}

func (tr *Trap) WaitUntilNextPeriod(priority uint32) {
	tr.Kernel.WaitUntilNextPeriod(priority)
}

func (tr *Trap) SpinWait(priority, ms uint32) {
	tr.Kernel.SpinWait(priority, ms)
}

// Dispatch routes a numeric syscall by number and an opaque argument
// list, the shape a real trap entry would receive off the SWI frame
// instead of a typed call. Every Sys* constant above has a case; an
// unrecognized number returns ErrUnknownSyscall, matching syscalls.c's
// default case.
func (tr *Trap) Dispatch(sysno int, args ...any) (any, error) {
	switch sysno {
	case SysSbrk:
		return tr.Sbrk(args[0].(int)), nil
	case SysWrite:
		file := args[0].(int)
		p := args[1].([]byte)
		n, err := tr.Write(file, p)
		if err != nil {
			return -1, err
		}
		return n, nil
	case SysRead:
		file := args[0].(int)
		p := args[1].([]byte)
		n, ok := tr.Read(file, p)
		if !ok {
			return -1, nil
		}
		return n, nil
	case SysClose:
		return tr.Close(args[0].(int)), nil
	case SysFstat:
		return tr.Fstat(args[0].(int)), nil
	case SysIsatty:
		return tr.Isatty(args[0].(int)), nil
	case SysLseek:
		return tr.Lseek(args[0].(int), args[1].(int)), nil
	case SysExit:
		tr.Exit(args[0].(int))
		return 0, nil
	case SysThreadInit:
		if err := tr.ThreadInit(args[0].(func()), args[1].(uint32)); err != nil {
			return -1, err
		}
		return 0, nil
	case SysThreadCreate:
		if err := tr.ThreadCreate(args[0].(func()), args[1].(uint32), args[2].(uint32), args[3].(uint32), args[4].(uint32)); err != nil {
			return -1, err
		}
		return 0, nil
	case SysMutexInit:
		if err := tr.MutexInit(args[0].(*pcpMutex), args[1].(uint32)); err != nil {
			return -1, err
		}
		return 0, nil
	case SysMutexLock:
		tr.MutexLock(args[0].(uint32), args[1].(*pcpMutex))
		return 0, nil
	case SysMutexUnlock:
		tr.MutexUnlock(args[0].(uint32), args[1].(*pcpMutex))
		return 0, nil
	case SysWaitUntilNextPeriod:
		tr.WaitUntilNextPeriod(args[0].(uint32))
		return 0, nil
	case SysGetTime:
		return tr.Kernel.GetTime(), nil
	case SysGetPriority:
		return tr.Kernel.GetPriority(args[0].(uint32)), nil
	case SysSchedulerStart:
		if err := tr.Kernel.SchedulerStart(); err != nil {
			return -1, err
		}
		return 0, nil
	case SysSpinWait:
		tr.SpinWait(args[0].(uint32), args[1].(uint32))
		return 0, nil
	default:
		return -1, ErrUnknownSyscall
	}
}
