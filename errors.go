// errors.go - kernel error kinds

package main

import "errors"

// Bad-input errors, returned by thread_init/thread_create/mutex_init and by
// the trap dispatcher for an unrecognized syscall number, plus the two
// start-up failures: an unschedulable task set and a second start.
var (
	ErrNilFunction     = errors.New("rtkernel: nil task function")
	ErrNilStack        = errors.New("rtkernel: nil stack pointer")
	ErrNilMutex        = errors.New("rtkernel: nil mutex")
	ErrInvalidPriority = errors.New("rtkernel: priority out of range")
	ErrUnknownSyscall  = errors.New("rtkernel: unknown syscall number")
	ErrUnschedulable   = errors.New("rtkernel: task set exceeds the rate-monotonic bound")
	ErrAlreadyStarted  = errors.New("rtkernel: scheduler already started")
)
