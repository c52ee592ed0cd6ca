// tcb.go - Task Control Block pool and the runnable/waiting priority bitsets

package main

import "math"

// Task status values, matching the ordinal encoding of the original C
// source (WAITING=0, RUNNABLE=1, RUNNING=2) so log output and tests read
// the same way.
type taskStatus uint32

const (
	StatusWaiting  taskStatus = 0
	StatusRunnable taskStatus = 1
	StatusRunning  taskStatus = 2
)

func (s taskStatus) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusRunnable:
		return "RUNNABLE"
	case StatusRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// numPriorities is the size of the fixed TCB pool: priorities 0..31, with
// 31 reserved for the idle task.
const numPriorities = 32

// idlePriority is the reserved priority of the always-runnable idle task.
const idlePriority = 31

// infiniteComputation stands in for the original "C = 100000" idle hack.
// This reimplementation special-cases priority 31 instead (see kernel.go),
// but the constant is kept so a TCB printed or serialized for priority 31
// still shows a value that reads as "no real budget", per the Open Questions
// in SPEC_FULL.md.
const infiniteComputation = math.MaxUint32

// tcb is one Task Control Block. Exactly one TCB pool entry exists per
// priority; a TCB's priority field is always equal to its index in the pool.
type tcb struct {
	stack [1024]uint32 // symbolic stack area; see SPEC_FULL.md §3
	regs  Frame

	priority     uint32
	currPriority uint32 // PCP display field; gating always uses priority, see mutex.go

	computation uint32 // C, milliseconds
	period      uint32 // T, milliseconds

	wakeup    uint32
	execution uint32
	sleep     uint32

	status taskStatus

	fn       func()
	created  bool
}

// bitset is a 32-bit, word-wide priority bitmap keyed by base priority
// (bit i == priority i). It gives O(1) set/clear and an O(P) scan for
// "lowest set bit among priorities 0..k", which is all the scheduler needs.
type bitset uint32

func (b *bitset) set(priority uint32)   { *b |= 1 << priority }
func (b *bitset) clear(priority uint32) { *b &^= 1 << priority }
func (b bitset) has(priority uint32) bool {
	return (b>>priority)&1 != 0
}

// tcbPool is the fixed array of 32 TCBs plus the two priority bitsets that
// index it. It carries no synchronization of its own: callers (the
// scheduler, which owns the kernel lock) are responsible for serializing
// access, exactly as the distilled spec requires all such mutation to
// happen with interrupts disabled.
type tcbPool struct {
	tasks    [numPriorities]tcb
	runnable bitset
	waiting  bitset
}

func newTCBPool() *tcbPool {
	p := &tcbPool{}
	for i := range p.tasks {
		p.tasks[i].priority = uint32(i)
		p.tasks[i].currPriority = uint32(i)
	}
	return p
}

// initIdle installs the idle TCB at priority 31: always runnable, consumes
// no computation budget. thread_create still adds non-idle tasks to the
// runnable bitset directly; idle is deliberately never reflected there (see
// the fallback selection in kernel.go).
func (p *tcbPool) initIdle(idleFn func(), idleStackTop uint32) error {
	if idleFn == nil {
		return ErrNilFunction
	}
	if idleStackTop == 0 {
		return ErrNilStack
	}
	t := &p.tasks[idlePriority]
	t.computation = infiniteComputation
	t.period = 1
	t.status = StatusRunnable
	t.wakeup = 0
	t.execution = 0
	t.sleep = 0
	t.fn = idleFn
	t.created = true
	t.regs[FrameSPUser] = idleStackTop
	t.regs[FrameSPSRIrq] = spsrUserIRQEnabled
	t.regs[FrameSPSRSvc] = spsrUserIRQEnabled
	t.regs[FrameLRIrq] = 0
	t.regs[FrameLRUser] = 0
	t.regs[FrameSPSvc] = uint32(len(t.stack) - 1)
	return nil
}

// create installs a non-idle task at priority prio and marks it runnable.
func (p *tcbPool) create(fn func(), stackTop uint32, prio, computation, period uint32) error {
	if fn == nil {
		return ErrNilFunction
	}
	if stackTop == 0 {
		return ErrNilStack
	}
	if prio >= idlePriority {
		return ErrInvalidPriority
	}
	t := &p.tasks[prio]
	t.computation = computation
	t.period = period
	t.status = StatusRunnable
	t.wakeup = 0
	t.execution = 0
	t.sleep = 0
	t.fn = fn
	t.created = true
	t.regs[FrameSPUser] = stackTop
	t.regs[FrameSPSRIrq] = spsrUserIRQEnabled
	t.regs[FrameSPSRSvc] = spsrUserIRQEnabled
	t.regs[FrameLRIrq] = 0
	t.regs[FrameLRUser] = 0
	t.regs[FrameSPSvc] = uint32(len(t.stack) - 1)
	p.runnable.set(prio)
	return nil
}

// reset restores the pool to its zero state. Not part of the trap ABI;
// only used by tests (see kernel_test.go) to get process-level isolation
// between scheduling scenarios without spawning a new binary.
func (p *tcbPool) reset() {
	*p = *newTCBPool()
}
