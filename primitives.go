// primitives.go - the three blocking primitives: wait_until_next_period,
// spin_wait, and the PCP mutex lock/unlock gate.
//
// All of them are busy-wait primitives per SPEC_FULL.md §9: none of them
// hand the CPU to an explicit sleep queue. Where the original C spins on a
// raw memory read, this reimplementation spins on a sync.Cond broadcast by
// every tick and every unlock — logically the same busy-wait, translated
// into the idiomatic Go way of not pegging a core while waiting.
package main

// WaitUntilNextPeriod sets the caller's status to WAITING and blocks until
// the scheduler has re-elected it (status observed RUNNING again), giving
// the ordering guarantee that at least one tick has occurred and a future
// selection has chosen this priority.
func (k *Kernel) WaitUntilNextPeriod(priority uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.waitWhileNotRunningLocked(priority)
	if !k.started {
		return
	}

	t := &k.pool.tasks[priority]
	t.status = StatusWaiting
	k.pool.runnable.clear(priority)
	k.pool.waiting.set(priority)
	k.cond.Broadcast()

	for t.status != StatusRunning {
		if !k.started {
			return
		}
		k.cond.Wait()
	}
}

// SpinWait zeroes the caller's sleep counter and blocks until it has
// advanced to at least ms. sleep only advances while the caller is
// RUNNING (see Tick), so the wait excludes any ticks spent as other tasks
// run: spin_wait(m) always returns after at least m ms of the caller's own
// CPU time, never less, regardless of how much wall-clock time that takes.
func (k *Kernel) SpinWait(priority, ms uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()

	t := &k.pool.tasks[priority]
	t.sleep = 0
	for t.sleep < ms {
		if !k.started {
			return
		}
		k.cond.Wait()
	}
}

// MutexLock blocks until the PCP gate admits the caller: first while m is
// held by anyone, then (with the gate evaluated while the caller is
// actually the RUNNING task, mirroring "with interrupts disabled") while
// the caller's base priority does not strictly dominate both m.ceiling and
// the current system_ceiling.
func (k *Kernel) MutexLock(priority uint32, m *pcpMutex) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for {
		k.waitWhileNotRunningLocked(priority)
		if !k.started {
			return
		}
		if m.held {
			k.cond.Wait()
			continue
		}
		if k.mutexes.tryLock(m, priority) {
			k.trace.record(k.time, priority, eventLock)
			return
		}
		k.cond.Wait()
	}
}

// MutexUnlock releases m, recomputes system_ceiling as the minimum
// ceiling among all still-held mutexes (or idlePriority if none), and
// resets the caller's curr_priority to its base priority.
func (k *Kernel) MutexUnlock(priority uint32, m *pcpMutex) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.mutexes.unlock(m)
	k.pool.tasks[priority].currPriority = priority
	k.trace.record(k.time, priority, eventUnlock)
	k.cond.Broadcast()
}
