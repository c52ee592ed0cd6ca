// reset.go - test-only kernel teardown. Grounded on the teacher's
// component-reset convention (each stateful subsystem owns a reset()
// that a test harness calls between scenarios instead of restarting the
// process): tcbPool.reset, mutexTable.reset, and traceRecorder.reset each
// already exist; Kernel.ResetForTest composes them and is never reachable
// from Dispatch.
package main

// ResetForTest stops the kernel (if running) and clears all scheduler,
// mutex, and trace state so a fresh scenario can call ThreadInit/
// ThreadCreate/MutexInit again in the same test binary.
func (k *Kernel) ResetForTest() {
	k.Stop()

	k.mu.Lock()
	defer k.mu.Unlock()

	k.pool.reset()
	k.mutexes.reset()
	k.trace.reset()
	k.status = newStatusStore()
	k.time = 0
	k.current = idlePriority
	k.started = false
	k.stopCh = nil
}
