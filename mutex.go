// mutex.go - Priority Ceiling Protocol mutex layer
//
// Ceilings are expressed with the scheduler's usual convention: lower
// number is higher priority, so "ceiling" is the numerically smallest
// (i.e. highest) base priority of any task allowed to ever lock the mutex.
package main

// noOwner marks a mutex with no current owner.
const noOwner = idlePriority + 1 // 32, outside the valid priority range

// pcpMutex is one PCP-protected mutex. held/owner/ceiling mirror the C
// struct in original_source/code/kernel/include/mutex.h one-for-one.
type pcpMutex struct {
	held    bool
	ceiling uint32
	owner   uint32 // valid only when held; noOwner otherwise
}

// mutexTable owns the global mutex list (creation order, never shrinks)
// and the single system_ceiling word PCP gating depends on. Like tcbPool,
// it carries no lock of its own: the kernel's single mutex (see kernel.go)
// serializes all access, standing in for "with interrupts disabled".
type mutexTable struct {
	mutexes       []*pcpMutex
	systemCeiling uint32
}

func newMutexTable() *mutexTable {
	return &mutexTable{systemCeiling: idlePriority}
}

// init records m in creation order and resets it to the unheld state.
func (t *mutexTable) init(m *pcpMutex, ceiling uint32) error {
	if m == nil {
		return ErrNilMutex
	}
	m.held = false
	m.owner = noOwner
	m.ceiling = ceiling
	t.mutexes = append(t.mutexes, m)
	return nil
}

// tryLock attempts to acquire m on behalf of caller's base priority. It
// returns true if the PCP gate allowed the acquire. Callers must hold the
// kernel lock (the interrupts-disabled critical section of §4.6 step 2/3).
func (t *mutexTable) tryLock(m *pcpMutex, callerPriority uint32) bool {
	if m.held {
		return false
	}
	if callerPriority < m.ceiling && callerPriority < t.systemCeiling {
		m.held = true
		m.owner = callerPriority
		if m.ceiling < t.systemCeiling {
			t.systemCeiling = m.ceiling
		}
		return true
	}
	return false
}

// unlock releases m and recomputes system_ceiling from scratch as the
// minimum (most restrictive) ceiling among all currently-held mutexes, or
// idlePriority (31) if none are held. The original C source instead summed
// held ceilings; SPEC_FULL.md records min, not sum, as the rule used here.
func (t *mutexTable) unlock(m *pcpMutex) {
	m.held = false
	m.owner = noOwner
	ceiling := uint32(idlePriority)
	for _, mu := range t.mutexes {
		if mu.held && mu.ceiling < ceiling {
			ceiling = mu.ceiling
		}
	}
	t.systemCeiling = ceiling
}

// reset clears the mutex list and ceiling. Test-only, like tcbPool.reset.
func (t *mutexTable) reset() {
	t.mutexes = nil
	t.systemCeiling = idlePriority
}
