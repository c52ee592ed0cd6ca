package main

import (
	"testing"
	"time"
)

func TestSpinWaitCountsOnlyOwnExecution(t *testing.T) {
	k := newTestKernel()
	_ = k.ThreadInit(func() {
		for {
			k.awaitScheduled(idlePriority)
		}
	}, 1)

	done := make(chan struct{})
	_ = k.ThreadCreate(func() {
		k.awaitScheduled(0)
		k.SpinWait(0, 5)
		close(done)
	}, 1, 0, 1000, 1000)

	if err := k.StartAsync(); err != nil {
		t.Fatalf("StartAsync: %v", err)
	}
	defer k.Stop()

	// Tick 1 elects the task; at most ticks 2..4 can count toward its
	// SpinWait, however soon its goroutine runs.
	for i := 0; i < 4; i++ {
		k.Tick()
		time.Sleep(time.Millisecond)
	}
	select {
	case <-done:
		t.Fatal("SpinWait(0, 5) returned after only 4 ticks")
	default:
	}

	// SpinWait counts only ticks after the task goroutine has zeroed its
	// sleep counter, so give that goroutine a chance to run between ticks.
	for i := 0; i < 10; i++ {
		k.Tick()
		time.Sleep(time.Millisecond)
	}
	pollUntil(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	})
}

func TestMutexLockExcludesConcurrentOwners(t *testing.T) {
	k := newTestKernel()
	var m pcpMutex
	if err := k.MutexInit(&m, 2); err != nil {
		t.Fatalf("MutexInit: %v", err)
	}

	_ = k.ThreadInit(func() {
		for {
			k.awaitScheduled(idlePriority)
		}
	}, 1)

	acquired := make(chan uint32, 2)
	released := make(chan struct{}, 2)

	body := func(p uint32) {
		k.awaitScheduled(p)
		k.MutexLock(p, &m)
		acquired <- p
		k.SpinWait(p, 2)
		k.MutexUnlock(p, &m)
		released <- struct{}{}
	}
	_ = k.ThreadCreate(func() { body(0) }, 1, 0, 50, 1000)
	_ = k.ThreadCreate(func() { body(1) }, 1, 1, 50, 1000)

	if err := k.StartAsync(); err != nil {
		t.Fatalf("StartAsync: %v", err)
	}
	defer k.Stop()

	for i := 0; i < 100 && len(acquired) == 0; i++ {
		k.Tick()
		time.Sleep(time.Millisecond)
	}
	pollUntil(t, func() bool { return len(acquired) > 0 })
	first := <-acquired

	select {
	case second := <-acquired:
		t.Fatalf("both %d and %d report holding the mutex concurrently before a release", first, second)
	default:
	}

	// The holder's SpinWait only finishes as ticks advance its sleep counter.
	for i := 0; i < 100 && len(released) == 0; i++ {
		k.Tick()
		time.Sleep(time.Millisecond)
	}
	pollUntil(t, func() bool { return len(released) > 0 })
	<-released
	for i := 0; i < 100 && len(acquired) == 0; i++ {
		k.Tick()
		time.Sleep(time.Millisecond)
	}
	pollUntil(t, func() bool { return len(acquired) > 0 })
}
