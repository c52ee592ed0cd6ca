// main.go - demo harness entry point, grounded on the teacher's main.go:
// a boilerplate banner, os.Args-driven mode selection, and an --features
// flag wired to printFeatures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// Version is the reported build version; bump on release.
const Version = "0.1.0"

func boilerPlate() {
	fmt.Println("rtkernel - a rate-monotonic scheduler with Priority Ceiling Protocol mutexes")
	fmt.Printf("Version %s\n", Version)
}

func main() {
	featuresFlag := flag.Bool("features", false, "print compiled features and exit")
	versionFlag := flag.Bool("version", false, "print version and exit")
	scenario := flag.String("scenario", "basic", "demo scenario to run: basic, pcp-lockout, unschedulable")
	flag.Parse()

	if *versionFlag {
		fmt.Println(Version)
		return
	}
	if *featuresFlag {
		printFeatures()
		return
	}

	boilerPlate()

	if err := runDemo(*scenario); err != nil {
		fmt.Fprintf(os.Stderr, "rtkernel: %v\n", err)
		os.Exit(1)
	}
}

// runDemo wires up a kernel, a console, and a Gantt backend for one of the
// seed scenarios, and lets it run for about 200ms of wall-clock time. The
// tick-driving and Gantt-render goroutines are supervised with an errgroup
// so an error returned by either surfaces from runDemo instead of being
// silently dropped, the way the teacher's own goroutine-heavy subsystems
// report failures back to their caller. Task goroutines are started by
// StartAsync and are not part of the group.
func runDemo(name string) error {
	k := NewKernel(WithTickPeriod(time.Millisecond))
	console := NewConsole()
	_ = NewTrap(k, console)

	gantt, err := NewGanttBackend()
	if err != nil {
		return fmt.Errorf("gantt backend: %w", err)
	}
	if err := gantt.Start(); err != nil {
		return fmt.Errorf("gantt start: %w", err)
	}
	defer gantt.Stop()

	if err := k.ThreadInit(func() {
		for {
			k.awaitScheduled(idlePriority)
		}
	}, 1); err != nil {
		return fmt.Errorf("thread init: %w", err)
	}

	switch name {
	case "pcp-lockout":
		var m pcpMutex
		if err := k.MutexInit(&m, 2); err != nil {
			return err
		}
		if err := spawnPeriodic(k, 0, 1, 2, 10, func(p uint32) {
			k.MutexLock(p, &m)
			k.SpinWait(p, 2)
			k.MutexUnlock(p, &m)
		}); err != nil {
			return err
		}
		if err := spawnPeriodic(k, 1, 1, 3, 20, func(p uint32) {
			k.MutexLock(p, &m)
			k.SpinWait(p, 3)
			k.MutexUnlock(p, &m)
		}); err != nil {
			return err
		}
	case "unschedulable":
		if err := spawnPeriodic(k, 0, 1, 9, 10, func(p uint32) { k.SpinWait(p, 1) }); err != nil {
			return err
		}
		if err := spawnPeriodic(k, 1, 1, 9, 10, func(p uint32) { k.SpinWait(p, 1) }); err != nil {
			return err
		}
	default: // basic
		if err := spawnPeriodic(k, 0, 1, 2, 10, func(p uint32) { k.SpinWait(p, 1) }); err != nil {
			return err
		}
		if err := spawnPeriodic(k, 1, 1, 3, 20, func(p uint32) { k.SpinWait(p, 1) }); err != nil {
			return err
		}
	}

	if err := k.StartAsync(); err != nil {
		return fmt.Errorf("scheduler start: %w", err)
	}
	defer k.Stop()

	// Drive ticking and periodic Gantt rendering as two supervised
	// goroutines bounded by a deadline, the way the teacher bounds its own
	// background workers with a cancelable context.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				k.Tick()
			}
		}
	})
	group.Go(func() error {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := gantt.Render(k.trace.Recent(64), idlePriority); err != nil {
					return err
				}
			}
		}
	})

	return group.Wait()
}

// spawnPeriodic installs a periodic task following the Kernel's own
// runTask shape: wait to be scheduled, run one period's work,
// wait_until_next_period, repeat. The task goroutine itself is spawned by
// Kernel.StartAsync, mirroring how the real trap stub is entered once per
// created TCB rather than by caller-managed goroutines.
func spawnPeriodic(k *Kernel, prio, stackTop, computation, period uint32, body func(uint32)) error {
	fn := func() {
		for {
			k.awaitScheduled(prio)
			body(prio)
			k.WaitUntilNextPeriod(prio)
		}
	}
	return k.ThreadCreate(fn, stackTop, prio, computation, period)
}
