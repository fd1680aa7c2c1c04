package tracer

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestJobSystemDispatch(t *testing.T) {
	type spec struct {
		units     int
		groupSize int
		expGroups int
	}
	specs := []spec{
		{100, 10, 10},
		{100, 7, 15},
		{1, 10, 1},
		{0, 10, 0},
		{10, 0, 0},
	}

	js := NewJobSystem()
	js.Init(4)
	defer js.Shutdown()

	for index, s := range specs {
		counts := make([]int32, s.units)
		groups := make([]int32, max(s.expGroups, 1))

		err := js.Dispatch(s.units, s.groupSize, func(args JobDispatchArgs) error {
			atomic.AddInt32(&counts[args.JobIndex], 1)
			atomic.StoreInt32(&groups[args.GroupIndex], 1)
			if args.GroupIndex != args.JobIndex/s.groupSize {
				return errors.New("unit processed by the wrong group")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("[spec %d] unexpected dispatch error: %v", index, err)
		}
		if err = js.Sync(); err != nil {
			t.Fatalf("[spec %d] unexpected job error: %v", index, err)
		}

		expCount := int32(1)
		if s.expGroups == 0 {
			expCount = 0
		}
		for unit, count := range counts {
			if count != expCount {
				t.Fatalf("[spec %d] expected unit %d to run %d times; got %d", index, unit, expCount, count)
			}
		}
		seen := 0
		for _, g := range groups {
			seen += int(g)
		}
		if seen != s.expGroups {
			t.Fatalf("[spec %d] expected %d groups; got %d", index, s.expGroups, seen)
		}
	}
}

func TestJobSystemErrors(t *testing.T) {
	js := NewJobSystem()
	js.Init(2)
	defer js.Shutdown()

	errFoo := errors.New("foo")
	var completed atomic.Int32
	for i := 0; i < 10; i++ {
		i := i
		err := js.Execute(func() error {
			defer completed.Add(1)
			switch i {
			case 3:
				return errFoo
			case 7:
				panic("boom")
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	err := js.Sync()
	if err == nil {
		t.Fatal("expected Sync to report job failures")
	}
	if !errors.Is(err, errFoo) {
		t.Fatalf("expected Sync error to wrap the job error; got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected Sync error to include the recovered panic; got %v", err)
	}
	if completed.Load() != 10 {
		t.Fatalf("expected all 10 jobs to complete; got %d", completed.Load())
	}

	// Errors are reported once and workers keep running
	if err = js.Execute(func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err = js.Sync(); err != nil {
		t.Fatalf("expected errors to be cleared after Sync; got %v", err)
	}
}

func TestJobSystemLifecycle(t *testing.T) {
	js := NewJobSystem()
	if err := js.Execute(func() error { return nil }); !errors.Is(err, ErrJobSystemStopped) {
		t.Fatalf("expected ErrJobSystemStopped before Init; got %v", err)
	}

	js.Init(3)
	js.Init(8)
	if js.Workers() != 3 {
		t.Fatalf("expected repeated Init to be a no-op; got %d workers", js.Workers())
	}

	// Queued work is drained on shutdown
	var ran atomic.Int32
	for i := 0; i < 50; i++ {
		if err := js.Execute(func() error { ran.Add(1); return nil }); err != nil {
			t.Fatal(err)
		}
	}
	js.Shutdown()
	if ran.Load() != 50 {
		t.Fatalf("expected queued jobs to drain on shutdown; got %d", ran.Load())
	}
	if js.Running() {
		t.Fatal("expected job system to be stopped")
	}
	if err := js.Execute(func() error { return nil }); !errors.Is(err, ErrJobSystemStopped) {
		t.Fatalf("expected ErrJobSystemStopped after Shutdown; got %v", err)
	}
	if err := js.Sync(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-init
	js.Init(0)
	if js.Workers() != DefaultWorkerCount() {
		t.Fatalf("expected %d workers; got %d", DefaultWorkerCount(), js.Workers())
	}
	if err := js.Execute(func() error { ran.Add(1); return nil }); err != nil {
		t.Fatal(err)
	}
	if err := js.Sync(); err != nil {
		t.Fatal(err)
	}
	if ran.Load() != 51 {
		t.Fatalf("expected job to run after re-init; got %d", ran.Load())
	}
	js.Shutdown()
	js.Shutdown()
}
