package pool

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	t.Parallel()
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestGoCollectsResults(t *testing.T) {
	t.Parallel()
	p, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if p.Size() != 4 {
		t.Errorf("Size() = %d, want 4", p.Size())
	}

	futures := make([]*Future[int], 32)
	for i := range futures {
		f, err := Go(p, func() (int, error) { return i * i, nil })
		if err != nil {
			t.Fatal(err)
		}
		futures[i] = f
	}
	for i, f := range futures {
		got, err := f.Wait()
		if err != nil {
			t.Fatalf("task %d: %v", i, err)
		}
		if got != i*i {
			t.Errorf("task %d = %d, want %d", i, got, i*i)
		}
	}
}

func TestGoReportsErrorAndPanic(t *testing.T) {
	t.Parallel()
	p, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	boom := errors.New("range failed")
	failing, _ := Go(p, func() (int, error) { return 0, boom })
	panicking, _ := Go(p, func() (int, error) { panic("bad range") })
	healthy, _ := Go(p, func() (int, error) { return 7, nil })

	if _, err := failing.Wait(); !errors.Is(err, boom) {
		t.Errorf("failing task error = %v, want %v", err, boom)
	}
	if _, err := panicking.Wait(); err == nil || !strings.Contains(err.Error(), "bad range") {
		t.Errorf("panicking task error = %v, want panic message", err)
	}
	// The worker that recovered from the panic keeps serving tasks.
	if v, err := healthy.Wait(); err != nil || v != 7 {
		t.Errorf("healthy task = %d, %v", v, err)
	}
}

func TestWorkersArePersistent(t *testing.T) {
	t.Parallel()
	const size = 3
	p, err := New(size)
	if err != nil {
		t.Fatal(err)
	}

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for range 30 {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		}); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
	p.Close()
	if got := peak.Load(); got > size {
		t.Errorf("observed %d concurrent tasks on a pool of %d", got, size)
	}
}

func TestCloseDrainsAndRejects(t *testing.T) {
	t.Parallel()
	p, err := New(1)
	if err != nil {
		t.Fatal(err)
	}
	var done atomic.Int32
	for range 5 {
		if err := p.Submit(func() {
			time.Sleep(time.Millisecond)
			done.Add(1)
		}); err != nil {
			t.Fatal(err)
		}
	}
	p.Close()
	p.Close()
	if got := done.Load(); got != 5 {
		t.Errorf("%d tasks finished before Close returned, want 5", got)
	}
	if err := p.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit after Close = %v, want ErrPoolClosed", err)
	}
	if _, err := Go(p, func() (int, error) { return 0, nil }); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Go after Close = %v, want ErrPoolClosed", err)
	}
}

// TestErrorCollectorHighContention verifies that ErrorCollector captures
// exactly one error under contention from many goroutines.
func TestErrorCollectorHighContention(t *testing.T) {
	t.Parallel()
	for round := range 50 {
		var ec ErrorCollector
		var wg sync.WaitGroup
		barrier := make(chan struct{})

		wg.Add(500)
		for i := range 500 {
			go func() {
				defer wg.Done()
				<-barrier
				if i%2 == 0 {
					ec.SetError(nil)
					return
				}
				ec.SetError(fmt.Errorf("range %d failed", i))
			}()
		}
		close(barrier)
		wg.Wait()

		err := ec.Err()
		if err == nil {
			t.Fatalf("round %d: expected an error, got nil", round)
		}
		if !strings.HasPrefix(err.Error(), "range ") {
			t.Errorf("round %d: unexpected error %v", round, err)
		}
	}
}
