package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fired int32

	for i := 0; i < 5; i++ {
		d.Do(func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncerStopDropsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired int32
	d.Do(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Errorf("fired %d times after Stop, want 0", got)
	}
}

func TestSequencerCancelsSuperseded(t *testing.T) {
	var s Sequencer

	gen1, ctx1 := s.Next(context.Background())
	gen2, ctx2 := s.Next(context.Background())

	select {
	case <-ctx1.Done():
	default:
		t.Error("first generation's context should be cancelled")
	}
	select {
	case <-ctx2.Done():
		t.Error("latest generation's context should stay live")
	default:
	}

	if s.Latest(gen1) {
		t.Error("superseded generation still reported latest")
	}
	if !s.Latest(gen2) {
		t.Error("newest generation not reported latest")
	}
}

func TestRunnerDeliversLatestOnly(t *testing.T) {
	r := NewRunner(10 * time.Millisecond)

	type delivery struct {
		result interface{}
		err    error
	}
	var mu sync.Mutex
	delivered := map[string]delivery{}
	deliver := func(q string, result interface{}, err error) {
		mu.Lock()
		delivered[q] = delivery{result: result, err: err}
		mu.Unlock()
	}

	started := make(chan string, 2)
	release := make(chan struct{})
	fetch := func(ctx context.Context, q string) (interface{}, error) {
		started <- q
		if q == "a" {
			// Hold the first lookup in flight until the newer one lands.
			<-release
		}
		return "result:" + q, nil
	}

	r.Search(context.Background(), "a", fetch, deliver)
	if q := <-started; q != "a" {
		t.Fatalf("first lookup = %q", q)
	}

	r.Search(context.Background(), "ab", fetch, deliver)
	if q := <-started; q != "ab" {
		t.Fatalf("second lookup = %q", q)
	}
	close(release)

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		got := len(delivered)
		mu.Unlock()
		if got == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("only %d deliveries within a second, want 2", got)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if d := delivered["a"]; d.err != ErrSuperseded {
		t.Errorf("superseded query err = %v, want ErrSuperseded", d.err)
	}
	if d := delivered["ab"]; d.err != nil || d.result != "result:ab" {
		t.Errorf("latest query delivered (%v, %v), want (result:ab, nil)", d.result, d.err)
	}
}

func TestRunnerDebouncesKeystrokes(t *testing.T) {
	r := NewRunner(25 * time.Millisecond)

	var fetches int32
	fetch := func(ctx context.Context, q string) (interface{}, error) {
		atomic.AddInt32(&fetches, 1)
		return q, nil
	}

	type delivery struct {
		query string
		err   error
	}
	done := make(chan delivery, 4)
	deliver := func(q string, result interface{}, err error) { done <- delivery{query: q, err: err} }

	for _, q := range []string{"a", "as", "ash", "asha"} {
		r.Search(context.Background(), q, fetch, deliver)
		time.Sleep(5 * time.Millisecond)
	}

	for i := 0; i < 4; i++ {
		select {
		case d := <-done:
			if d.query == "asha" {
				if d.err != nil {
					t.Errorf("final query err = %v, want nil", d.err)
				}
			} else if d.err != ErrSuperseded {
				t.Errorf("query %q err = %v, want ErrSuperseded", d.query, d.err)
			}
		case <-time.After(time.Second):
			t.Fatalf("only %d of 4 queries answered", i)
		}
	}
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("fetched %d times, want 1", got)
	}
}

// A keystroke displaced inside the debounce window must still be answered;
// a waiter blocked on its delivery cannot hang until the client goes away.
func TestRunnerAnswersDisplacedQuery(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)

	fetch := func(ctx context.Context, q string) (interface{}, error) {
		return "result:" + q, nil
	}
	wait := func(q string) chan error {
		ch := make(chan error, 1)
		r.Search(context.Background(), q, fetch, func(_ string, _ interface{}, err error) {
			ch <- err
		})
		return ch
	}

	first := wait("r")
	second := wait("ra")

	select {
	case err := <-first:
		if err != ErrSuperseded {
			t.Errorf("displaced query err = %v, want ErrSuperseded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("displaced query never answered")
	}
	select {
	case err := <-second:
		if err != nil {
			t.Errorf("latest query err = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("latest query never answered")
	}
}

func TestRunnerStopAnswersPending(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)

	ch := make(chan error, 1)
	r.Search(context.Background(), "r", func(ctx context.Context, q string) (interface{}, error) {
		return q, nil
	}, func(_ string, _ interface{}, err error) {
		ch <- err
	})
	r.Stop()

	select {
	case err := <-ch:
		if err != ErrSuperseded {
			t.Errorf("stopped query err = %v, want ErrSuperseded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("stopped query never answered")
	}
}
