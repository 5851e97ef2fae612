package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRunLoopSerializesPosts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewRunLoop()
	go loop.Run(ctx)

	// Closures mutate shared state without locks; the loop's single
	// goroutine is the only thing making this safe.
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := make(chan struct{})
			loop.Post(func() {
				counter++
				close(done)
			})
			<-done
		}()
	}
	wg.Wait()

	result := make(chan int, 1)
	loop.Post(func() { result <- counter })
	if got := <-result; got != 50 {
		t.Errorf("counter = %d, want 50", got)
	}
}

func TestRunLoopAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewRunLoop()
	go loop.Run(ctx)

	fired := make(chan struct{})
	loop.After(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("After callback never ran")
	}
}

func TestRunLoopAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewRunLoop()
	go loop.Run(ctx)

	fired := make(chan struct{}, 1)
	stop := loop.After(20*time.Millisecond, func() { fired <- struct{}{} })
	stop()

	select {
	case <-fired:
		t.Fatal("cancelled callback ran")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestRunLoopEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewRunLoop()
	go loop.Run(ctx)

	ticks := make(chan struct{}, 16)
	stop := loop.Every(5*time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}
	stop()
	stop() // cancel is idempotent
}

func TestRunLoopPostAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewRunLoop()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	<-done

	// Must not block or execute.
	loop.Post(func() { t.Error("closure ran after stop") })
	time.Sleep(20 * time.Millisecond)
}
