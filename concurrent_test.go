package fxp_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brickingsoft/fxp"
)

func TestConcurrent_Submit(t *testing.T) {
	queue, queueErr := fxp.New(fxp.WithMode(fxp.ConcurrentMode))
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}

	n := 100
	ran := new(atomic.Int64)
	wg := new(sync.WaitGroup)
	wg.Add(n)
	for i := 0; i < n; i++ {
		submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
			ran.Add(1)
			wg.Done()
		}))
		if submitErr != nil {
			t.Fatal(submitErr)
			return
		}
	}
	wg.Wait()

	if err := queue.Close(); err != nil {
		t.Error(err)
	}
	if got := ran.Load(); got != int64(n) {
		t.Error("ran", got, "tasks, want", n)
	}
}

func TestConcurrent_Occupied(t *testing.T) {
	queue, queueErr := fxp.New(fxp.WithMode(fxp.ConcurrentMode))
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}
	defer func() {
		if err := queue.Close(); err != nil {
			t.Error(err)
		}
	}()

	if queue.Occupied() {
		t.Error("occupied from outside the queue")
	}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
		if !queue.Occupied() {
			t.Error("not occupied from inside a task")
		}
		wg.Done()
	}))
	if submitErr != nil {
		t.Fatal(submitErr)
		return
	}
	wg.Wait()
}

func TestConcurrent_SubmitBusy(t *testing.T) {
	queue, queueErr := fxp.New(fxp.WithMode(fxp.ConcurrentMode), fxp.WithMaxGoroutines(1))
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}

	release := make(chan struct{})
	wg := new(sync.WaitGroup)
	wg.Add(1)
	started := make(chan struct{})
	submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
		close(started)
		<-release
		wg.Done()
	}))
	if submitErr != nil {
		t.Fatal(submitErr)
		return
	}
	<-started

	// 满载时的提交在重试耗尽后以 ErrBusy 放弃。
	err := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {}))
	if !fxp.IsBusy(err) {
		t.Error("submit while saturated:", err)
	}

	close(release)
	wg.Wait()
	if err = queue.Close(); err != nil {
		t.Error(err)
	}
}

func TestConcurrent_CloseSuspended(t *testing.T) {
	queue, queueErr := fxp.New(fxp.WithMode(fxp.ConcurrentMode))
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}

	queue.Suspend()

	n := 3
	ran := new(atomic.Int64)
	for i := 0; i < n; i++ {
		if submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
			ran.Add(1)
		})); submitErr != nil {
			t.Fatal(submitErr)
			return
		}
	}

	// 关闭会恢复挂起中的队列并等待积压重放完毕。
	if err := queue.Close(); err != nil {
		t.Fatal(err)
		return
	}
	if got := ran.Load(); got != int64(n) {
		t.Error("ran", got, "tasks, want", n)
	}
}

func TestConcurrent_TrySubmitSaturated(t *testing.T) {
	queue, queueErr := fxp.New(fxp.WithMode(fxp.ConcurrentMode), fxp.WithMaxGoroutines(1))
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}

	release := make(chan struct{})
	wg := new(sync.WaitGroup)
	wg.Add(1)
	started := make(chan struct{})
	submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
		close(started)
		<-release
		wg.Done()
	}))
	if submitErr != nil {
		t.Fatal(submitErr)
		return
	}
	<-started

	if ok := queue.TrySubmit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {})); ok {
		t.Error("try submit accepted while saturated")
	}

	close(release)
	wg.Wait()
	if err := queue.Close(); err != nil {
		t.Error(err)
	}
}

func TestConcurrent_SuspendResume(t *testing.T) {
	queue, queueErr := fxp.New(fxp.WithMode(fxp.ConcurrentMode))
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}
	defer func() {
		if err := queue.Close(); err != nil {
			t.Error(err)
		}
	}()

	queue.Suspend()

	n := 3
	locker := new(sync.Mutex)
	order := make([]int, 0, n)
	wg := new(sync.WaitGroup)
	wg.Add(n)
	for i := 0; i < n; i++ {
		submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
			locker.Lock()
			order = append(order, i)
			locker.Unlock()
			wg.Done()
		}))
		if submitErr != nil {
			t.Fatal(submitErr)
			return
		}
	}

	locker.Lock()
	if len(order) != 0 {
		t.Error("tasks ran while suspended")
	}
	locker.Unlock()
	if got := queue.Length(); got != int64(n) {
		t.Error("length while suspended:", got, "want", n)
	}

	queue.Resume()
	wg.Wait()

	locker.Lock()
	defer locker.Unlock()
	for i, got := range order {
		if got != i {
			t.Fatal("replay order broken:", order)
			return
		}
	}
}
