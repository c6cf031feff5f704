package async_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brickingsoft/fxp"
	"github.com/brickingsoft/fxp/async"
)

func TestImmediate(t *testing.T) {
	ran := false
	async.Immediate().Dispatch(context.Background(), func(ctx context.Context) {
		ran = true
	})
	if !ran {
		t.Error("immediate dispatch was not synchronous")
	}
}

func TestMain_Undesignated(t *testing.T) {
	async.Designate(nil)
	ran := false
	async.Main().Dispatch(context.Background(), func(ctx context.Context) {
		ran = true
	})
	if !ran {
		t.Error("main dispatch without a designated queue was not synchronous")
	}
}

func TestDesignate(t *testing.T) {
	queue, queueErr := fxp.New()
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}
	async.Designate(queue)
	defer func() {
		async.Designate(nil)
		if err := queue.Close(); err != nil {
			t.Error(err)
		}
	}()

	wg := new(sync.WaitGroup)
	wg.Add(1)
	onQueue := false
	async.Main().Dispatch(context.Background(), func(ctx context.Context) {
		onQueue = queue.Occupied()
		wg.Done()
	})
	wg.Wait()
	if !onQueue {
		t.Error("main dispatch did not land on the designated queue")
	}
}

func TestPreferring(t *testing.T) {
	queue, queueErr := fxp.New()
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}
	defer func() {
		if err := queue.Close(); err != nil {
			t.Error(err)
		}
	}()

	scheduler := async.Preferring(queue)

	// 队列之外派发为异步。
	outside := make(chan bool, 1)
	scheduler.Dispatch(context.Background(), func(ctx context.Context) {
		outside <- queue.Occupied()
	})
	if ok := <-outside; !ok {
		t.Error("dispatch from outside the queue did not land on it")
	}

	// 队列之内派发为同步，返回前已执行。
	wg := new(sync.WaitGroup)
	wg.Add(1)
	submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
		defer wg.Done()
		ran := false
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			ran = true
		})
		if !ran {
			t.Error("dispatch from the queue itself was not synchronous")
		}
	}))
	if submitErr != nil {
		t.Fatal(submitErr)
		return
	}
	wg.Wait()
}

func TestOn_AlwaysAsync(t *testing.T) {
	queue, queueErr := fxp.New()
	if queueErr != nil {
		t.Fatal(queueErr)
		return
	}
	defer func() {
		if err := queue.Close(); err != nil {
			t.Error(err)
		}
	}()

	scheduler := async.On(queue)

	// 即使已在队列上，也不内联执行。
	wg := new(sync.WaitGroup)
	wg.Add(2)
	submitErr := queue.Submit(context.Background(), fxp.TaskFunc(func(ctx context.Context) {
		defer wg.Done()
		ran := false
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			ran = true
			wg.Done()
		})
		if ran {
			t.Error("on-queue dispatch ran inline")
		}
	}))
	if submitErr != nil {
		t.Fatal(submitErr)
		return
	}
	wg.Wait()
}

func TestOn_SuspendedQueue(t *testing.T) {
	queue, queueErr := fxp.New()
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

	ctx := context.Background()
	promise := async.Make[int](ctx)
	future := promise.Future()

	wg := new(sync.WaitGroup)
	wg.Add(1)
	ranAt := time.Time{}
	future.OnComplete(func(ctx context.Context, entry int, cause error) {
		ranAt = time.Now()
		wg.Done()
	}, async.WithScheduler(async.On(queue)))

	promise.Succeed(1)

	// 挂起中的队列不运行处理器。
	if n := queue.Length(); n != 1 {
		t.Error("queue length:", n, "want 1")
	}
	resumedAt := time.Now()
	queue.Resume()
	wg.Wait()

	if ranAt.Before(resumedAt) {
		t.Error("handler ran before the queue was resumed")
	}
}
