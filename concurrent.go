package fxp

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fxp/pkg/gid"
	"github.com/brickingsoft/fxp/pkg/rate/counter"
)

// 满载重试的上限，之后 Submit 以 ErrBusy 放弃。
const maxSubmitAttempts = 100

type concurrent struct {
	ctx           context.Context
	ctxCancel     context.CancelFunc
	maxGoroutines int64
	locker        sync.Locker
	running       *atomic.Bool
	suspended     bool
	pending       []taskEntry
	active        map[uint64]struct{}
	goroutines    *counter.Counter
	closeTimeout  time.Duration
}

func (queue *concurrent) Context() context.Context {
	return queue.ctx
}

func (queue *concurrent) Submit(ctx context.Context, task Task) (err error) {
	if task == nil {
		err = errors.New("task is nil", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
		return
	}
	if ctx == nil {
		ctx = queue.ctx
	} else {
		ctx = With(ctx, queue)
	}
	entry := taskEntry{ctx: ctx, task: task}
	attempts := 0
	times := 10
	for {
		if !queue.running.Load() {
			err = errors.From(ErrClosed)
			return
		}
		if queue.enqueue(entry) {
			return
		}
		attempts++
		if attempts >= maxSubmitAttempts {
			err = errors.From(ErrBusy)
			return
		}
		time.Sleep(ns500)
		times--
		if times < 0 {
			times = 10
			runtime.Gosched()
		}
	}
}

func (queue *concurrent) TrySubmit(ctx context.Context, task Task) (ok bool) {
	if task == nil || !queue.running.Load() {
		return false
	}
	if ctx == nil {
		ctx = queue.ctx
	} else {
		ctx = With(ctx, queue)
	}
	ok = queue.enqueue(taskEntry{ctx: ctx, task: task})
	return
}

// enqueue
// 挂起时积压，否则在有剩余协程时直启。
func (queue *concurrent) enqueue(entry taskEntry) (ok bool) {
	queue.locker.Lock()
	if queue.suspended {
		queue.pending = append(queue.pending, entry)
		queue.locker.Unlock()
		return true
	}
	if queue.goroutines.Value() >= queue.maxGoroutines {
		queue.locker.Unlock()
		return false
	}
	queue.goroutines.Incr()
	queue.locker.Unlock()
	queue.spawn(entry)
	return true
}

func (queue *concurrent) spawn(entry taskEntry) {
	go func(queue *concurrent, entry taskEntry) {
		id := gid.Get()
		queue.locker.Lock()
		queue.active[id] = struct{}{}
		queue.locker.Unlock()

		entry.task.Handle(entry.ctx)

		queue.locker.Lock()
		delete(queue.active, id)
		queue.locker.Unlock()
		queue.goroutines.Decr()
	}(queue, entry)
}

func (queue *concurrent) Length() (n int64) {
	queue.locker.Lock()
	n = queue.goroutines.Value() + int64(len(queue.pending))
	queue.locker.Unlock()
	return
}

func (queue *concurrent) Running() bool {
	return queue.running.Load()
}

func (queue *concurrent) Occupied() bool {
	id := gid.Get()
	queue.locker.Lock()
	_, ok := queue.active[id]
	queue.locker.Unlock()
	return ok
}

func (queue *concurrent) Suspend() {
	queue.locker.Lock()
	queue.suspended = true
	queue.locker.Unlock()
}

func (queue *concurrent) Resume() {
	queue.locker.Lock()
	if !queue.suspended {
		queue.locker.Unlock()
		return
	}
	queue.suspended = false
	pending := queue.pending
	queue.pending = nil
	queue.goroutines.Incr()
	queue.locker.Unlock()
	// 以一个协程按提交顺序重放积压的任务。
	go func(queue *concurrent, pending []taskEntry) {
		id := gid.Get()
		queue.locker.Lock()
		queue.active[id] = struct{}{}
		queue.locker.Unlock()

		for _, entry := range pending {
			entry.task.Handle(entry.ctx)
		}

		queue.locker.Lock()
		delete(queue.active, id)
		queue.locker.Unlock()
		queue.goroutines.Decr()
	}(queue, pending)
}

func (queue *concurrent) Close() (err error) {
	if ok := queue.running.CompareAndSwap(true, false); !ok {
		err = errors.New("queue already closed", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
		return
	}

	// 优雅关闭必须执行完积压，挂起中的队列先恢复再排空。
	queue.Resume()

	ctx := queue.ctx
	cancel := queue.ctxCancel
	defer cancel()

	if closeTimeout := queue.closeTimeout; closeTimeout > 0 {
		waitCtx, waitCtxCancel := context.WithTimeout(ctx, closeTimeout)
		waitErr := queue.goroutines.WaitDownTo(waitCtx, 0)
		waitCtxCancel()
		if waitErr != nil {
			err = errors.From(ErrCloseFailed, errors.WithWrap(waitErr))
			return
		}
		return
	}
	if waitErr := queue.goroutines.WaitDownTo(ctx, 0); waitErr != nil {
		err = errors.From(ErrCloseFailed, errors.WithWrap(waitErr))
		return
	}
	return
}

func (queue *concurrent) start() {
	queue.running.Store(true)
}
