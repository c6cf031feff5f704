package fxp

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fxp/pkg/gid"
	"github.com/brickingsoft/fxp/pkg/rate/counter"
)

type serial struct {
	ctx          context.Context
	ctxCancel    context.CancelFunc
	locker       sync.Locker
	running      *atomic.Bool
	suspended    bool
	resumeCh     chan struct{}
	entries      chan taskEntry
	length       *counter.Counter
	workerGID    *atomic.Uint64
	closeTimeout time.Duration
	stopCh       chan struct{}
}

func (queue *serial) Context() context.Context {
	return queue.ctx
}

func (queue *serial) Submit(ctx context.Context, task Task) (err error) {
	if task == nil {
		err = errors.New("task is nil", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
		return
	}
	if ctx == nil {
		ctx = queue.ctx
	} else {
		ctx = With(ctx, queue)
	}
	// 先占位再查运行态：通过了运行态检查的提交必然已被关闭方的等待计数覆盖。
	queue.length.Incr()
	if !queue.running.Load() {
		queue.length.Decr()
		err = errors.From(ErrClosed)
		return
	}
	select {
	case queue.entries <- taskEntry{ctx: ctx, task: task}:
		return
	case <-queue.stopCh:
		queue.length.Decr()
		err = errors.From(ErrClosed)
		return
	}
}

func (queue *serial) TrySubmit(ctx context.Context, task Task) (ok bool) {
	if task == nil {
		return false
	}
	if ctx == nil {
		ctx = queue.ctx
	} else {
		ctx = With(ctx, queue)
	}
	queue.length.Incr()
	if !queue.running.Load() {
		queue.length.Decr()
		return false
	}
	select {
	case queue.entries <- taskEntry{ctx: ctx, task: task}:
		ok = true
		return
	default:
		queue.length.Decr()
		return false
	}
}

func (queue *serial) Length() (n int64) {
	n = queue.length.Value()
	return
}

func (queue *serial) Running() bool {
	return queue.running.Load()
}

func (queue *serial) Occupied() bool {
	id := queue.workerGID.Load()
	return id != 0 && id == gid.Get()
}

func (queue *serial) Suspend() {
	queue.locker.Lock()
	if !queue.suspended {
		queue.suspended = true
		queue.resumeCh = make(chan struct{})
	}
	queue.locker.Unlock()
}

func (queue *serial) Resume() {
	queue.locker.Lock()
	if queue.suspended {
		queue.suspended = false
		close(queue.resumeCh)
	}
	queue.locker.Unlock()
}

func (queue *serial) Close() (err error) {
	if ok := queue.running.CompareAndSwap(true, false); !ok {
		err = errors.New("queue already closed", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
		return
	}

	// 优雅关闭必须执行完积压，挂起中的队列先恢复再排空。
	queue.Resume()

	ctx := queue.ctx
	cancel := queue.ctxCancel
	defer func() {
		close(queue.stopCh)
		cancel()
	}()

	if closeTimeout := queue.closeTimeout; closeTimeout > 0 {
		waitCtx, waitCtxCancel := context.WithTimeout(ctx, closeTimeout)
		waitErr := queue.length.WaitDownTo(waitCtx, 0)
		waitCtxCancel()
		if waitErr != nil {
			err = errors.From(ErrCloseFailed, errors.WithWrap(waitErr))
			return
		}
		return
	}
	if waitErr := queue.length.WaitDownTo(ctx, 0); waitErr != nil {
		err = errors.From(ErrCloseFailed, errors.WithWrap(waitErr))
		return
	}
	return
}

func (queue *serial) start() {
	queue.running.Store(true)
	go func(queue *serial) {
		queue.workerGID.Store(gid.Get())
		for {
			select {
			case <-queue.stopCh:
				return
			case entry := <-queue.entries:
				if !queue.waitResumed() {
					queue.length.Decr()
					return
				}
				entry.task.Handle(entry.ctx)
				queue.length.Decr()
			}
		}
	}(queue)
}

// waitResumed
// 挂起期间阻塞工作协程，恢复后返回 true，关闭后返回 false。
func (queue *serial) waitResumed() bool {
	for {
		queue.locker.Lock()
		suspended := queue.suspended
		resumeCh := queue.resumeCh
		queue.locker.Unlock()
		if !suspended {
			return true
		}
		select {
		case <-resumeCh:
		case <-queue.stopCh:
			return false
		}
	}
}
