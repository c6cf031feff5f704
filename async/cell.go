package async

import (
	"context"
	"sync"
)

type cellState int

const (
	statePending cellState = iota
	stateSucceeded
	stateFailed
)

type waiter[R any] struct {
	handler   ResultHandler[R]
	scheduler Scheduler
}

// cell
// 状态单元。
//
// 锁只保护 tag 与等待者列表，用户处理器永不在锁内执行。
// 离开 pending 后不再变更，entry 与 cause 在 done 关闭前写定。
type cell[R any] struct {
	ctx     context.Context
	locker  sync.Mutex
	state   cellState
	entry   R
	cause   error
	waiters []waiter[R]
	done    chan struct{}
}

func newCell[R any](ctx context.Context) *cell[R] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &cell[R]{
		ctx:  ctx,
		done: make(chan struct{}),
	}
}

func newResolvedCell[R any](ctx context.Context, entry R, cause error) *cell[R] {
	c := newCell[R](ctx)
	if cause != nil {
		c.state = stateFailed
		c.cause = cause
	} else {
		c.state = stateSucceeded
		c.entry = entry
	}
	close(c.done)
	return c
}

// complete
// 只第一次生效，之后的尝试被静默忽略。
// 等待者在锁外按注册顺序经由各自的调度器派发。
func (c *cell[R]) complete(entry R, cause error) {
	c.locker.Lock()
	if c.state != statePending {
		c.locker.Unlock()
		return
	}
	if cause != nil {
		c.state = stateFailed
		c.cause = cause
	} else {
		c.state = stateSucceeded
		c.entry = entry
	}
	waiters := c.waiters
	c.waiters = nil
	close(c.done)
	c.locker.Unlock()

	for _, w := range waiters {
		c.dispatch(w)
	}
}

// register
// pending 时追加等待者；已完成时立刻经由调度器派发，不走等待者路径。
func (c *cell[R]) register(handler ResultHandler[R], scheduler Scheduler) {
	c.locker.Lock()
	if c.state == statePending {
		c.waiters = append(c.waiters, waiter[R]{handler: handler, scheduler: scheduler})
		c.locker.Unlock()
		return
	}
	c.locker.Unlock()
	c.dispatch(waiter[R]{handler: handler, scheduler: scheduler})
}

func (c *cell[R]) dispatch(w waiter[R]) {
	entry, cause := c.entry, c.cause
	w.scheduler.Dispatch(c.ctx, func(ctx context.Context) {
		w.handler(ctx, entry, cause)
	})
}

func (c *cell[R]) value() (entry R, has bool) {
	c.locker.Lock()
	if c.state == stateSucceeded {
		entry = c.entry
		has = true
	}
	c.locker.Unlock()
	return
}

func (c *cell[R]) failure() (cause error, has bool) {
	c.locker.Lock()
	if c.state == stateFailed {
		cause = c.cause
		has = true
	}
	c.locker.Unlock()
	return
}

func (c *cell[R]) outcome() (r Result[R], has bool) {
	c.locker.Lock()
	if c.state != statePending {
		r = result[R]{entry: c.entry, cause: c.cause}
		has = true
	}
	c.locker.Unlock()
	return
}

func (c *cell[R]) await() (entry R, cause error) {
	<-c.done
	entry, cause = c.entry, c.cause
	return
}
