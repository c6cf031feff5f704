package fxp

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fxp/pkg/rate/counter"
	"github.com/brickingsoft/fxp/pkg/rate/spin"
)

const (
	ns500 = 500 * time.Nanosecond
)

type Mode int

const (
	// SerialMode
	// 串行模式。
	//
	// 单一工作协程，严格按提交顺序执行。
	SerialMode Mode = iota
	// ConcurrentMode
	// 并发模式。
	//
	// 每个任务一个协程，上限为 WithMaxGoroutines。
	ConcurrentMode
)

// Queue
// 调度队列
//
// 任务的执行上下文。调度器（async.Scheduler）以它为派发目标。
//
// 串行队列严格先进先出，挂起中的队列不执行任何任务，直到恢复。
type Queue interface {
	// Context
	// 根上下文，已携带本队列。
	Context() context.Context
	// Submit
	// 提交一个任务。
	//
	// 串行模式下如果缓冲已满则等待。队列关闭后返回 ErrClosed。
	// 并发模式下满载时经短暂重试，仍无剩余协程则返回 ErrBusy。
	Submit(ctx context.Context, task Task) (err error)
	// TrySubmit
	// 尝试提交一个任务，如果缓冲已满或已关闭，则返回 false。
	TrySubmit(ctx context.Context, task Task) (ok bool)
	// Length
	// 排队中与执行中的任务数量。
	Length() (n int64)
	// Running
	// 是否运行中
	Running() bool
	// Occupied
	// 调用协程是否正在本队列上执行任务。
	Occupied() bool
	// Suspend
	// 挂起队列，已提交的任务会积压而不被执行。
	Suspend()
	// Resume
	// 恢复队列，积压的任务按提交顺序继续执行。
	Resume()
	// Close
	// 优雅关闭
	//
	// 此关会等待已提交的任务结束。挂起中的队列会被恢复，积压在关闭返回前执行完毕。
	// 如果需要关闭超时，则使用 WithCloseTimeout 进行设置。
	Close() (err error)
}

// New
// 创建调度队列
func New(options ...Option) (Queue, error) {
	opts := Options{
		Ctx:           nil,
		Mode:          SerialMode,
		BufferSize:    defaultBufferSize,
		MaxGoroutines: defaultMaxGoroutines,
		CloseTimeout:  0,
	}
	if options != nil {
		for _, option := range options {
			optErr := option(&opts)
			if optErr != nil {
				return nil, errors.New("new queue failed", errors.WithMeta(errMetaPkgKey, errMetaPkgVal), errors.WithWrap(optErr))
			}
		}
	}
	rootCtx := opts.Ctx
	if rootCtx == nil {
		rootCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(rootCtx)

	switch opts.Mode {
	case SerialMode:
		queue := &serial{
			ctx:          nil,
			ctxCancel:    cancel,
			locker:       spin.New(),
			running:      new(atomic.Bool),
			entries:      make(chan taskEntry, opts.BufferSize),
			length:       counter.New(),
			workerGID:    new(atomic.Uint64),
			closeTimeout: opts.CloseTimeout,
			stopCh:       make(chan struct{}),
		}
		queue.ctx = With(ctx, queue)
		queue.start()
		return queue, nil
	case ConcurrentMode:
		queue := &concurrent{
			ctx:           nil,
			ctxCancel:     cancel,
			maxGoroutines: int64(opts.MaxGoroutines),
			locker:        spin.New(),
			running:       new(atomic.Bool),
			active:        make(map[uint64]struct{}),
			goroutines:    counter.New(),
			closeTimeout:  opts.CloseTimeout,
		}
		queue.ctx = With(ctx, queue)
		queue.start()
		return queue, nil
	default:
		cancel()
		return nil, errors.New("new queue failed", errors.WithMeta(errMetaPkgKey, errMetaPkgVal), errors.WithWrap(errors.New("invalid mode")))
	}
}
