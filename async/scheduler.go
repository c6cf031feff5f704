package async

import (
	"context"
	"sync"

	"github.com/brickingsoft/fxp"
)

// Scheduler
// 调度器，决定结果处理器运行于哪个执行上下文。
//
// 派发绝不会丢失：目标队列无法接收时（已关闭），任务在当前协程内联执行。
type Scheduler interface {
	// Dispatch
	// 运行一个任务。
	Dispatch(ctx context.Context, task fxp.TaskFunc)
}

// Immediate
// 立刻调度器。
//
// 在触发派发的协程上同步运行，不做任何归属检查。
func Immediate() Scheduler {
	return immediateScheduler{}
}

type immediateScheduler struct{}

func (immediateScheduler) Dispatch(ctx context.Context, task fxp.TaskFunc) {
	task(ctx)
}

// Preferring
// 偏好调度器。
//
// 若当前协程正运行于 queue 上，则同步运行；否则异步派发至 queue。
// 用于避免在热路径上无谓的跳线程。
func Preferring(queue fxp.Queue) Scheduler {
	return preferringScheduler{queue: queue}
}

// Main
// 主偏好调度器，注册类接口的缺省调度器。
//
// 目标为 Designate 指定的主队列。未指定主队列时退化为 Immediate，
// 因而在没有任何队列循环的程序里，未来与组合链依然可以推进。
func Main() Scheduler {
	return preferringScheduler{}
}

type preferringScheduler struct {
	queue fxp.Queue
}

func (s preferringScheduler) Dispatch(ctx context.Context, task fxp.TaskFunc) {
	queue := s.queue
	if queue == nil {
		queue = Designated()
	}
	if queue == nil || queue.Occupied() {
		task(ctx)
		return
	}
	if err := queue.Submit(ctx, task); err != nil {
		task(ctx)
	}
}

// On
// 定向调度器。
//
// 总是异步派发至 queue，即使当前协程已在 queue 上。
// 相对于队列中已有的任务保持严格先进先出：挂起中的队列不运行处理器，直到恢复。
func On(queue fxp.Queue) Scheduler {
	return onScheduler{queue: queue}
}

type onScheduler struct {
	queue fxp.Queue
}

func (s onScheduler) Dispatch(ctx context.Context, task fxp.TaskFunc) {
	if s.queue == nil {
		task(ctx)
		return
	}
	if err := s.queue.Submit(ctx, task); err != nil {
		task(ctx)
	}
}

var (
	designateLocker sync.Mutex
	designatedQueue fxp.Queue
)

// Designate
// 指定主队列，Main 以它为目标。传入 nil 撤销指定。
func Designate(queue fxp.Queue) {
	designateLocker.Lock()
	designatedQueue = queue
	designateLocker.Unlock()
}

// Designated
// 获取指定的主队列，未指定时为 nil。
func Designated() (queue fxp.Queue) {
	designateLocker.Lock()
	queue = designatedQueue
	designateLocker.Unlock()
	return
}
