package async

import (
	"context"
)

// Future
// 许诺的未来。
//
// 只读句柄，可被任意份共享。每个注册的处理器恰好被调用一次，
// 同一未来上的处理器按注册顺序派发。
type Future[R any] interface {
	// OnComplete
	// 注册一个结果处理器，成功或失败后恰好触发一次。
	//
	// 在完成前注册的会在完成时按注册顺序派发；
	// 在完成后注册的会在注册时立刻经由调度器派发。
	OnComplete(handler ResultHandler[R], options ...ObserveOption)
	// OnSuccess
	// 只注册成功处理器，失败时不触发。
	OnSuccess(handler func(ctx context.Context, entry R), options ...ObserveOption)
	// OnFailure
	// 只注册失败处理器，成功时不触发。
	OnFailure(handler func(ctx context.Context, cause error), options ...ObserveOption)
	// Value
	// 同步非阻塞读取成功值，未完成或失败时 has 为 false。
	Value() (entry R, has bool)
	// Cause
	// 同步非阻塞读取失败错误，未完成或成功时 has 为 false。
	Cause() (cause error, has bool)
	// Result
	// 同步非阻塞读取结果，未完成时 has 为 false。
	Result() (r Result[R], has bool)
	// Await
	// 阻塞等待完成并返回结果。
	//
	// 以系统级阻塞实现，不依赖任何调度器或队列循环；
	// 许诺被弃置时会永远阻塞。
	Await() (entry R, cause error)
}

func (f *futureImpl[R]) OnComplete(handler ResultHandler[R], options ...ObserveOption) {
	if handler == nil {
		return
	}
	f.cell.register(handler, observeScheduler(options))
}

func (f *futureImpl[R]) OnSuccess(handler func(ctx context.Context, entry R), options ...ObserveOption) {
	if handler == nil {
		return
	}
	f.cell.register(func(ctx context.Context, entry R, cause error) {
		if cause == nil {
			handler(ctx, entry)
		}
	}, observeScheduler(options))
}

func (f *futureImpl[R]) OnFailure(handler func(ctx context.Context, cause error), options ...ObserveOption) {
	if handler == nil {
		return
	}
	f.cell.register(func(ctx context.Context, _ R, cause error) {
		if cause != nil {
			handler(ctx, cause)
		}
	}, observeScheduler(options))
}

func (f *futureImpl[R]) Value() (entry R, has bool) {
	entry, has = f.cell.value()
	return
}

func (f *futureImpl[R]) Cause() (cause error, has bool) {
	cause, has = f.cell.failure()
	return
}

func (f *futureImpl[R]) Result() (r Result[R], has bool) {
	r, has = f.cell.outcome()
	return
}

func (f *futureImpl[R]) Await() (entry R, cause error) {
	entry, cause = f.cell.await()
	return
}
