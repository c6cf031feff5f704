package async

import (
	"context"

	"github.com/brickingsoft/errors"
)

// Reduce
// 回收一组未来至一个未来：先合并，再以输入顺序左折叠。
//
// combine 依次处理 initial 与各结果（输入顺序，而非完成顺序），
// 运行于 WithScheduler 指定的调度器（缺省为 Main）。
// 任一输入失败则以最先观察到的失败而失败，策略与 Zip 一致。
func Reduce[A any, R any](ctx context.Context, initial A, futures []Future[R], combine func(acc A, entry R) A, options ...ObserveOption) (future Future[A]) {
	if combine == nil {
		future = FailedImmediately[A](ctx, errors.From(ErrNilTransform, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	scheduler := observeScheduler(options)
	promise := Make[A](ctx)
	Zip[R](ctx, futures).OnComplete(func(ctx context.Context, entries []R, cause error) {
		if cause != nil {
			promise.Fail(cause)
			return
		}
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			acc, err := fold[A, R](initial, entries, combine)
			promise.Complete(acc, err)
		})
	}, WithScheduler(Immediate()))
	future = promise.Future()
	return
}

func fold[A any, R any](initial A, entries []R, combine func(acc A, entry R) A) (acc A, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicked(v)
		}
	}()
	acc = initial
	for _, entry := range entries {
		acc = combine(acc, entry)
	}
	return
}
