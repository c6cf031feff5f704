package async

import (
	"context"

	"github.com/brickingsoft/errors"
)

// MapError
// 映射失败错误，成功按原样传递。
//
// transform 运行于 WithScheduler 指定的调度器（缺省为 Main）；
// 对上游未来的内部注册始终使用 Immediate。
func MapError[R any](ctx context.Context, sf Future[R], transform func(ctx context.Context, cause error) error, options ...ObserveOption) (df Future[R]) {
	if sf == nil {
		df = FailedImmediately[R](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	if transform == nil {
		df = FailedImmediately[R](ctx, errors.From(ErrNilTransform, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	scheduler := observeScheduler(options)
	promise := Make[R](ctx)
	sf.OnComplete(func(ctx context.Context, entry R, cause error) {
		if cause == nil {
			promise.Succeed(entry)
			return
		}
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			promise.Fail(protectError(ctx, cause, transform))
		})
	}, WithScheduler(Immediate()))
	df = promise.Future()
	return
}

// FlatMapError
// 映射失败错误为一个恢复未来并接续其结果，成功按原样传递。
func FlatMapError[R any](ctx context.Context, sf Future[R], transform func(ctx context.Context, cause error) (df Future[R]), options ...ObserveOption) (df Future[R]) {
	if sf == nil {
		df = FailedImmediately[R](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	if transform == nil {
		df = FailedImmediately[R](ctx, errors.From(ErrNilTransform, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	scheduler := observeScheduler(options)
	promise := Make[R](ctx)
	sf.OnComplete(func(ctx context.Context, entry R, cause error) {
		if cause == nil {
			promise.Succeed(entry)
			return
		}
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			next := protectRecovery[R](ctx, cause, transform)
			next.OnComplete(func(ctx context.Context, entry R, cause error) {
				promise.Complete(entry, cause)
			}, WithScheduler(Immediate()))
		})
	}, WithScheduler(Immediate()))
	df = promise.Future()
	return
}

func protectError(ctx context.Context, cause error, transform func(ctx context.Context, cause error) error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicked(v)
		}
	}()
	err = transform(ctx, cause)
	return
}

func protectRecovery[R any](ctx context.Context, cause error, transform func(ctx context.Context, cause error) (df Future[R])) (df Future[R]) {
	defer func() {
		if v := recover(); v != nil {
			df = FailedImmediately[R](ctx, panicked(v))
		}
	}()
	df = transform(ctx, cause)
	if df == nil {
		df = FailedImmediately[R](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
	}
	return
}
