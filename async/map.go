package async

import (
	"context"
	"fmt"

	"github.com/brickingsoft/errors"
)

// Map
// 映射成功值，失败按原样传递。
//
// transform 运行于 WithScheduler 指定的调度器（缺省为 Main）。
// 对上游未来的内部注册始终使用 Immediate，组合本身绝不强制跳线程。
func Map[S any, D any](ctx context.Context, sf Future[S], transform func(ctx context.Context, entry S) (d D, err error), options ...ObserveOption) (df Future[D]) {
	if sf == nil {
		df = FailedImmediately[D](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	if transform == nil {
		df = FailedImmediately[D](ctx, errors.From(ErrNilTransform, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	scheduler := observeScheduler(options)
	promise := Make[D](ctx)
	sf.OnComplete(func(ctx context.Context, entry S, cause error) {
		if cause != nil {
			promise.Fail(cause)
			return
		}
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			d, err := protect[S, D](ctx, entry, transform)
			promise.Complete(d, err)
		})
	}, WithScheduler(Immediate()))
	df = promise.Future()
	return
}

// FlatMap
// 映射成功值为一个新未来并接续其结果，失败按原样传递。
//
// 对内层未来的接续注册与外层一致使用 Immediate，链路不引入额外的跳线程。
func FlatMap[S any, D any](ctx context.Context, sf Future[S], transform func(ctx context.Context, entry S) (df Future[D]), options ...ObserveOption) (df Future[D]) {
	if sf == nil {
		df = FailedImmediately[D](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	if transform == nil {
		df = FailedImmediately[D](ctx, errors.From(ErrNilTransform, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	scheduler := observeScheduler(options)
	promise := Make[D](ctx)
	sf.OnComplete(func(ctx context.Context, entry S, cause error) {
		if cause != nil {
			promise.Fail(cause)
			return
		}
		scheduler.Dispatch(ctx, func(ctx context.Context) {
			next := protectFuture[S, D](ctx, entry, transform)
			next.OnComplete(func(ctx context.Context, d D, cause error) {
				promise.Complete(d, cause)
			}, WithScheduler(Immediate()))
		})
	}, WithScheduler(Immediate()))
	df = promise.Future()
	return
}

// protect
// 捕获变换函数的 panic 并转为失败。
func protect[S any, D any](ctx context.Context, entry S, transform func(ctx context.Context, entry S) (D, error)) (d D, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicked(v)
		}
	}()
	d, err = transform(ctx, entry)
	return
}

func protectFuture[S any, D any](ctx context.Context, entry S, transform func(ctx context.Context, entry S) (df Future[D])) (df Future[D]) {
	defer func() {
		if v := recover(); v != nil {
			df = FailedImmediately[D](ctx, panicked(v))
		}
	}()
	df = transform(ctx, entry)
	if df == nil {
		df = FailedImmediately[D](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
	}
	return
}

func panicked(v any) error {
	return errors.From(ErrTransformPanicked, errors.WithMeta(errMetaPkgKey, errMetaPkgVal), errors.WithWrap(fmt.Errorf("%+v", v)))
}
