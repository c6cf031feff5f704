package async

import (
	"context"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fxp/pkg/rate/spin"
)

// Zipped2
// 二元组
type Zipped2[A any, B any] struct {
	First  A
	Second B
}

// Zipped3
// 三元组
type Zipped3[A any, B any, C any] struct {
	First  A
	Second B
	Third  C
}

// Zip2
// 合并两个未来。
//
// 两个都成功后以二元组成功，完成顺序无关；
// 任一失败则以最先观察到的失败而失败，另一个的结果被丢弃，不会被取消。
func Zip2[A any, B any](ctx context.Context, fa Future[A], fb Future[B]) (future Future[Zipped2[A, B]]) {
	if fa == nil || fb == nil {
		future = FailedImmediately[Zipped2[A, B]](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	promise := Make[Zipped2[A, B]](ctx)
	z := &zip2Joiner[A, B]{
		promise: promise,
		locker:  spin.New(),
		remains: 2,
	}
	fa.OnComplete(z.first, WithScheduler(Immediate()))
	fb.OnComplete(z.second, WithScheduler(Immediate()))
	future = promise.Future()
	return
}

type zip2Joiner[A any, B any] struct {
	promise Promise[Zipped2[A, B]]
	locker  *spin.Locker
	zipped  Zipped2[A, B]
	remains int
}

func (z *zip2Joiner[A, B]) first(_ context.Context, entry A, cause error) {
	if cause != nil {
		z.promise.Fail(cause)
		return
	}
	z.locker.Lock()
	z.zipped.First = entry
	z.remains--
	done := z.remains == 0
	zipped := z.zipped
	z.locker.Unlock()
	if done {
		z.promise.Succeed(zipped)
	}
}

func (z *zip2Joiner[A, B]) second(_ context.Context, entry B, cause error) {
	if cause != nil {
		z.promise.Fail(cause)
		return
	}
	z.locker.Lock()
	z.zipped.Second = entry
	z.remains--
	done := z.remains == 0
	zipped := z.zipped
	z.locker.Unlock()
	if done {
		z.promise.Succeed(zipped)
	}
}

// Zip3
// 合并三个未来，策略与 Zip2 一致。
func Zip3[A any, B any, C any](ctx context.Context, fa Future[A], fb Future[B], fc Future[C]) (future Future[Zipped3[A, B, C]]) {
	if fa == nil || fb == nil || fc == nil {
		future = FailedImmediately[Zipped3[A, B, C]](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	zipped := Zip2[Zipped2[A, B], C](ctx, Zip2[A, B](ctx, fa, fb), fc)
	future = Map[Zipped2[Zipped2[A, B], C], Zipped3[A, B, C]](
		ctx,
		zipped,
		func(_ context.Context, entry Zipped2[Zipped2[A, B], C]) (Zipped3[A, B, C], error) {
			return Zipped3[A, B, C]{
				First:  entry.First.First,
				Second: entry.First.Second,
				Third:  entry.Second,
			}, nil
		},
		WithScheduler(Immediate()),
	)
	return
}

// Zip
// 合并一组未来为一个有序结果的未来。
//
// 全部成功后以输入顺序（而非完成顺序）的结果切片成功；
// 任一失败则以最先观察到的失败而失败，其余结果被丢弃。
func Zip[R any](ctx context.Context, futures []Future[R]) (future Future[[]R]) {
	if len(futures) == 0 {
		future = FailedImmediately[[]R](ctx, errors.From(ErrEmptyFutures, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
		return
	}
	for _, f := range futures {
		if f == nil {
			future = FailedImmediately[[]R](ctx, errors.From(ErrNilFuture, errors.WithMeta(errMetaPkgKey, errMetaPkgVal)))
			return
		}
	}
	promise := Make[[]R](ctx)
	z := &zipJoiner[R]{
		promise: promise,
		locker:  spin.New(),
		slots:   make([]R, len(futures)),
		remains: len(futures),
	}
	for i, f := range futures {
		f.OnComplete(func(_ context.Context, entry R, cause error) {
			z.complete(i, entry, cause)
		}, WithScheduler(Immediate()))
	}
	future = promise.Future()
	return
}

type zipJoiner[R any] struct {
	promise Promise[[]R]
	locker  *spin.Locker
	slots   []R
	remains int
}

func (z *zipJoiner[R]) complete(idx int, entry R, cause error) {
	if cause != nil {
		z.promise.Fail(cause)
		return
	}
	z.locker.Lock()
	z.slots[idx] = entry
	z.remains--
	done := z.remains == 0
	slots := z.slots
	z.locker.Unlock()
	if done {
		z.promise.Succeed(slots)
	}
}
