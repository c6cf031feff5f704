package async

import (
	"context"

	"github.com/brickingsoft/errors"
)

// SucceedImmediately
// 立刻成功的未来
func SucceedImmediately[R any](ctx context.Context, entry R) (f Future[R]) {
	f = &futureImpl[R]{cell: newResolvedCell[R](ctx, entry, nil)}
	return
}

// FailedImmediately
// 立刻失败的未来
func FailedImmediately[R any](ctx context.Context, cause error) (f Future[R]) {
	if cause == nil {
		cause = errors.From(ErrNilCause, errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
	}
	var entry R
	f = &futureImpl[R]{cell: newResolvedCell[R](ctx, entry, cause)}
	return
}

// Immediately
// 立刻的未来
func Immediately[R any](ctx context.Context, entry R, cause error) (f Future[R]) {
	if cause != nil {
		f = FailedImmediately[R](ctx, cause)
		return
	}
	f = SucceedImmediately[R](ctx, entry)
	return
}
