package async

import (
	"context"

	"github.com/brickingsoft/errors"
)

// Promise
// 许诺一个未来。
//
// 许诺只能完成一次，之后的 Succeed、Fail、Complete 均被静默忽略。
// 被弃置而未完成的许诺会让其未来永远保持等待，不会自动失败。
type Promise[R any] interface {
	// Succeed
	// 成功完成
	Succeed(entry R)
	// Fail
	// 错误完成
	Fail(cause error)
	// Complete
	// 完成，cause 为 nil 时等价于 Succeed，否则等价于 Fail。
	Complete(entry R, cause error)
	// Future
	// 未来。
	Future() (future Future[R])
}

// Make
// 创建一个许诺。
//
// ctx 会传给所有结果处理器。
func Make[R any](ctx context.Context) Promise[R] {
	return &futureImpl[R]{cell: newCell[R](ctx)}
}

type futureImpl[R any] struct {
	cell *cell[R]
}

func (f *futureImpl[R]) Succeed(entry R) {
	f.cell.complete(entry, nil)
}

func (f *futureImpl[R]) Fail(cause error) {
	if cause == nil {
		cause = errors.From(ErrNilCause, errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
	}
	var entry R
	f.cell.complete(entry, cause)
}

func (f *futureImpl[R]) Complete(entry R, cause error) {
	f.cell.complete(entry, cause)
}

func (f *futureImpl[R]) Future() (future Future[R]) {
	future = f
	return
}
