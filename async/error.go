package async

import (
	"github.com/brickingsoft/errors"
)

var (
	ErrNilFuture         = errors.Define("future is nil")
	ErrNilTransform      = errors.Define("transform is nil")
	ErrNilCause          = errors.Define("failed with nil cause")
	ErrEmptyFutures      = errors.Define("futures are empty")
	ErrTransformPanicked = errors.Define("transform panicked")
)

// IsTransformPanicked
// 是否为 ErrTransformPanicked 错误，指组合器的变换函数 panic。
// panic 会被组合器边界捕获并转为输出未来的失败，绝不外泄。
func IsTransformPanicked(err error) bool {
	return errors.Is(err, ErrTransformPanicked)
}

// IsEmptyFutures
// 是否为 ErrEmptyFutures 错误，指 Zip 或 Reduce 的输入为空。
func IsEmptyFutures(err error) bool {
	return errors.Is(err, ErrEmptyFutures)
}

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "async"
)
