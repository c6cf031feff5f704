package fxp

import "github.com/brickingsoft/errors"

const (
	errMetaPkgKey = "pkg"
	errMetaPkgVal = "fxp"
)

var (
	// ErrClosed 队列已关闭
	ErrClosed = errors.Define("queue has been closed", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
	// ErrCloseFailed 关闭队列失败（一般是关闭超时引发）
	ErrCloseFailed = errors.Define("queue close failed", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
	// ErrBusy 队列已满载
	ErrBusy = errors.Define("queue is busy", errors.WithMeta(errMetaPkgKey, errMetaPkgVal))
)

// IsClosed
// 是否为 ErrClosed 错误
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsBusy
// 是否为 ErrBusy 错误
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}
