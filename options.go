package fxp

import (
	"context"
	"errors"
	"time"
)

const (
	defaultBufferSize    = 1024
	defaultMaxGoroutines = 256 * 1024
)

// Option
// 选项函数
type Option func(*Options) error

// Options
// 选项
type Options struct {
	// Ctx
	// 根上下文
	Ctx context.Context
	// Mode
	// 模式
	Mode Mode
	// BufferSize
	// 串行模式的提交缓冲大小。
	//
	// 缓冲满后 Submit 会等待，TrySubmit 会失败。
	BufferSize int
	// MaxGoroutines
	// 并发模式的最大协程数
	MaxGoroutines int
	// CloseTimeout
	// 关闭超时时长
	CloseTimeout time.Duration
}

// WithContext
// 设置根上下文
func WithContext(ctx context.Context) Option {
	return func(o *Options) error {
		if ctx == nil {
			return errors.New("context cannot be nil")
		}
		o.Ctx = ctx
		return nil
	}
}

// WithMode
// 设置模式。
func WithMode(mode Mode) Option {
	return func(o *Options) error {
		switch mode {
		case SerialMode:
			o.Mode = SerialMode
			break
		case ConcurrentMode:
			o.Mode = ConcurrentMode
			break
		default:
			return errors.New("invalid mode")
		}
		return nil
	}
}

// WithBufferSize
// 设置串行模式的提交缓冲大小
func WithBufferSize(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			n = defaultBufferSize
		}
		o.BufferSize = n
		return nil
	}
}

// WithMaxGoroutines
// 设置并发模式的最大协程数
func WithMaxGoroutines(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			n = defaultMaxGoroutines
		}
		o.MaxGoroutines = n
		return nil
	}
}

// WithCloseTimeout
// 设置关闭超时时长
func WithCloseTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout < 1 {
			timeout = 0
		}
		o.CloseTimeout = timeout
		return nil
	}
}
