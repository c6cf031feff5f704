package counter

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

const (
	ns500 = 500 * time.Nanosecond
)

func New() *Counter {
	return new(Counter)
}

// Counter
// 原子计数器，支持等待降至目标值。
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Incr() int64 {
	return c.n.Add(1)
}

func (c *Counter) Decr() int64 {
	return c.n.Add(-1)
}

func (c *Counter) Value() int64 {
	return c.n.Load()
}

// WaitDownTo
// 等待计数降至 n 及以下，ctx 错误时提前返回。
func (c *Counter) WaitDownTo(ctx context.Context, n int64) (err error) {
	times := 10
	for {
		if c.Value() <= n {
			return
		}
		if err = ctx.Err(); err != nil {
			return
		}
		time.Sleep(ns500)
		times--
		if times < 1 {
			times = 10
			runtime.Gosched()
		}
	}
}
