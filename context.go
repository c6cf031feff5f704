package fxp

import (
	"context"
)

type contextKey struct{}

// With
// 把 Queue 关联到 context.Context
func With(ctx context.Context, queue Queue) context.Context {
	return context.WithValue(ctx, contextKey{}, queue)
}

// From
// 从 context.Context 获取 Queue
//
// 注意，必须先 With ，否则会 panic 。
func From(ctx context.Context) Queue {
	queue, ok := TryFrom(ctx)
	if !ok {
		panic("fxp: there is no queue in context")
	}
	return queue
}

// TryFrom
// 尝试从 context.Context 获取 Queue
func TryFrom(ctx context.Context) (Queue, bool) {
	queue, ok := ctx.Value(contextKey{}).(Queue)
	if ok && queue != nil {
		return queue, true
	}
	return nil, false
}
