package fxp

import (
	"context"
)

// Task
// 任务
type Task interface {
	// Handle
	// 执行任务
	Handle(ctx context.Context)
}

// TaskFunc
// 函数式任务
type TaskFunc func(ctx context.Context)

func (fn TaskFunc) Handle(ctx context.Context) {
	fn(ctx)
}

type taskEntry struct {
	ctx  context.Context
	task Task
}
