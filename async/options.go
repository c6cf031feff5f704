package async

// ObserveOption
// 注册选项函数
type ObserveOption func(*ObserveOptions)

// ObserveOptions
// 注册选项
type ObserveOptions struct {
	// Scheduler
	// 处理器的调度器，缺省为 Main 。
	Scheduler Scheduler
}

// WithScheduler
// 设置处理器的调度器
func WithScheduler(scheduler Scheduler) ObserveOption {
	return func(o *ObserveOptions) {
		if scheduler != nil {
			o.Scheduler = scheduler
		}
	}
}

func observeScheduler(options []ObserveOption) Scheduler {
	opts := ObserveOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Scheduler == nil {
		return Main()
	}
	return opts.Scheduler
}
