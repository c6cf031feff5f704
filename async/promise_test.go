package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/brickingsoft/fxp/async"
)

func TestPromise_Succeed(t *testing.T) {
	ctx := context.Background()
	promise := async.Make[int](ctx)
	future := promise.Future()

	fired := new(atomic.Int64)
	future.OnComplete(func(ctx context.Context, entry int, cause error) {
		if cause != nil {
			t.Error("unexpected cause:", cause)
			return
		}
		if entry != 1 {
			t.Error("entry:", entry, "want 1")
		}
		fired.Add(1)
	})

	promise.Succeed(1)

	if n := fired.Load(); n != 1 {
		t.Error("handler fired", n, "times, want 1")
	}
	if entry, has := future.Value(); !has || entry != 1 {
		t.Error("value:", entry, has)
	}
	if _, has := future.Cause(); has {
		t.Error("cause present on succeeded future")
	}
}

func TestPromise_Fail(t *testing.T) {
	ctx := context.Background()
	promise := async.Make[int](ctx)
	future := promise.Future()

	want := errors.New("failed")
	promise.Fail(want)

	cause, has := future.Cause()
	if !has {
		t.Fatal("cause missing")
	}
	if !errors.Is(cause, want) {
		t.Error("cause:", cause)
	}
	if _, has = future.Value(); has {
		t.Error("value present on failed future")
	}
}

func TestPromise_FailNilCause(t *testing.T) {
	ctx := context.Background()
	promise := async.Make[int](ctx)
	promise.Fail(nil)

	cause, has := promise.Future().Cause()
	if !has || cause == nil {
		t.Error("nil-cause failure was not normalized:", cause, has)
	}
}

func TestPromise_ResolveOnce(t *testing.T) {
	ctx := context.Background()
	promise := async.Make[int](ctx)
	future := promise.Future()

	fired := new(atomic.Int64)
	future.OnComplete(func(ctx context.Context, entry int, cause error) {
		fired.Add(1)
	})

	promise.Succeed(1)
	promise.Succeed(2)
	promise.Fail(errors.New("late"))
	promise.Complete(3, nil)

	if n := fired.Load(); n != 1 {
		t.Error("handler fired", n, "times, want 1")
	}
	if entry, _ := future.Value(); entry != 1 {
		t.Error("value changed after late resolutions:", entry)
	}
	if _, has := future.Cause(); has {
		t.Error("late failure overwrote success")
	}

	// 完成后的注册依然拿到首次结果。
	future.OnComplete(func(ctx context.Context, entry int, cause error) {
		if entry != 1 || cause != nil {
			t.Error("late registration entry:", entry, "cause:", cause)
		}
	})
}

func TestPromise_PendingInspect(t *testing.T) {
	ctx := context.Background()
	promise := async.Make[int](ctx)
	future := promise.Future()

	if _, has := future.Value(); has {
		t.Error("value present while pending")
	}
	if _, has := future.Cause(); has {
		t.Error("cause present while pending")
	}
	if _, has := future.Result(); has {
		t.Error("result present while pending")
	}

	promise.Succeed(7)

	r, has := future.Result()
	if !has {
		t.Fatal("result missing after resolution")
	}
	if !r.Succeed() || r.Failed() || r.Entry() != 7 || r.Cause() != nil {
		t.Error("result:", r.Entry(), r.Cause())
	}
}
