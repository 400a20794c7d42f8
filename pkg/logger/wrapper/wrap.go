package wrap

import (
	"context"
	"errors"
)

// ctxError carries the LogCtx that was live when the error was created,
// so log sites far from the failure can still emit action/request_id.
type ctxError struct {
	err    error
	logCtx LogCtx
}

func (e *ctxError) Error() string { return e.err.Error() }
func (e *ctxError) Unwrap() error { return e.err }

// Error attaches the LogCtx from ctx to err. Wrapping an already
// wrapped error refreshes its LogCtx instead of nesting.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c, _ := ctx.Value(LogCtxKey).(LogCtx)

	var e *ctxError
	if errors.As(err, &e) {
		e.logCtx = c
		e.err = err
		return e
	}
	return &ctxError{err: err, logCtx: c}
}

// ErrorCtx restores the LogCtx captured inside err onto ctx, so the
// logger prints the context of where the error happened rather than
// where it is logged. Plain errors leave ctx untouched.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *ctxError
	if errors.As(err, &e) && e != nil {
		return context.WithValue(ctx, LogCtxKey, e.logCtx)
	}
	return ctx
}
