package main

import (
	"context"
	"errors"

	l "github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
)

// Scratch tool to eyeball the structured log output.
func main() {
	lg := l.InitLogger("logtest", l.LevelDebug)

	ctx := context.Background()

	if err := someLogic(ctx); err != nil {
		lg.Error(wrap.ErrorCtx(ctx, err), "error occurred", err)
	}
}

func someLogic(ctx context.Context) error {
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{
		Action:    "test",
		DriverID:  "driver_123",
		RequestID: "request_123",
	})

	someError := errors.New("some error")

	return wrap.Error(ctx, someError)
}
