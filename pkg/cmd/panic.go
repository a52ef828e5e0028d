package cmd

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/fitcircle/fitcircle-client/pkg/log"
)

// HandleAppPanic must be deferred directly. It reports whether a panic was recovered.
func HandleAppPanic(ctx context.Context, logger log.Logger) (panicCaught bool) {
	msg := recover()
	if msg == nil {
		return false
	}

	LogPanic(ctx, logger, msg)
	return true
}

func LogPanic(ctx context.Context, logger log.Logger, msg any) {
	logger.WithField("panic", log.Fields{
		"message": fmt.Sprintf("%v", msg),
		"stack":   string(debug.Stack()),
	}).Error(ctx, "app failed with panic")
}
