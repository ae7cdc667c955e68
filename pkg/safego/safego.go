package safego

import (
	"go.uber.org/zap"

	"sheworks/pkg/logger"
)

// Go launches fn in a goroutine and logs instead of crashing when it panics.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error("Goroutine panicked",
					zap.String("goroutine", name),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		fn()
	}()
}
