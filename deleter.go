package rc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Deleter is a destroy policy: it releases the object p points to.
// It is called exactly once per owned pointer, possibly with nil.
type Deleter[T any] interface {
	Delete(p *T)
}

// DeleterFunc adapts an ordinary function to the Deleter interface.
type DeleterFunc[T any] func(p *T)

// Delete calls f(p).
func (f DeleterFunc[T]) Delete(p *T) {
	f(p)
}

// Destroyer is implemented by objects with an explicit teardown step.
type Destroyer interface {
	Destroy()
}

// DefaultDelete is the destroy policy used by New, Make and NewUnique.
// It runs Destroy if *T implements Destroyer, otherwise Close if *T
// implements io.Closer. A nil pointer is ignored. The memory itself is
// left to the garbage collector.
type DefaultDelete[T any] struct{}

// Delete runs the teardown hook of p, if any.
func (DefaultDelete[T]) Delete(p *T) {
	if p == nil {
		return
	}
	switch v := any(p).(type) {
	case Destroyer:
		v.Destroy()
	case io.Closer:
		if err := v.Close(); err != nil {
			logger().LogAttrs(context.Background(), slog.LevelError, "rc: close on destroy failed",
				slog.String("type", fmt.Sprintf("%T", p)),
				slog.Any("error", err),
			)
		}
	}
}
