package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/kycbot/core/logger"
	tghelpers "github.com/m3rciful/kycbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// ErrPanic is returned to telebot when a handler panicked.
type ErrPanic struct {
	Value any
}

func (e ErrPanic) Error() string { return fmt.Sprintf("handler panic: %v", e.Value) }

// Code lets handler summaries report panics under a stable err_code.
func (e ErrPanic) Code() string { return "PANIC" }

// RecoverMiddleware converts a handler panic into an ErrPanic so one bad update
// never stops the poller.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				ctx := tghelpers.BuildContext(c)
				logger.Error(ctx, "tg", "tg.panic",
					slog.String("status", "fail"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = ErrPanic{Value: r}
			}
		}()
		return next(c)
	}
}
