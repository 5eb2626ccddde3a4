package middleware

import (
	"context"
	"time"

	"gopkg.in/telebot.v3"
)

// WithContext adapts a context-aware handler to the telebot handler signature,
// bounding each update by a timeout derived from the root context.
func WithContext(rootCtx context.Context, timeout time.Duration, handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(rootCtx, timeout)
		defer cancel()

		return handler(ctx, c)
	}
}
