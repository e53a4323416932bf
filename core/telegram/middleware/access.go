package middleware

import (
	"context"

	tghelpers "kinobot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
// IsAdmin is consulted per update; OwnerID always passes when non-zero.
type AdminOptions struct {
	OwnerID  int64
	IsAdmin  func(ctx context.Context, userID int64) bool
	OnReject tele.HandlerFunc
}

func (opts AdminOptions) allowed(c tele.Context) bool {
	user := c.Sender()
	if user == nil {
		return false
	}
	return opts.allowedID(tghelpers.BuildContext(c), user.ID)
}

func (opts AdminOptions) allowedID(ctx context.Context, userID int64) bool {
	if opts.OwnerID != 0 && userID == opts.OwnerID {
		return true
	}
	if opts.IsAdmin != nil {
		return opts.IsAdmin(ctx, userID)
	}
	return false
}

// WithAdminCheck wraps a single handler enforcing admin-only execution.
// Useful for callbacks whose buttons are only shown to admins but whose
// data any client can forge.
func WithAdminCheck(opts AdminOptions, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !opts.allowed(c) {
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
		return h(c)
	}
}

// AdminOnlyMiddleware ensures that only admin users can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !opts.allowed(c) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
