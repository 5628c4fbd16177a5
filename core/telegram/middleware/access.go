package middleware

import tele "gopkg.in/telebot.v4"

// AccessOptions defines how privileged-only checks behave.
type AccessOptions struct {
	// AdminIDs is the fixed set of privileged identities.
	AdminIDs []int64
	// OnReject runs instead of the handler when access is denied.
	OnReject tele.HandlerFunc
}

// Allowed reports whether id belongs to the privileged set. An empty set
// denies everyone; gated operations must always be configured explicitly.
func (o AccessOptions) Allowed(id int64) bool {
	for _, admin := range o.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

// WithAdminCheck wraps a command handler enforcing admin-only execution when
// required.
func WithAdminCheck(opts AccessOptions, adminOnly bool, handler tele.HandlerFunc) tele.HandlerFunc {
	if !adminOnly {
		return handler
	}
	return func(c tele.Context) error {
		if !opts.Allowed(c.Sender().ID) {
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
		return handler(c)
	}
}

// AdminOnlyMiddleware ensures that only privileged identities can invoke
// downstream handlers.
func AdminOnlyMiddleware(opts AccessOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !opts.Allowed(c.Sender().ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
