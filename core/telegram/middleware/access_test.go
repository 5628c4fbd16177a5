package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type senderContext struct {
	tele.Context
	user *tele.User
}

func (s senderContext) Sender() *tele.User { return s.user }

func TestAccessOptionsAllowed(t *testing.T) {
	opts := AccessOptions{AdminIDs: []int64{7, 9}}
	assert.True(t, opts.Allowed(7))
	assert.True(t, opts.Allowed(9))
	assert.False(t, opts.Allowed(8))
}

func TestAccessOptionsEmptySetDeniesEveryone(t *testing.T) {
	opts := AccessOptions{}
	assert.False(t, opts.Allowed(0))
	assert.False(t, opts.Allowed(1))
}

func TestWithAdminCheck(t *testing.T) {
	var handled, rejected bool
	opts := AccessOptions{
		AdminIDs: []int64{7},
		OnReject: func(tele.Context) error {
			rejected = true
			return nil
		},
	}
	handler := func(tele.Context) error {
		handled = true
		return nil
	}

	admin := senderContext{user: &tele.User{ID: 7}}
	stranger := senderContext{user: &tele.User{ID: 8}}

	assert.NoError(t, WithAdminCheck(opts, true, handler)(admin))
	assert.True(t, handled)
	assert.False(t, rejected)

	handled = false
	assert.NoError(t, WithAdminCheck(opts, true, handler)(stranger))
	assert.False(t, handled)
	assert.True(t, rejected)

	// adminOnly=false passes everyone through untouched.
	handled, rejected = false, false
	assert.NoError(t, WithAdminCheck(opts, false, handler)(stranger))
	assert.True(t, handled)
	assert.False(t, rejected)
}
