package conversation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	user  *tele.User
	text  string
	sent  []string
	store map[string]any
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		user:  &tele.User{ID: userID},
		store: make(map[string]any),
	}
}

func (f *fakeContext) Sender() *tele.User  { return f.user }
func (f *fakeContext) Chat() *tele.Chat    { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update { return tele.Update{ID: 1} }
func (f *fakeContext) Text() string        { return f.text }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) Set(key string, val interface{}) { f.store[key] = val }
func (f *fakeContext) Get(key string) interface{}      { return f.store[key] }

func testFlow(done *map[string]string, cancelled *bool) *Flow {
	return &Flow{
		Name: "signup",
		Steps: []Step{
			{Field: "organization", Prompt: "Which organization are you from?"},
			{Field: "name", Prompt: "What is your name?"},
			{
				Field:  "phone",
				Prompt: "What is your phone number?",
				Validate: func(answer string) (string, bool) {
					if !strings.HasPrefix(answer, "+") {
						return "Please start with +", false
					}
					return "", true
				},
			},
		},
		OnComplete: func(_ tele.Context, values map[string]string) error {
			*done = values
			return nil
		},
		Cancelled: func(_ tele.Context) error {
			*cancelled = true
			return nil
		},
	}
}

func TestFlowCompletes(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(time.Minute)
	c := newFakeContext(100)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))
	require.True(t, m.InProgress(100))
	assert.Equal(t, []string{"Which organization are you from?"}, c.sent)

	c.text = "ACME"
	require.NoError(t, m.ManagerHandler(c))
	c.text = "Alice"
	require.NoError(t, m.ManagerHandler(c))
	c.text = "+79991234567"
	require.NoError(t, m.ManagerHandler(c))

	assert.False(t, m.InProgress(100))
	assert.False(t, cancelled)
	require.NotNil(t, done)
	assert.Equal(t, "ACME", done["organization"])
	assert.Equal(t, "Alice", done["name"])
	assert.Equal(t, "+79991234567", done["phone"])
}

func TestValidationRetriesSameStep(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(time.Minute)
	c := newFakeContext(200)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))
	c.text = "ACME"
	require.NoError(t, m.ManagerHandler(c))
	c.text = "Bob"
	require.NoError(t, m.ManagerHandler(c))

	c.text = "not-a-phone"
	require.NoError(t, m.ManagerHandler(c))
	assert.Nil(t, done)
	assert.True(t, m.InProgress(200))
	assert.Equal(t, "Please start with +", c.sent[len(c.sent)-1])

	c.text = "+123"
	require.NoError(t, m.ManagerHandler(c))
	assert.False(t, m.InProgress(200))
	require.NotNil(t, done)
	assert.Equal(t, "+123", done["phone"])
}

func TestEmptyAnswerRepromptsStep(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(time.Minute)
	c := newFakeContext(250)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))

	for _, blank := range []string{"   ", ""} {
		c.text = blank
		require.NoError(t, m.ManagerHandler(c))
		assert.True(t, m.InProgress(250))
		assert.Equal(t, "Which organization are you from?", c.sent[len(c.sent)-1])
	}
	assert.Nil(t, done)

	c.text = "ACME"
	require.NoError(t, m.ManagerHandler(c))
	c.text = "Eve"
	require.NoError(t, m.ManagerHandler(c))
	c.text = "+7123"
	require.NoError(t, m.ManagerHandler(c))

	require.NotNil(t, done)
	assert.Equal(t, "ACME", done["organization"])
	assert.Equal(t, "Eve", done["name"])
}

func TestStartRejectsSecondFlow(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(time.Minute)
	c := newFakeContext(300)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))
	err := m.Start(c, testFlow(&done, &cancelled))
	assert.ErrorIs(t, err, ErrActive)
}

func TestCancelRunsHookOnce(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(time.Minute)
	c := newFakeContext(400)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))

	ok, err := m.Cancel(c)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, cancelled)
	assert.False(t, m.InProgress(400))

	ok, err = m.Cancel(c)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionExpires(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(20 * time.Millisecond)
	c := newFakeContext(500)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))
	require.True(t, m.InProgress(500))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, m.InProgress(500))
}

func TestForgetDropsSessionWithoutHooks(t *testing.T) {
	var done map[string]string
	var cancelled bool
	m := NewManager(time.Minute)
	c := newFakeContext(600)

	require.NoError(t, m.Start(c, testFlow(&done, &cancelled)))
	m.Forget(600)
	assert.False(t, m.InProgress(600))
	assert.False(t, cancelled)
}
