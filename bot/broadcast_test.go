package bot

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"guestbot/guest"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []int64
	fail map[int64]error
}

func (f *fakeNotifier) Send(to tele.Recipient, _ interface{}, _ ...interface{}) (*tele.Message, error) {
	id, err := strconv.ParseInt(to.Recipient(), 10, 64)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if failErr, ok := f.fail[id]; ok {
		return nil, failErr
	}
	f.sent = append(f.sent, id)
	return &tele.Message{}, nil
}

func rosterFor(ids ...string) []guest.Record {
	recs := make([]guest.Record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, guest.Record{ID: id, Name: "G", Organization: "O", Phone: "+1"})
	}
	return recs
}

func TestBroadcastDeliversToAll(t *testing.T) {
	n := &fakeNotifier{}
	res := broadcastAll(context.Background(), n, rosterFor("100", "200", "300"), "привет")

	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Sent)
	assert.Empty(t, res.Failed)
	assert.Len(t, n.sent, 3)
}

func TestBroadcastCollectsFailuresWithoutAborting(t *testing.T) {
	n := &fakeNotifier{fail: map[int64]error{
		200: errors.New("blocked by user"),
	}}
	res := broadcastAll(context.Background(), n, rosterFor("100", "200", "300"), "привет")

	require.Error(t, res.Err)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, []string{"200"}, res.Failed)
}

func TestBroadcastCountsManualIDsAsFailed(t *testing.T) {
	n := &fakeNotifier{}
	res := broadcastAll(context.Background(), n, rosterFor("manual_2", "100", "manual_1"), "привет")

	require.Error(t, res.Err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, []string{"manual_1", "manual_2"}, res.Failed, "failed ids are sorted")
	assert.Equal(t, []int64{100}, n.sent)
}

func TestBroadcastEmptyRoster(t *testing.T) {
	n := &fakeNotifier{}
	res := broadcastAll(context.Background(), n, nil, "привет")

	require.NoError(t, res.Err)
	assert.Zero(t, res.Sent)
	assert.Empty(t, res.Failed)
}
