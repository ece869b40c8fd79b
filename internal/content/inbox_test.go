package content

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/models"
)

type recordingNotifier struct {
	mu   sync.Mutex
	got  []models.Message
	fail error
}

func (n *recordingNotifier) MessageReceived(_ context.Context, m models.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, m)
	return n.fail
}

func TestContactSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	inbox := NewInbox(f.backend, testCols, notifier, logging.Discard())

	m, err := inbox.Submit(ctx, ContactForm{Name: "Alice", Email: "a@x.com", Message: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnread, m.Status)
	assert.NotEmpty(t, m.ID)

	inbox.Wait()
	require.Len(t, notifier.got, 1)
	assert.Equal(t, "Alice", notifier.got[0].Name)

	messages, err := inbox.List(ctx, f.ownerS)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Message)
	assert.Equal(t, models.StatusUnread, messages[0].Status)
}

func TestContactValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Inbox.Submit(context.Background(), ContactForm{Name: "Alice", Subject: "Hi"})
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, []string{"email", "message"}, v.Missing)
	assert.Zero(t, f.backend.count("create"))
}

func TestNotifierFailureDoesNotFailSubmit(t *testing.T) {
	f := newFixture(t)
	inbox := NewInbox(f.backend, testCols, &recordingNotifier{fail: errors.New("smtp down")}, logging.Discard())

	_, err := inbox.Submit(context.Background(), ContactForm{Name: "Bob", Email: "b@x.com", Message: "Hi"})
	require.NoError(t, err)
	inbox.Wait()
}

func TestGuestCannotListMessages(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Inbox.List(context.Background(), baas.Session{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestFilterAndMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := f.svc.Inbox.Submit(ctx, ContactForm{Name: name, Email: name + "@x.com", Message: "m"})
		require.NoError(t, err)
	}

	all, err := f.svc.Inbox.List(ctx, f.ownerS)
	require.NoError(t, err)
	require.Len(t, all, 3)
	unread := FilterMessages(all, FilterUnread)
	assert.Len(t, unread, 3)
	assert.Empty(t, FilterMessages(all, FilterRead))
	assert.Equal(t, 3, UnreadCount(all))

	target := unread[1]
	read, err := f.svc.Inbox.MarkRead(ctx, f.ownerS, target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRead, read.Status)

	all, err = f.svc.Inbox.List(ctx, f.ownerS)
	require.NoError(t, err)
	unread = FilterMessages(all, FilterUnread)
	readOnes := FilterMessages(all, FilterRead)
	assert.Len(t, unread, 2)
	require.Len(t, readOnes, 1)
	assert.Equal(t, target.ID, readOnes[0].ID)
	for _, m := range unread {
		assert.NotEqual(t, target.ID, m.ID)
		assert.Equal(t, models.StatusUnread, m.Status)
	}
	assert.Len(t, FilterMessages(all, FilterAll), 3)

	updates := f.backend.count("update")
	again, err := f.svc.Inbox.MarkRead(ctx, f.ownerS, target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRead, again.Status)
	assert.Equal(t, updates, f.backend.count("update"), "marking a read message is a no-op")
}

func TestDeleteMessageNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.Inbox.Submit(ctx, ContactForm{Name: "a", Email: "a@x.com", Message: "m"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Inbox.Delete(ctx, f.ownerS, m.ID, false), ErrNotConfirmed)
	all, err := f.svc.Inbox.List(ctx, f.ownerS)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.svc.Inbox.Delete(ctx, f.ownerS, m.ID, true))
	assert.ErrorIs(t, f.svc.Inbox.Delete(ctx, f.ownerS, m.ID, true), ErrNotFound)
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterUnread, ParseFilter("unread"))
	assert.Equal(t, FilterRead, ParseFilter("read"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("bogus"))
}
