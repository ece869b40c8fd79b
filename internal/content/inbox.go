package content

import (
	"context"
	"sync"
	"time"

	"portfolio-site/internal/baas"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/models"
)

// Notifier is told about new contact messages.
type Notifier interface {
	MessageReceived(ctx context.Context, m models.Message) error
}

// MessageFilter selects messages by read status.
type MessageFilter string

const (
	FilterAll    MessageFilter = "all"
	FilterUnread MessageFilter = "unread"
	FilterRead   MessageFilter = "read"
)

// ParseFilter falls back to FilterAll for unknown values.
func ParseFilter(s string) MessageFilter {
	switch f := MessageFilter(s); f {
	case FilterUnread, FilterRead:
		return f
	default:
		return FilterAll
	}
}

const notifyTimeout = 30 * time.Second

// Inbox handles contact messages.
type Inbox struct {
	backend  baas.Backend
	cols     Collections
	notifier Notifier
	log      logging.Logger

	wg sync.WaitGroup
}

// NewInbox creates an inbox. notifier may be nil.
func NewInbox(backend baas.Backend, cols Collections, notifier Notifier, log logging.Logger) *Inbox {
	return &Inbox{backend: backend, cols: cols, notifier: notifier, log: log}
}

// Submit stores a message from an anonymous visitor as unread.
func (i *Inbox) Submit(ctx context.Context, form ContactForm) (models.Message, error) {
	m := form.ToMessage()
	if err := m.Validate(); err != nil {
		return models.Message{}, err
	}

	doc, err := i.backend.Documents(baas.Session{}).Create(ctx, i.cols.Messages, baas.UniqueID(), m.Fields())
	if err != nil {
		return models.Message{}, classify("submit message", err)
	}
	saved, err := decodeMessage(doc)
	if err != nil {
		return models.Message{}, classify("submit message", err)
	}

	if i.notifier != nil {
		i.wg.Add(1)
		go func() {
			defer i.wg.Done()
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			defer cancel()
			if err := i.notifier.MessageReceived(nctx, saved); err != nil {
				i.log.Error(nctx, "failed to send message notification", "message_id", saved.ID, "error", err)
			}
		}()
	}
	return saved, nil
}

// Wait blocks until pending notifications are sent.
func (i *Inbox) Wait() {
	i.wg.Wait()
}

// List returns the newest messages.
func (i *Inbox) List(ctx context.Context, s baas.Session) ([]models.Message, error) {
	list, err := i.backend.Documents(s).List(ctx, i.cols.Messages, recent())
	if err != nil {
		return nil, classify("list messages", err)
	}
	return decodeAll(list, decodeMessage)
}

// FilterMessages applies a status filter to an already fetched list.
func FilterMessages(messages []models.Message, f MessageFilter) []models.Message {
	if f != FilterUnread && f != FilterRead {
		return messages
	}
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Unread() == (f == FilterUnread) {
			out = append(out, m)
		}
	}
	return out
}

func UnreadCount(messages []models.Message) int {
	n := 0
	for _, m := range messages {
		if m.Unread() {
			n++
		}
	}
	return n
}

// MarkRead moves a message to read. Read messages are left alone.
func (i *Inbox) MarkRead(ctx context.Context, s baas.Session, id string) (models.Message, error) {
	docs := i.backend.Documents(s)
	doc, err := docs.Get(ctx, i.cols.Messages, id)
	if err != nil {
		return models.Message{}, classify("get message", err)
	}
	m, err := decodeMessage(doc)
	if err != nil {
		return models.Message{}, classify("get message", err)
	}
	if !m.Unread() {
		return m, nil
	}

	doc, err = docs.Update(ctx, i.cols.Messages, id, map[string]any{attrStatus: models.StatusRead})
	if err != nil {
		return models.Message{}, classify("mark message read", err)
	}
	return decodeMessage(doc)
}

// Delete removes a message once the user has confirmed.
func (i *Inbox) Delete(ctx context.Context, s baas.Session, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := i.backend.Documents(s).Delete(ctx, i.cols.Messages, id); err != nil {
		return classify("delete message", err)
	}
	return nil
}
