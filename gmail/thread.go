package gmail

import (
	"fmt"
	"time"
)

// Thread is an ordered group of related messages sharing a conversation id.
//
// A Thread from Search carries only the summary fields; its messages load
// lazily on the first Messages call and are cached for the thread's lifetime.
type Thread struct {
	ID        string
	Snippet   string
	HistoryID string

	session  *Session
	messages []*Message // nil until the first Messages call
}

func (t *Thread) withSession() (*Session, error) {
	if t.session == nil || !t.session.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return t.session, nil
}

// Messages returns the thread's messages, oldest first. The full thread is
// fetched through the transport exactly once, on the first call, and cached;
// there is no refresh — callers needing fresh data must re-issue the search.
//
// A resolved thread is never empty: a fetch yielding zero messages is a
// transport contract violation and returns ErrEmptyThread.
func (t *Thread) Messages() ([]*Message, error) {
	if t.messages != nil {
		return t.messages, nil
	}

	session, err := t.withSession()
	if err != nil {
		return nil, err
	}

	raws, err := session.transport.GetThread(session.userID, t.ID)
	if err != nil {
		return nil, err
	}

	messages := make([]*Message, 0, len(raws))
	for _, raw := range raws {
		msg, err := parseMessage(session, raw)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: thread %s", ErrEmptyThread, t.ID)
	}

	t.messages = messages
	return t.messages, nil
}

// Text returns the reply-stripped body of each message, oldest first.
func (t *Thread) Text() ([]string, error) {
	messages, err := t.Messages()
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(messages))
	for _, msg := range messages {
		texts = append(texts, msg.Body)
	}
	return texts, nil
}

// Senders returns the sender of each message, oldest first. A sender equal
// to the logged-in account's address is reported as "me".
func (t *Thread) Senders() ([]string, error) {
	messages, err := t.Messages()
	if err != nil {
		return nil, err
	}

	senders := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Sender == t.session.address {
			senders = append(senders, "me")
		} else {
			senders = append(senders, msg.Sender)
		}
	}
	return senders, nil
}

// LatestTimestamp returns the timestamp of the most recent message.
func (t *Thread) LatestTimestamp() (time.Time, error) {
	messages, err := t.Messages()
	if err != nil {
		return time.Time{}, err
	}
	return messages[len(messages)-1].Timestamp, nil
}

// PreviewText returns the transport-supplied snippet.
func (t *Thread) PreviewText() string {
	return t.Snippet
}

// AddLabel adds the named label to every message in this thread.
func (t *Thread) AddLabel(name string) error {
	session, err := t.withSession()
	if err != nil {
		return err
	}
	return session.addLabel(EntityThread, t.ID, name)
}

// RemoveLabel removes the named label from every message in this thread, if
// present.
func (t *Thread) RemoveLabel(name string) error {
	session, err := t.withSession()
	if err != nil {
		return err
	}
	return session.removeLabel(EntityThread, t.ID, name)
}

// MarkAsRead removes the UNREAD label from every message in this thread.
func (t *Thread) MarkAsRead() error {
	session, err := t.withSession()
	if err != nil {
		return err
	}
	return session.markAsRead(EntityThread, t.ID)
}

// MarkAsUnread adds the UNREAD label to every message in this thread.
func (t *Thread) MarkAsUnread() error {
	session, err := t.withSession()
	if err != nil {
		return err
	}
	return session.markAsUnread(EntityThread, t.ID)
}

// Trash moves every message in this thread to the trash folder.
func (t *Thread) Trash() error {
	session, err := t.withSession()
	if err != nil {
		return err
	}
	return session.trash(EntityThread, t.ID)
}
