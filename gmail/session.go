package gmail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const defaultMaxResults = 25

// Session is the login state for a single Gmail account: the transport
// handle, the user id, and the account's email address resolved during the
// login handshake.
//
// A Session is built once by NewSession and is not safe for concurrent use;
// to switch accounts or refresh credentials, build a new Session. All methods
// block until the underlying transport call completes.
type Session struct {
	transport Transport
	userID    string
	address   string
}

// NewSession performs the OAuth login handshake and returns a logged-in
// session. If the token file is missing or unusable, the interactive consent
// flow runs first (browser consent plus an authorization code prompt).
//
// Example:
//
//	session, err := gmail.NewSession(ctx, gmail.Options{})
//	if err != nil { /* handle */ }
//	fmt.Println("logged in as", session.Address())
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	svc, err := newService(ctx, opts)
	if err != nil {
		return nil, err
	}

	userID := opts.UserID
	if userID == "" {
		userID = defaultUserID
	}
	return newSession(&apiTransport{svc: svc}, userID)
}

func newSession(transport Transport, userID string) (*Session, error) {
	address, err := transport.ProfileAddress(userID)
	if err != nil {
		return nil, err
	}
	if address == "" {
		return nil, errors.New("gmail: profile reported no email address")
	}
	return &Session{transport: transport, userID: userID, address: address}, nil
}

// Address returns the email address of the logged-in account.
func (s *Session) Address() string {
	if s == nil {
		return ""
	}
	return s.address
}

// LoggedIn reports whether the session completed its login handshake.
func (s *Session) LoggedIn() bool {
	return s != nil && s.transport != nil && s.address != ""
}

func (s *Session) check() error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// Search returns the threads matching query, newest first. The query string
// is forwarded to the remote service verbatim and uses the same grammar as
// the Gmail search box ("label:UNREAD", "from:al@example.com", "subject:hi",
// "has:attachment", ...). Only a single page of results is returned.
//
// Thread messages are not fetched here; they load lazily on the first
// Thread.Messages call.
func (s *Session) Search(query string, maxResults int64) ([]*Thread, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	summaries, err := s.transport.ListThreads(s.userID, query, maxResults)
	if err != nil {
		return nil, err
	}

	threads := make([]*Thread, 0, len(summaries))
	for _, summary := range summaries {
		threads = append(threads, &Thread{
			ID:        summary.ID,
			Snippet:   summary.Snippet,
			HistoryID: summary.HistoryID,
			session:   s,
		})
	}
	return threads, nil
}

// Recent returns the most recent inbox threads. Shorthand for
// Search("label:INBOX", maxResults).
func (s *Session) Recent(maxResults int64) ([]*Thread, error) {
	return s.Search("label:INBOX", maxResults)
}

// Unread returns threads with unread messages. Shorthand for
// Search("label:UNREAD", maxResults).
func (s *Session) Unread(maxResults int64) ([]*Thread, error) {
	return s.Search("label:UNREAD", maxResults)
}

// Send builds the outgoing MIME envelope from input and submits it. The
// transport's send result is discarded; a nil error means the remote service
// accepted the message.
//
// Argument validation (MIME subtype, attachment files) happens before any
// network I/O. The sender header defaults to the session address and is
// informational only; the remote service substitutes the account's actual
// address regardless.
func (s *Session) Send(input SendInput) error {
	if err := s.check(); err != nil {
		return err
	}

	sender := input.Sender
	if sender == "" {
		sender = s.address
	}

	envelope, err := buildEnvelope(sender, input)
	if err != nil {
		return err
	}

	_, err = s.transport.SendRaw(s.userID, envelope)
	return err
}

// ListLabels returns the account's label catalog.
func (s *Session) ListLabels() ([]Label, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.transport.ListLabels(s.userID)
}

// labelID resolves a label name ("Work", "UNREAD") to the label id that
// mutations require.
func (s *Session) labelID(name string) (string, error) {
	labels, err := s.ListLabels()
	if err != nil {
		return "", err
	}
	for _, label := range labels {
		if label.Name == name {
			return label.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no label named %q", ErrInvalidArgument, name)
}

func (s *Session) addLabel(entity Entity, objectID, name string) error {
	if err := s.check(); err != nil {
		return err
	}
	id, err := s.labelID(name)
	if err != nil {
		return err
	}
	return s.transport.ModifyLabels(s.userID, objectID, entity, []string{id}, nil)
}

func (s *Session) removeLabel(entity Entity, objectID, name string) error {
	if err := s.check(); err != nil {
		return err
	}
	// Removal passes the name through unresolved; system label names like
	// UNREAD double as ids, and an unknown id is ignored by the service.
	return s.transport.ModifyLabels(s.userID, objectID, entity, nil, []string{name})
}

func (s *Session) markAsRead(entity Entity, objectID string) error {
	return s.removeLabel(entity, objectID, "UNREAD")
}

func (s *Session) markAsUnread(entity Entity, objectID string) error {
	return s.addLabel(entity, objectID, "UNREAD")
}

func (s *Session) trash(entity Entity, objectID string) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.transport.Trash(s.userID, objectID, entity)
}

// Summarizable is the capability shared by Thread and Message that the
// summary helpers depend on.
type Summarizable interface {
	Senders() ([]string, error)
	LatestTimestamp() (time.Time, error)
	PreviewText() string
}

// SummaryEntry is the digest of one thread or message.
type SummaryEntry struct {
	Senders []string
	Snippet string
	Latest  time.Time
}

// Summarize builds a digest of the given threads and/or messages. Fetches
// whatever messages are not yet loaded, so it can fail with a transport
// error.
func Summarize(objects ...Summarizable) ([]SummaryEntry, error) {
	entries := make([]SummaryEntry, 0, len(objects))
	for _, object := range objects {
		senders, err := object.Senders()
		if err != nil {
			return nil, err
		}
		latest, err := object.LatestTimestamp()
		if err != nil {
			return nil, err
		}
		entries = append(entries, SummaryEntry{
			Senders: senders,
			Snippet: object.PreviewText(),
			Latest:  latest,
		})
	}
	return entries, nil
}

// PrintSummary writes one line per entry to w, in the form
// "Al, me - Thanks for the invoice... - Jun 23".
func PrintSummary(w io.Writer, entries []SummaryEntry) error {
	for _, entry := range entries {
		names := make([]string, 0, len(entry.Senders))
		for _, sender := range entry.Senders {
			names = append(names, firstName(sender))
		}
		line := fmt.Sprintf("%s - %s - %s\n",
			strings.Join(names, ", "), entry.Snippet, entry.Latest.Format("Jan 02"))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// firstName returns the "Al" part of "Al Sweigart <al@example.com>".
func firstName(sender string) string {
	if i := strings.Index(sender, " "); i >= 0 {
		return sender[:i]
	}
	return sender
}
