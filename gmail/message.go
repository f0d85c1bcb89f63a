package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/charset"
)

// Message is a single email flattened from the transport's nested
// representation: headers, decoded plain-text body, and attachment metadata.
//
// Header fields (Sender, Recipient, Subject) hold the raw header values
// verbatim; a header absent from the message leaves the field empty. Body is
// OriginalBody with the trailing quoted-reply block removed, so Body is
// always a prefix of OriginalBody.
type Message struct {
	ID        string
	ThreadID  string
	Sender    string
	Recipient string
	Subject   string
	Snippet   string
	HistoryID string

	// Timestamp is the message creation time assigned by the remote service,
	// truncated to whole seconds and expressed in local time. It determines
	// ordering within a thread.
	Timestamp time.Time

	OriginalBody string
	Body         string

	// Attachments lists attachment filenames in discovery order. The same
	// filename may appear more than once.
	Attachments []string
	// AttachmentDetails is index-aligned with Attachments and disambiguates
	// duplicate filenames by position.
	AttachmentDetails []AttachmentDetail

	session *Session
}

// AttachmentDetail identifies one attachment for download: its filename, the
// remote attachment id, and the declared size in bytes.
type AttachmentDetail struct {
	Filename     string
	AttachmentID string
	Size         int64
}

var (
	replyQuotePattern = regexp.MustCompile(`On (Sun|Mon|Tue|Wed|Thu|Fri|Sat), (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) \d+, \d\d\d\d at \d+:\d+ (AM|PM) (.*?) wrote:`)
	charsetPattern    = regexp.MustCompile(`charset="(.*?)"`)
)

// RemoveQuotedReply returns text truncated immediately before the boilerplate
// line that introduces quoted reply content, such as "On Mon, Jan 1, 2024 at
// 9:00 AM Al <al@example.com> wrote:". If no such line exists the text is
// returned unchanged. Only the first occurrence is considered; interleaved
// quote fragments elsewhere in the body are left alone.
func RemoveQuotedReply(text string) string {
	loc := replyQuotePattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]]
}

// charsetFromContentType extracts the charset name from a Content-Type header
// value, defaulting to UTF-8 when the header or the charset parameter is
// missing. The captured name is returned verbatim and is not validated; a
// bogus name fails later, during decoding.
func charsetFromContentType(value string) string {
	match := charsetPattern.FindStringSubmatch(value)
	if match == nil {
		return "UTF-8"
	}
	return match[1]
}

// decodeBase64URL decodes the transport's base64url payloads, tolerating both
// padded and unpadded forms.
func decodeBase64URL(data string) ([]byte, error) {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

// decodeTextData base64url-decodes data and converts it to UTF-8 using the
// named charset.
func decodeTextData(data, charsetName string) (string, error) {
	decoded, err := decodeBase64URL(data)
	if err != nil {
		return "", fmt.Errorf("gmail: decoding body data failed: %w", err)
	}

	reader, err := charset.Reader(strings.ToLower(charsetName), bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("gmail: decoding body with charset %q failed: %w", charsetName, err)
	}
	text, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("gmail: decoding body with charset %q failed: %w", charsetName, err)
	}
	return string(text), nil
}

// parseMessage flattens a raw nested message record into a Message.
//
// The payload is expected to carry either a body directly, a flat parts
// list, or one level of multipart/alternative nesting; bodies nested any
// deeper are not found and leave Body/OriginalBody empty.
func parseMessage(session *Session, raw RawMessage) (*Message, error) {
	if raw.ID == "" || raw.HistoryID == "" || raw.InternalDate == 0 || raw.Payload == nil {
		return nil, fmt.Errorf("%w: message %q is missing required fields", ErrMalformedMessage, raw.ID)
	}

	msg := &Message{
		ID:        raw.ID,
		ThreadID:  raw.ThreadID,
		Snippet:   raw.Snippet,
		HistoryID: raw.HistoryID,
		Timestamp: time.Unix(raw.InternalDate/1000, 0),
		session:   session,
	}

	encoding := "UTF-8"
	for _, header := range raw.Payload.Headers {
		switch strings.ToUpper(header.Name) {
		case "FROM":
			msg.Sender = header.Value
		case "TO":
			msg.Recipient = header.Value
		case "SUBJECT":
			msg.Subject = header.Value
		case "CONTENT-TYPE":
			encoding = charsetFromContentType(header.Value)
		}
	}

	if len(raw.Payload.Parts) > 0 {
		for _, part := range raw.Payload.Parts {
			// Inline plain text carries Body.Data; attachments carry an
			// attachment id instead.
			switch {
			case strings.EqualFold(part.MIMEType, "text/plain") && part.Body.Data != "":
				if err := msg.setBody(part, encoding); err != nil {
					return nil, err
				}
			case strings.EqualFold(part.MIMEType, "multipart/alternative"):
				// Messages with attachments often nest the text body one
				// level down. Only one level is descended.
				for _, nested := range part.Parts {
					if strings.EqualFold(nested.MIMEType, "text/plain") && nested.Body.Data != "" {
						if err := msg.setBody(nested, encoding); err != nil {
							return nil, err
						}
					}
				}
			}

			if part.Filename != "" {
				msg.Attachments = append(msg.Attachments, part.Filename)
				msg.AttachmentDetails = append(msg.AttachmentDetails, AttachmentDetail{
					Filename:     part.Filename,
					AttachmentID: part.Body.AttachmentID,
					Size:         part.Body.Size,
				})
			}
		}
	} else if raw.Payload.Body.Data != "" {
		originalBody, err := decodeTextData(raw.Payload.Body.Data, encoding)
		if err != nil {
			return nil, err
		}
		msg.OriginalBody = originalBody
		msg.Body = RemoveQuotedReply(originalBody)
	}

	return msg, nil
}

// setBody decodes one qualifying plain-text part into the message body,
// preferring the part's own charset over the top-level one. When several
// parts qualify, the last one processed wins.
func (m *Message) setBody(part RawPart, topLevelEncoding string) error {
	encoding := topLevelEncoding
	for _, header := range part.Headers {
		if strings.ToUpper(header.Name) == "CONTENT-TYPE" {
			encoding = charsetFromContentType(header.Value)
		}
	}

	originalBody, err := decodeTextData(part.Body.Data, encoding)
	if err != nil {
		return err
	}
	m.OriginalBody = originalBody
	m.Body = RemoveQuotedReply(originalBody)
	return nil
}

func (m *Message) withSession() (*Session, error) {
	if m.session == nil || !m.session.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return m.session, nil
}

// Senders returns the message sender as a one-element list. It exists so
// that summaries can treat threads and messages uniformly.
func (m *Message) Senders() ([]string, error) {
	return []string{m.Sender}, nil
}

// LatestTimestamp returns the message timestamp. It exists so that summaries
// can treat threads and messages uniformly.
func (m *Message) LatestTimestamp() (time.Time, error) {
	return m.Timestamp, nil
}

// PreviewText returns the transport-supplied snippet.
func (m *Message) PreviewText() string {
	return m.Snippet
}

// ReplyInput carries the arguments to Reply. Only Body is required.
type ReplyInput struct {
	Body        string
	Attachments []string
	Cc          string
	Bcc         string
	MIMESubtype string
}

// Reply sends input.Body back to this message's sender with the same
// subject, threaded onto this message's conversation.
func (m *Message) Reply(input ReplyInput) error {
	session, err := m.withSession()
	if err != nil {
		return err
	}
	return session.Send(SendInput{
		Recipient:   m.Sender,
		Subject:     m.Subject,
		Body:        input.Body,
		Attachments: input.Attachments,
		Cc:          input.Cc,
		Bcc:         input.Bcc,
		MIMESubtype: input.MIMESubtype,
		threadID:    m.ThreadID,
	})
}

// AddLabel adds the named label to this message.
func (m *Message) AddLabel(name string) error {
	session, err := m.withSession()
	if err != nil {
		return err
	}
	return session.addLabel(EntityMessage, m.ID, name)
}

// RemoveLabel removes the named label from this message, if present.
func (m *Message) RemoveLabel(name string) error {
	session, err := m.withSession()
	if err != nil {
		return err
	}
	return session.removeLabel(EntityMessage, m.ID, name)
}

// MarkAsRead removes the UNREAD label from this message.
func (m *Message) MarkAsRead() error {
	session, err := m.withSession()
	if err != nil {
		return err
	}
	return session.markAsRead(EntityMessage, m.ID)
}

// MarkAsUnread adds the UNREAD label to this message.
func (m *Message) MarkAsUnread() error {
	session, err := m.withSession()
	if err != nil {
		return err
	}
	return session.markAsUnread(EntityMessage, m.ID)
}

// Trash moves this message to the trash folder.
func (m *Message) Trash() error {
	session, err := m.withSession()
	if err != nil {
		return err
	}
	return session.trash(EntityMessage, m.ID)
}
