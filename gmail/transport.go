package gmail

import (
	"fmt"
	"strconv"

	gmailapi "google.golang.org/api/gmail/v1"
)

// Transport is the capability set the core needs from the remote mail
// service. Calls are synchronous and may fail; failures propagate to the
// caller unchanged, with no retry policy.
//
// The query string grammar accepted by ListThreads is opaque to this package
// and forwarded verbatim; tokens like "label:UNREAD" or "has:attachment" are
// a convention of the remote service.
type Transport interface {
	ProfileAddress(userID string) (string, error)
	ListThreads(userID, query string, maxResults int64) ([]ThreadSummary, error)
	GetThread(userID, threadID string) ([]RawMessage, error)
	AttachmentData(userID, messageID, attachmentID string) (string, error)
	SendRaw(userID string, envelope Envelope) (string, error)
	ModifyLabels(userID, objectID string, entity Entity, addLabelIDs, removeLabelIDs []string) error
	ListLabels(userID string) ([]Label, error)
	Trash(userID, objectID string, entity Entity) error
}

// apiTransport implements Transport over the Gmail REST service.
type apiTransport struct {
	svc *gmailapi.Service
}

func (t *apiTransport) ProfileAddress(userID string) (string, error) {
	profile, err := t.svc.Users.GetProfile(userID).Do()
	if err != nil {
		return "", fmt.Errorf("gmail: fetching profile failed: %w", err)
	}
	return profile.EmailAddress, nil
}

func (t *apiTransport) ListThreads(userID, query string, maxResults int64) ([]ThreadSummary, error) {
	call := t.svc.Users.Threads.List(userID).MaxResults(maxResults)
	if query != "" {
		call = call.Q(query)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: listing threads failed: %w", err)
	}

	out := make([]ThreadSummary, 0, len(resp.Threads))
	for _, thread := range resp.Threads {
		out = append(out, ThreadSummary{
			ID:        thread.Id,
			Snippet:   thread.Snippet,
			HistoryID: strconv.FormatUint(thread.HistoryId, 10),
		})
	}
	return out, nil
}

func (t *apiTransport) GetThread(userID, threadID string) ([]RawMessage, error) {
	thread, err := t.svc.Users.Threads.Get(userID, threadID).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: fetching thread %s failed: %w", threadID, err)
	}

	out := make([]RawMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		out = append(out, convertMessage(msg))
	}
	return out, nil
}

func (t *apiTransport) AttachmentData(userID, messageID, attachmentID string) (string, error) {
	body, err := t.svc.Users.Messages.Attachments.Get(userID, messageID, attachmentID).Do()
	if err != nil {
		return "", fmt.Errorf("gmail: fetching attachment failed: %w", err)
	}
	return body.Data, nil
}

func (t *apiTransport) SendRaw(userID string, envelope Envelope) (string, error) {
	msg := &gmailapi.Message{Raw: envelope.Raw, ThreadId: envelope.ThreadID}
	sent, err := t.svc.Users.Messages.Send(userID, msg).Do()
	if err != nil {
		return "", fmt.Errorf("gmail: sending message failed: %w", err)
	}
	return sent.Id, nil
}

func (t *apiTransport) ModifyLabels(userID, objectID string, entity Entity, addLabelIDs, removeLabelIDs []string) error {
	switch entity {
	case EntityThread:
		req := &gmailapi.ModifyThreadRequest{AddLabelIds: addLabelIDs, RemoveLabelIds: removeLabelIDs}
		if _, err := t.svc.Users.Threads.Modify(userID, objectID, req).Do(); err != nil {
			return fmt.Errorf("gmail: modifying labels on thread %s failed: %w", objectID, err)
		}
		return nil
	case EntityMessage:
		req := &gmailapi.ModifyMessageRequest{AddLabelIds: addLabelIDs, RemoveLabelIds: removeLabelIDs}
		if _, err := t.svc.Users.Messages.Modify(userID, objectID, req).Do(); err != nil {
			return fmt.Errorf("gmail: modifying labels on message %s failed: %w", objectID, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported entity %q", ErrInvalidArgument, entity)
	}
}

func (t *apiTransport) ListLabels(userID string) ([]Label, error) {
	resp, err := t.svc.Users.Labels.List(userID).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: listing labels failed: %w", err)
	}

	out := make([]Label, 0, len(resp.Labels))
	for _, label := range resp.Labels {
		out = append(out, Label{ID: label.Id, Name: label.Name})
	}
	return out, nil
}

func (t *apiTransport) Trash(userID, objectID string, entity Entity) error {
	switch entity {
	case EntityThread:
		if _, err := t.svc.Users.Threads.Trash(userID, objectID).Do(); err != nil {
			return fmt.Errorf("gmail: trashing thread %s failed: %w", objectID, err)
		}
		return nil
	case EntityMessage:
		if _, err := t.svc.Users.Messages.Trash(userID, objectID).Do(); err != nil {
			return fmt.Errorf("gmail: trashing message %s failed: %w", objectID, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported entity %q", ErrInvalidArgument, entity)
	}
}

func convertMessage(msg *gmailapi.Message) RawMessage {
	return RawMessage{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		HistoryID:    strconv.FormatUint(msg.HistoryId, 10),
		InternalDate: msg.InternalDate,
		Payload:      convertPart(msg.Payload),
	}
}

func convertPart(part *gmailapi.MessagePart) *RawPart {
	if part == nil {
		return nil
	}

	out := &RawPart{
		MIMEType: part.MimeType,
		Filename: part.Filename,
	}
	for _, header := range part.Headers {
		if header == nil {
			continue
		}
		out.Headers = append(out.Headers, RawHeader{Name: header.Name, Value: header.Value})
	}
	if part.Body != nil {
		out.Body = RawBody{
			AttachmentID: part.Body.AttachmentId,
			Size:         part.Body.Size,
			Data:         part.Body.Data,
		}
	}
	for _, child := range part.Parts {
		if converted := convertPart(child); converted != nil {
			out.Parts = append(out.Parts, *converted)
		}
	}
	return out
}
