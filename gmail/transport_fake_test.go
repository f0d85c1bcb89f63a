package gmail

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

type modifyCall struct {
	objectID string
	entity   Entity
	add      []string
	remove   []string
}

type trashCall struct {
	objectID string
	entity   Entity
}

// fakeTransport is an in-memory Transport recording every call it receives.
type fakeTransport struct {
	address     string
	threads     []ThreadSummary
	threadMsgs  map[string][]RawMessage
	attachments map[string]string // attachment id -> base64url data
	labels      []Label

	listQueries     []string
	listMaxResults  []int64
	getThreadCalls  int
	attachmentCalls int
	sentEnvelopes   []Envelope
	modifyCalls     []modifyCall
	trashCalls      []trashCall
}

func (f *fakeTransport) ProfileAddress(userID string) (string, error) {
	return f.address, nil
}

func (f *fakeTransport) ListThreads(userID, query string, maxResults int64) ([]ThreadSummary, error) {
	f.listQueries = append(f.listQueries, query)
	f.listMaxResults = append(f.listMaxResults, maxResults)
	return f.threads, nil
}

func (f *fakeTransport) GetThread(userID, threadID string) ([]RawMessage, error) {
	f.getThreadCalls++
	msgs, ok := f.threadMsgs[threadID]
	if !ok {
		return nil, fmt.Errorf("gmail: fetching thread %s failed: not found", threadID)
	}
	return msgs, nil
}

func (f *fakeTransport) AttachmentData(userID, messageID, attachmentID string) (string, error) {
	f.attachmentCalls++
	data, ok := f.attachments[attachmentID]
	if !ok {
		return "", fmt.Errorf("gmail: fetching attachment failed: not found")
	}
	return data, nil
}

func (f *fakeTransport) SendRaw(userID string, envelope Envelope) (string, error) {
	f.sentEnvelopes = append(f.sentEnvelopes, envelope)
	return fmt.Sprintf("sent-%d", len(f.sentEnvelopes)), nil
}

func (f *fakeTransport) ModifyLabels(userID, objectID string, entity Entity, addLabelIDs, removeLabelIDs []string) error {
	f.modifyCalls = append(f.modifyCalls, modifyCall{
		objectID: objectID,
		entity:   entity,
		add:      addLabelIDs,
		remove:   removeLabelIDs,
	})
	return nil
}

func (f *fakeTransport) ListLabels(userID string) ([]Label, error) {
	return f.labels, nil
}

func (f *fakeTransport) Trash(userID, objectID string, entity Entity) error {
	f.trashCalls = append(f.trashCalls, trashCall{objectID: objectID, entity: entity})
	return nil
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		address:     "me@example.com",
		threadMsgs:  map[string][]RawMessage{},
		attachments: map[string]string{},
	}
}

func newTestSession(t *testing.T, transport *fakeTransport) *Session {
	t.Helper()
	session, err := newSession(transport, "me")
	be.Err(t, err, nil)
	return session
}

func b64(text string) string {
	return base64.URLEncoding.EncodeToString([]byte(text))
}

// rawTextMessage builds a minimal well-formed message with a single
// plain-text part.
func rawTextMessage(id, threadID, sender, body string, internalDate int64) RawMessage {
	return RawMessage{
		ID:           id,
		ThreadID:     threadID,
		Snippet:      body,
		HistoryID:    "1000",
		InternalDate: internalDate,
		Payload: &RawPart{
			MIMEType: "multipart/mixed",
			Headers: []RawHeader{
				{Name: "From", Value: sender},
				{Name: "To", Value: "me@example.com"},
				{Name: "Subject", Value: "test subject"},
			},
			Parts: []RawPart{
				{
					MIMEType: "text/plain",
					Body:     RawBody{Data: b64(body)},
				},
			},
		},
	}
}
