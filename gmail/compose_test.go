package gmail

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/nalgeon/be"
)

func TestNormalizeMIMESubtype(t *testing.T) {
	subtype, err := normalizeMIMESubtype("")
	be.Err(t, err, nil)
	be.Equal(t, subtype, "plain")

	subtype, err = normalizeMIMESubtype("HTML")
	be.Err(t, err, nil)
	be.Equal(t, subtype, "html")

	subtype, err = normalizeMIMESubtype("Plain")
	be.Err(t, err, nil)
	be.Equal(t, subtype, "plain")

	_, err = normalizeMIMESubtype("xml")
	be.Err(t, err, ErrInvalidArgument)
}

func decodeEnvelope(t *testing.T, envelope Envelope) *mail.Reader {
	t.Helper()
	raw, err := decodeBase64URL(envelope.Raw)
	be.Err(t, err, nil)
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	be.Err(t, err, nil)
	return reader
}

func TestBuildEnvelopeSimple(t *testing.T) {
	envelope, err := buildEnvelope("me@example.com", SendInput{
		Recipient: "al@example.com",
		Cc:        "cc@example.com",
		Subject:   "Hi",
		Body:      "hello body",
	})
	be.Err(t, err, nil)
	be.Equal(t, envelope.ThreadID, "")

	reader := decodeEnvelope(t, envelope)
	subject, err := reader.Header.Subject()
	be.Err(t, err, nil)
	be.Equal(t, subject, "Hi")

	to, err := reader.Header.AddressList("To")
	be.Err(t, err, nil)
	be.Equal(t, len(to), 1)
	be.Equal(t, to[0].Address, "al@example.com")

	cc, err := reader.Header.AddressList("Cc")
	be.Err(t, err, nil)
	be.Equal(t, len(cc), 1)

	part, err := reader.NextPart()
	be.Err(t, err, nil)
	inline, isInline := part.Header.(*mail.InlineHeader)
	be.True(t, isInline)
	contentType, _, err := inline.ContentType()
	be.Err(t, err, nil)
	be.Equal(t, contentType, "text/plain")
	body, err := io.ReadAll(part.Body)
	be.Err(t, err, nil)
	be.Equal(t, string(body), "hello body")
}

func TestBuildEnvelopeHTMLBody(t *testing.T) {
	envelope, err := buildEnvelope("me@example.com", SendInput{
		Recipient:   "al@example.com",
		Subject:     "Hi",
		Body:        "<p>hello</p>",
		MIMESubtype: "HTML",
	})
	be.Err(t, err, nil)

	reader := decodeEnvelope(t, envelope)
	part, err := reader.NextPart()
	be.Err(t, err, nil)
	inline, isInline := part.Header.(*mail.InlineHeader)
	be.True(t, isInline)
	contentType, _, err := inline.ContentType()
	be.Err(t, err, nil)
	be.Equal(t, contentType, "text/html")
}

func TestBuildEnvelopeThreadID(t *testing.T) {
	envelope, err := buildEnvelope("me@example.com", SendInput{
		Recipient: "al@example.com",
		Subject:   "Hi",
		Body:      "hello",
		threadID:  "t9",
	})
	be.Err(t, err, nil)
	be.Equal(t, envelope.ThreadID, "t9")
}

func TestBuildEnvelopeAttachments(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.png")
	be.Err(t, os.WriteFile(photo, []byte("PNGDATA"), 0o644), nil)
	blob := filepath.Join(dir, "data.xyz")
	be.Err(t, os.WriteFile(blob, []byte("BLOBDATA"), 0o644), nil)

	envelope, err := buildEnvelope("me@example.com", SendInput{
		Recipient:   "al@example.com",
		Subject:     "Hi",
		Body:        "see attached",
		Attachments: []string{photo, blob},
	})
	be.Err(t, err, nil)

	reader := decodeEnvelope(t, envelope)

	part, err := reader.NextPart()
	be.Err(t, err, nil)
	_, isInline := part.Header.(*mail.InlineHeader)
	be.True(t, isInline)
	body, err := io.ReadAll(part.Body)
	be.Err(t, err, nil)
	be.Equal(t, string(body), "see attached")

	part, err = reader.NextPart()
	be.Err(t, err, nil)
	attachment, isAttachment := part.Header.(*mail.AttachmentHeader)
	be.True(t, isAttachment)
	filename, err := attachment.Filename()
	be.Err(t, err, nil)
	be.Equal(t, filename, "photo.png")
	contentType, _, err := attachment.ContentType()
	be.Err(t, err, nil)
	be.Equal(t, contentType, "image/png")
	data, err := io.ReadAll(part.Body)
	be.Err(t, err, nil)
	be.Equal(t, string(data), "PNGDATA")

	part, err = reader.NextPart()
	be.Err(t, err, nil)
	attachment, isAttachment = part.Header.(*mail.AttachmentHeader)
	be.True(t, isAttachment)
	filename, err = attachment.Filename()
	be.Err(t, err, nil)
	be.Equal(t, filename, "data.xyz")
	contentType, _, err = attachment.ContentType()
	be.Err(t, err, nil)
	be.Equal(t, contentType, "application/octet-stream")
	data, err = io.ReadAll(part.Body)
	be.Err(t, err, nil)
	be.Equal(t, string(data), "BLOBDATA")

	_, err = reader.NextPart()
	be.Equal(t, err, io.EOF)
}

func TestBuildEnvelopeMissingAttachment(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	_, err := buildEnvelope("me@example.com", SendInput{
		Recipient:   "al@example.com",
		Subject:     "Hi",
		Body:        "hello",
		Attachments: []string{missing},
	})
	be.Err(t, err, ErrInvalidArgument)
	be.True(t, strings.Contains(err.Error(), "nope.txt"))
}

func TestGuessContentType(t *testing.T) {
	be.Equal(t, guessContentType("photo.PNG"), "image/png")
	be.Equal(t, guessContentType("report.pdf"), "application/pdf")
	be.Equal(t, guessContentType("mystery.xyz"), "application/octet-stream")
	// Compressed-encoding extensions are generic binary, not their inner type.
	be.Equal(t, guessContentType("archive.tar.gz"), "application/octet-stream")
	be.Equal(t, guessContentType("noextension"), "application/octet-stream")
}
