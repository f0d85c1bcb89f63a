package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message/mail"
)

// SendInput describes one outgoing message.
type SendInput struct {
	// Recipient, Cc and Bcc are comma-delimited address strings. Cc and Bcc
	// are optional.
	Recipient string
	Cc        string
	Bcc       string

	Subject string
	Body    string

	// MIMESubtype selects the body's text subtype, "plain" (the default) or
	// "html", case-insensitive. Anything else is an invalid argument.
	MIMESubtype string

	// Attachments are local file paths. Each file is attached per the media
	// type guessed from its extension.
	Attachments []string

	// Sender is informational only; the remote service substitutes the
	// logged-in account's address and the field's content is never validated.
	Sender string

	// threadID links the message onto an existing conversation. Set by
	// Message.Reply.
	threadID string
}

// buildEnvelope constructs the outgoing MIME structure and base64url-encodes
// its wire bytes into a transport-ready Envelope. All argument validation
// happens before any file is read.
func buildEnvelope(sender string, input SendInput) (Envelope, error) {
	subtype, err := normalizeMIMESubtype(input.MIMESubtype)
	if err != nil {
		return Envelope{}, err
	}
	for _, attachment := range input.Attachments {
		if _, err := os.Stat(attachment); err != nil {
			abs, _ := filepath.Abs(attachment)
			return Envelope{}, fmt.Errorf("%w: attachment file does not exist at %s", ErrInvalidArgument, abs)
		}
	}

	var header mail.Header
	header.Set("From", sender)
	header.Set("To", input.Recipient)
	header.Set("Subject", input.Subject)
	if input.Cc != "" {
		header.Set("Cc", input.Cc)
	}
	if input.Bcc != "" {
		header.Set("Bcc", input.Bcc)
	}

	var buf bytes.Buffer
	if len(input.Attachments) == 0 {
		if err := writeSimpleMessage(&buf, header, subtype, input.Body); err != nil {
			return Envelope{}, err
		}
	} else {
		if err := writeMultipartMessage(&buf, header, subtype, input.Body, input.Attachments); err != nil {
			return Envelope{}, err
		}
	}

	return Envelope{
		Raw:      base64.URLEncoding.EncodeToString(buf.Bytes()),
		ThreadID: input.threadID,
	}, nil
}

func normalizeMIMESubtype(value string) (string, error) {
	if value == "" {
		return "plain", nil
	}
	subtype := strings.ToLower(value)
	if subtype != "plain" && subtype != "html" {
		return "", fmt.Errorf(`%w: mime subtype must be "plain" or "html", got %q`, ErrInvalidArgument, value)
	}
	return subtype, nil
}

// writeSimpleMessage writes a single-part text message.
func writeSimpleMessage(w io.Writer, header mail.Header, subtype, body string) error {
	header.SetContentType("text/"+subtype, map[string]string{"charset": "utf-8"})

	writer, err := mail.CreateSingleInlineWriter(w, header)
	if err != nil {
		return fmt.Errorf("gmail: building message failed: %w", err)
	}
	if _, err := io.WriteString(writer, body); err != nil {
		return fmt.Errorf("gmail: writing message body failed: %w", err)
	}
	return writer.Close()
}

// writeMultipartMessage writes a multipart message whose first part is the
// text body, followed by one part per attachment file.
func writeMultipartMessage(w io.Writer, header mail.Header, subtype, body string, attachments []string) error {
	writer, err := mail.CreateWriter(w, header)
	if err != nil {
		return fmt.Errorf("gmail: building message failed: %w", err)
	}

	var inlineHeader mail.InlineHeader
	inlineHeader.SetContentType("text/"+subtype, map[string]string{"charset": "utf-8"})
	bodyWriter, err := writer.CreateSingleInline(inlineHeader)
	if err != nil {
		return fmt.Errorf("gmail: writing message body failed: %w", err)
	}
	if _, err := io.WriteString(bodyWriter, body); err != nil {
		return fmt.Errorf("gmail: writing message body failed: %w", err)
	}
	if err := bodyWriter.Close(); err != nil {
		return fmt.Errorf("gmail: writing message body failed: %w", err)
	}

	for _, attachment := range attachments {
		if err := writeAttachmentPart(writer, attachment); err != nil {
			return err
		}
	}
	return writer.Close()
}

// writeAttachmentPart appends one attachment part: text media types become
// text parts with the guessed subtype, image/audio use their media type
// as-is, and everything else is a generic binary part with an explicit
// base64 content-transfer-encoding. Every part carries a
// Content-Disposition: attachment header with the base filename.
func writeAttachmentPart(writer *mail.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gmail: reading attachment %s failed: %w", path, err)
	}

	contentType := guessContentType(path)
	mainType, _, _ := strings.Cut(contentType, "/")

	var header mail.AttachmentHeader
	header.SetFilename(filepath.Base(path))
	switch mainType {
	case "text":
		header.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	case "image", "audio":
		header.SetContentType(contentType, nil)
	default:
		header.SetContentType(contentType, nil)
		header.Set("Content-Transfer-Encoding", "base64")
	}

	attachmentWriter, err := writer.CreateAttachment(header)
	if err != nil {
		return fmt.Errorf("gmail: attaching %s failed: %w", path, err)
	}
	if _, err := attachmentWriter.Write(data); err != nil {
		return fmt.Errorf("gmail: attaching %s failed: %w", path, err)
	}
	return attachmentWriter.Close()
}

// guessContentType guesses a media type from the filename extension, falling
// back to application/octet-stream when the guess fails or the extension
// marks a compressed encoding rather than a content type.
func guessContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz", ".bz2", ".xz", ".z":
		return "application/octet-stream"
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return "application/octet-stream"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}
