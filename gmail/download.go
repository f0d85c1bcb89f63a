package gmail

import (
	"fmt"
	"os"
	"path/filepath"
)

// DownloadAttachment downloads the attachment named filename into folder,
// overwriting any existing file of that name. Pass "" or "." for the current
// directory; a missing folder is created.
//
// When several attachments share the same filename, duplicateIndex selects
// among them in discovery order (0 is the first). An unknown filename or an
// out-of-range index fails before any I/O.
func (m *Message) DownloadAttachment(filename, folder string, duplicateIndex int) error {
	session, err := m.withSession()
	if err != nil {
		return err
	}

	detail, err := m.attachmentDetail(filename, duplicateIndex)
	if err != nil {
		return err
	}

	data, err := m.fetchAttachment(session, detail)
	if err != nil {
		return err
	}

	if err := ensureFolder(folder); err != nil {
		return err
	}
	return writeAttachmentFile(folder, filename, data)
}

// DownloadAllAttachments downloads every attachment in this message into
// folder and returns the filenames written, in discovery order (duplicates
// included; the later write wins on disk).
//
// With overwrite false, any duplicate filename among the attachments fails
// the whole call before a single byte is fetched or written.
func (m *Message) DownloadAllAttachments(folder string, overwrite bool) ([]string, error) {
	session, err := m.withSession()
	if err != nil {
		return nil, err
	}

	if !overwrite {
		seen := make(map[string]struct{}, len(m.AttachmentDetails))
		for _, detail := range m.AttachmentDetails {
			if _, ok := seen[detail.Filename]; ok {
				return nil, fmt.Errorf("%w: duplicate attachment filename %q; pass overwrite=true to download anyway", ErrInvalidArgument, detail.Filename)
			}
			seen[detail.Filename] = struct{}{}
		}
	}

	if err := ensureFolder(folder); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(m.AttachmentDetails))
	for _, detail := range m.AttachmentDetails {
		data, err := m.fetchAttachment(session, detail)
		if err != nil {
			return nil, err
		}
		if err := writeAttachmentFile(folder, detail.Filename, data); err != nil {
			return nil, err
		}
		written = append(written, detail.Filename)
	}
	return written, nil
}

// attachmentDetail resolves filename and duplicateIndex to the matching
// attachment record, distinguishing "no such name" from "index out of range"
// in the error.
func (m *Message) attachmentDetail(filename string, duplicateIndex int) (AttachmentDetail, error) {
	matches := make([]int, 0, 1)
	for i, name := range m.Attachments {
		if name == filename {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return AttachmentDetail{}, fmt.Errorf("%w: no attachment named %q among %q", ErrInvalidArgument, filename, m.Attachments)
	}
	if duplicateIndex < 0 || duplicateIndex >= len(matches) {
		return AttachmentDetail{}, fmt.Errorf("%w: no attachment named %q with duplicate index %d", ErrInvalidArgument, filename, duplicateIndex)
	}
	return m.AttachmentDetails[matches[duplicateIndex]], nil
}

func (m *Message) fetchAttachment(session *Session, detail AttachmentDetail) ([]byte, error) {
	data, err := session.transport.AttachmentData(session.userID, m.ID, detail.AttachmentID)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeBase64URL(data)
	if err != nil {
		return nil, fmt.Errorf("gmail: decoding attachment %q failed: %w", detail.Filename, err)
	}
	return decoded, nil
}

// ensureFolder makes sure folder exists and is a directory, creating it if
// absent. An existing non-directory path is fatal.
func ensureFolder(folder string) error {
	if folder == "" {
		folder = "."
	}

	info, err := os.Stat(folder)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return fmt.Errorf("gmail: creating download folder %s failed: %w", folder, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("gmail: checking download folder %s failed: %w", folder, err)
	}
	if !info.IsDir() {
		abs, _ := filepath.Abs(folder)
		return fmt.Errorf("%w: %s is a file, not a folder", ErrInvalidArgument, abs)
	}
	return nil
}

func writeAttachmentFile(folder, filename string, data []byte) error {
	if folder == "" {
		folder = "."
	}
	path := filepath.Join(folder, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("gmail: writing attachment to %s failed: %w", path, err)
	}
	return nil
}
