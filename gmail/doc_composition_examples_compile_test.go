package gmail_test

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/asweigart/ezgmail/gmail"
)

// The functions below mirror the recipes in the package documentation. They
// exist to keep those snippets compiling against the real API surface.

func composePrintUnreadSendersAndMarkRead(ctx context.Context) error {
	session, err := gmail.NewSession(ctx, gmail.Options{})
	if err != nil {
		return err
	}

	threads, err := session.Unread(0)
	if err != nil {
		return err
	}
	for _, thread := range threads {
		senders, err := thread.Senders()
		if err != nil {
			return err
		}
		fmt.Println(senders)
		if err := thread.MarkAsRead(); err != nil {
			return err
		}
	}
	return nil
}

func composeReplyToLatestInvoice(session *gmail.Session) error {
	threads, err := session.Search("subject:invoice has:attachment", 10)
	if err != nil {
		return err
	}
	if len(threads) == 0 {
		return nil
	}

	messages, err := threads[0].Messages()
	if err != nil {
		return err
	}
	latest := messages[len(messages)-1]

	names, err := latest.DownloadAllAttachments("invoices", false)
	if err != nil {
		return err
	}
	fmt.Println("saved", names)

	return latest.Reply(gmail.ReplyInput{Body: "Received, thanks!"})
}

func composeSendWithAttachments(session *gmail.Session, files []string) error {
	return session.Send(gmail.SendInput{
		Recipient:   "al@example.com",
		Subject:     "Weekly report",
		Body:        "<p>Numbers attached.</p>",
		MIMESubtype: "html",
		Attachments: files,
	})
}

func composeSummarizeRecent(session *gmail.Session, w io.Writer) error {
	threads, err := session.Recent(0)
	if err != nil {
		return err
	}

	entries, err := gmail.Summarize(toSummarizable(threads)...)
	if err != nil {
		return err
	}
	return gmail.PrintSummary(w, entries)
}

func composeLabelBySender(session *gmail.Session, senderDomain, label string) error {
	query := fmt.Sprintf("from:%s", strings.TrimPrefix(senderDomain, "@"))
	threads, err := session.Search(query, 50)
	if err != nil {
		return err
	}
	for _, thread := range threads {
		if err := thread.AddLabel(label); err != nil {
			return err
		}
	}
	return nil
}

func toSummarizable(threads []*gmail.Thread) []gmail.Summarizable {
	out := make([]gmail.Summarizable, 0, len(threads))
	for _, thread := range threads {
		out = append(out, thread)
	}
	return out
}
