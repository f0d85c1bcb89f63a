// Package gmail wraps the Gmail API in a small conversation-oriented surface.
//
// The package exposes a handful of operations on a logged-in Session:
//
//   - Search: select threads with a Gmail search-box query string.
//   - Recent / Unread: common inbox searches, prepackaged.
//   - Send: build and submit an outgoing message, plain or html, with
//     attachments.
//   - ListLabels: discover the account's label catalog.
//
// Threads hydrate lazily: Search returns lightweight thread summaries, and
// Thread.Messages fetches and parses the full conversation on first use.
// Message carries the decoded plain-text body twice, as OriginalBody
// (verbatim) and Body (with the trailing quoted-reply block stripped), plus
// attachment metadata for DownloadAttachment / DownloadAllAttachments.
//
// Per-object mutations (AddLabel, RemoveLabel, MarkAsRead, MarkAsUnread,
// Trash, Reply) live on Thread and Message.
//
// # Authentication
//
// NewSession reads an OAuth client secret from credentials.json and a cached
// token from token.json (both paths overridable via Options). When the token
// is missing or stale, the interactive consent flow runs: a browser opens the
// consent page and the authorization code is read from standard input. The
// refreshed token is written back to the token file.
//
// # Core Pattern
//
//  1. Build a Session with NewSession.
//  2. Search (or Recent/Unread) for threads.
//  3. Hydrate with Thread.Messages, then read bodies or download attachments.
//  4. Reply, relabel, or trash as needed.
//
// Minimal example (print unread senders and mark them read):
//
//	session, err := gmail.NewSession(ctx, gmail.Options{})
//	if err != nil { /* handle */ }
//
//	threads, err := session.Unread(0)
//	if err != nil { /* handle */ }
//	for _, thread := range threads {
//		senders, err := thread.Senders()
//		if err != nil { /* handle */ }
//		fmt.Println(senders)
//		if err := thread.MarkAsRead(); err != nil { /* handle */ }
//	}
//
// Reply flow:
//
//	threads, err := session.Search("subject:invoice has:attachment", 10)
//	if err != nil { /* handle */ }
//	messages, err := threads[0].Messages()
//	if err != nil { /* handle */ }
//	latest := messages[len(messages)-1]
//	err = latest.Reply(gmail.ReplyInput{Body: "Received, thanks!"})
//
// Attachment flow:
//
//	names, err := latest.DownloadAllAttachments("invoices", false)
//	if err != nil { /* handle */ }
//	fmt.Println("saved", names)
//
// Summary flow (digest lines for a terminal):
//
//	entries, err := gmail.Summarize(toSummarizable(threads)...)
//	if err != nil { /* handle */ }
//	err = gmail.PrintSummary(os.Stdout, entries)
//
// The composition snippets above are compile-validated in this repository.
package gmail
