package gmail

// Entity identifies the Gmail object type an operation targets.
//
// Entity scopes label and trash operations to either a whole thread or a
// single message.
type Entity string

const (
	// EntityMessage scopes an operation to an individual message.
	EntityMessage Entity = "message"
	// EntityThread scopes an operation to a whole thread.
	EntityThread Entity = "thread"
)

// ThreadSummary is one entry of a thread listing: the identifiers the remote
// service returns from a search, without the messages themselves.
type ThreadSummary struct {
	ID        string
	Snippet   string
	HistoryID string
}

// RawHeader is a single name/value header of a raw message or part.
type RawHeader struct {
	Name  string
	Value string
}

// RawBody carries the content of a leaf MIME part. Inline text parts have
// Data set (base64url); attachment parts have AttachmentID set instead, with
// Size holding the declared byte count.
type RawBody struct {
	AttachmentID string
	Size         int64
	Data         string
}

// RawPart is one node of a raw message's MIME part tree.
type RawPart struct {
	MIMEType string
	Filename string
	Headers  []RawHeader
	Body     RawBody
	Parts    []RawPart
}

// RawMessage is the nested message representation returned by the transport
// for each message of a fetched thread. InternalDate is milliseconds since
// the epoch.
type RawMessage struct {
	ID           string
	ThreadID     string
	Snippet      string
	HistoryID    string
	InternalDate int64
	Payload      *RawPart
}

// Label describes one entry of the account's label catalog. Name is the
// human-facing value ("Work", "UNREAD"); ID is what label mutations require.
type Label struct {
	ID   string
	Name string
}

// Envelope is a transport-ready outgoing message: the full wire bytes of the
// MIME structure, base64url-encoded, plus an optional thread id that makes
// the remote service file the message as a reply on an existing thread.
type Envelope struct {
	Raw      string
	ThreadID string
}
