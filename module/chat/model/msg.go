package model

import "time"

type MessageType string

const (
	TypeText  MessageType = "text"
	TypeImage MessageType = "image"
	TypeVideo MessageType = "video"
	TypeFile  MessageType = "file"
)

// Identity is the authenticated user attached to a connection. Ownership
// checks compare Identity.ID, never the display name.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ReplyPreview is the denormalized snapshot of a reply target, resolved at
// read time. A deleted target resolves the whole preview to nil on the parent
// message; the reply row itself is untouched.
type ReplyPreview struct {
	ID    int64       `json:"id"`
	Text  string      `json:"text"`
	Type  MessageType `json:"type"`
	User  string      `json:"user"`
	Color string      `json:"color"`
}

// Message is the wire shape of one chat message: the stored row joined with
// its sender and, if present, the message it replies to.
// For Type != text, Text carries an opaque filename.
type Message struct {
	ID        int64         `json:"id"`
	Text      string        `json:"text"`
	Type      MessageType   `json:"type"`
	User      string        `json:"user"`
	Color     string        `json:"color"`
	CreatedAt time.Time     `json:"createdAt"`
	IsEdited  bool          `json:"isEdited"`
	Reply     *ReplyPreview `json:"reply"`

	// SenderID backs the ownership check; it never goes over the wire.
	SenderID string `json:"-"`
}
