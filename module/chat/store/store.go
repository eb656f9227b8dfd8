package store

import (
	"context"

	"salachat/module/chat/model"
)

// Store is the message store adapter: four logical read/write operations
// against the durable, id-ordered log. Implementations return denormalized
// rows (message + sender + reply target) sorted ascending by id.
//
// Ids are store-assigned, strictly increasing and never reused. Delete is a
// hard delete; a reply pointing at a deleted row resolves with Reply == nil.
type Store interface {
	// SelectPage returns up to limit messages with id < beforeID, ascending.
	// beforeID <= 0 means "the most recent limit messages".
	SelectPage(ctx context.Context, beforeID int64, limit int) ([]model.Message, error)

	// SelectWindow returns the window around id, ascending: the target row
	// plus up to older strictly-older messages, and up to newer messages with
	// a greater id. The two sides query disjoint ranges (`<=` vs `>`) so no
	// dedup is needed; a missing exact row is tolerated.
	SelectWindow(ctx context.Context, id int64, older, newer int) ([]model.Message, error)

	// SelectOne returns the joined row for one id, or nil if it is gone.
	SelectOne(ctx context.Context, id int64) (*model.Message, error)

	// Insert appends a row attributed to senderID and returns the new id.
	// replyTo <= 0 means no reply reference.
	Insert(ctx context.Context, senderID, text string, mtype model.MessageType, replyTo int64) (int64, error)

	// SenderOf is the ownership-check read. ok is false when the row is gone.
	SenderOf(ctx context.Context, id int64) (senderID string, ok bool, err error)

	// UpdateText replaces the text and bumps updated_at.
	UpdateText(ctx context.Context, id int64, text string) error

	// Delete hard-deletes the row. Reply references elsewhere stay intact.
	Delete(ctx context.Context, id int64) error
}
