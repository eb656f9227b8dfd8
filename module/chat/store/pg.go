package store

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"salachat/module/chat/model"
)

// Postgres implements Store on a pgx pool. See schema.sql for the two tables.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// baseSelect joins a message with its sender and, via LEFT JOIN, the message
// it replies to plus that message's sender. The LEFT JOIN is what makes a
// deleted reply target read back as null instead of erasing the reply.
const baseSelect = `
	SELECT m.id, m.message, m.type, m.user_send, m.created_at, m.updated_at,
	       u.name, u.color,
	       pm.id, pm.message, pm.type,
	       pu.name, pu.color
	FROM messages m
	JOIN users u ON m.user_send = u.id
	LEFT JOIN messages pm ON m.response_to = pm.id
	LEFT JOIN users pu ON pm.user_send = pu.id
`

func (s *Postgres) SelectPage(ctx context.Context, beforeID int64, limit int) ([]model.Message, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if beforeID > 0 {
		rows, err = s.pool.Query(ctx, baseSelect+` WHERE m.id < $1 ORDER BY m.id DESC LIMIT $2`, beforeID, limit)
	} else {
		rows, err = s.pool.Query(ctx, baseSelect+` ORDER BY m.id DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select page")
	}
	out, err := collect(rows)
	if err != nil {
		return nil, err
	}
	// Fetched newest-first; emit chronological.
	reverse(out)
	return out, nil
}

func (s *Postgres) SelectWindow(ctx context.Context, id int64, older, newer int) ([]model.Message, error) {
	// The older side is target-inclusive: one extra row covers the target
	// itself.
	rows, err := s.pool.Query(ctx, baseSelect+` WHERE m.id <= $1 ORDER BY m.id DESC LIMIT $2`, id, older+1)
	if err != nil {
		return nil, errors.Wrap(err, "select window older side")
	}
	olderRows, err := collect(rows)
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx, baseSelect+` WHERE m.id > $1 ORDER BY m.id ASC LIMIT $2`, id, newer)
	if err != nil {
		return nil, errors.Wrap(err, "select window newer side")
	}
	newerRows, err := collect(rows)
	if err != nil {
		return nil, err
	}

	all := append(olderRows, newerRows...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *Postgres) SelectOne(ctx context.Context, id int64) (*model.Message, error) {
	rows, err := s.pool.Query(ctx, baseSelect+` WHERE m.id = $1`, id)
	if err != nil {
		return nil, errors.Wrap(err, "select one")
	}
	out, err := collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (s *Postgres) Insert(ctx context.Context, senderID, text string, mtype model.MessageType, replyTo int64) (int64, error) {
	if mtype == "" {
		mtype = model.TypeText
	}
	var replyArg *int64
	if replyTo > 0 {
		replyArg = &replyTo
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (user_send, message, type, response_to) VALUES ($1, $2, $3, $4) RETURNING id`,
		senderID, text, string(mtype), replyArg,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert message")
	}
	return id, nil
}

func (s *Postgres) SenderOf(ctx context.Context, id int64) (string, bool, error) {
	var sender string
	err := s.pool.QueryRow(ctx, `SELECT user_send FROM messages WHERE id = $1`, id).Scan(&sender)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "sender of")
	}
	return sender, true, nil
}

func (s *Postgres) UpdateText(ctx context.Context, id int64, text string) error {
	_, err := s.pool.Exec(ctx, `UPDATE messages SET message = $1, updated_at = now() WHERE id = $2`, text, id)
	return errors.Wrap(err, "update message")
}

func (s *Postgres) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return errors.Wrap(err, "delete message")
}

func collect(rows pgx.Rows) ([]model.Message, error) {
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var (
			m         model.Message
			mtype     string
			createdAt time.Time
			updatedAt time.Time
			rID       *int64
			rText     *string
			rType     *string
			rUser     *string
			rColor    *string
		)
		if err := rows.Scan(
			&m.ID, &m.Text, &mtype, &m.SenderID, &createdAt, &updatedAt,
			&m.User, &m.Color,
			&rID, &rText, &rType, &rUser, &rColor,
		); err != nil {
			return nil, errors.Wrap(err, "scan message row")
		}
		m.Type = model.MessageType(mtype)
		m.CreatedAt = createdAt
		m.IsEdited = updatedAt.After(createdAt)
		if rID != nil {
			m.Reply = &model.ReplyPreview{
				ID:    *rID,
				Text:  deref(rText),
				Type:  model.MessageType(deref(rType)),
				User:  deref(rUser),
				Color: deref(rColor),
			}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate message rows")
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func reverse(msgs []model.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
