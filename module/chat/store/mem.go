package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"salachat/module/chat/model"
)

type memRow struct {
	id        int64
	senderID  string
	text      string
	mtype     model.MessageType
	replyTo   int64 // 0 = none
	createdAt time.Time
	updatedAt time.Time
}

// Memory is a mutex-guarded in-memory Store with the same observable
// semantics as Postgres. It backs tests and storeless dev runs.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*memRow
	order  []int64 // ascending insert order; ids are monotonic
	users  map[string]model.Identity
}

func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		byID:   make(map[int64]*memRow),
		users:  make(map[string]model.Identity),
	}
}

// PutUser registers sender display data resolved at read time.
func (s *Memory) PutUser(u model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Memory) SelectPage(_ context.Context, beforeID int64, limit int) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk newest-first, then emit chronological.
	var picked []int64
	for i := len(s.order) - 1; i >= 0 && len(picked) < limit; i-- {
		id := s.order[i]
		if beforeID > 0 && id >= beforeID {
			continue
		}
		picked = append(picked, id)
	}
	out := make([]model.Message, 0, len(picked))
	for i := len(picked) - 1; i >= 0; i-- {
		out = append(out, s.viewLocked(s.byID[picked[i]]))
	}
	return out, nil
}

func (s *Memory) SelectWindow(_ context.Context, id int64, older, newer int) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Older side is target-inclusive, so one extra slot covers the target.
	var olderIDs, newerIDs []int64
	for i := len(s.order) - 1; i >= 0 && len(olderIDs) < older+1; i-- {
		if s.order[i] <= id {
			olderIDs = append(olderIDs, s.order[i])
		}
	}
	for i := 0; i < len(s.order) && len(newerIDs) < newer; i++ {
		if s.order[i] > id {
			newerIDs = append(newerIDs, s.order[i])
		}
	}

	all := append(olderIDs, newerIDs...)
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	out := make([]model.Message, 0, len(all))
	for _, mid := range all {
		out = append(out, s.viewLocked(s.byID[mid]))
	}
	return out, nil
}

func (s *Memory) SelectOne(_ context.Context, id int64) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	v := s.viewLocked(r)
	return &v, nil
}

func (s *Memory) Insert(_ context.Context, senderID, text string, mtype model.MessageType, replyTo int64) (int64, error) {
	if mtype == "" {
		mtype = model.TypeText
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	id := s.nextID
	s.nextID++
	s.byID[id] = &memRow{
		id:        id,
		senderID:  senderID,
		text:      text,
		mtype:     mtype,
		replyTo:   replyTo,
		createdAt: now,
		updatedAt: now,
	}
	s.order = append(s.order, id)
	return id, nil
}

func (s *Memory) SenderOf(_ context.Context, id int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return "", false, nil
	}
	return r.senderID, true, nil
}

func (s *Memory) UpdateText(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil
	}
	now := time.Now()
	if !now.After(r.createdAt) {
		now = r.createdAt.Add(time.Nanosecond)
	}
	r.text = text
	r.updatedAt = now
	return nil
}

func (s *Memory) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return nil
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Memory) viewLocked(r *memRow) model.Message {
	u := s.users[r.senderID]
	m := model.Message{
		ID:        r.id,
		Text:      r.text,
		Type:      r.mtype,
		User:      u.Name,
		Color:     u.Color,
		CreatedAt: r.createdAt,
		IsEdited:  r.updatedAt.After(r.createdAt),
		SenderID:  r.senderID,
	}
	// Weak reference: a deleted target leaves the reply row intact with a
	// nil preview.
	if r.replyTo > 0 {
		if p, ok := s.byID[r.replyTo]; ok {
			pu := s.users[p.senderID]
			m.Reply = &model.ReplyPreview{
				ID:    p.id,
				Text:  p.text,
				Type:  p.mtype,
				User:  pu.Name,
				Color: pu.Color,
			}
		}
	}
	return m
}
