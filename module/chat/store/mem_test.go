package store

import (
	"context"
	"testing"

	"salachat/module/chat/model"
)

func seed(t *testing.T, n int) *Memory {
	t.Helper()
	s := NewMemory()
	s.PutUser(model.Identity{ID: "a", Name: "Ana", Color: "#f00"})
	s.PutUser(model.Identity{ID: "b", Name: "Beto", Color: "#00f"})
	for i := 0; i < n; i++ {
		sender := "a"
		if i%2 == 1 {
			sender = "b"
		}
		if _, err := s.Insert(context.Background(), sender, "msg", model.TypeText, 0); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	return s
}

func wantIDs(t *testing.T, msgs []model.Message, from, to int64) {
	t.Helper()
	if int64(len(msgs)) != to-from+1 {
		t.Fatalf("got %d messages, want ids %d..%d", len(msgs), from, to)
	}
	for i, m := range msgs {
		if m.ID != from+int64(i) {
			t.Fatalf("msgs[%d].ID = %d, want %d", i, m.ID, from+int64(i))
		}
	}
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	s := seed(t, 0)
	var last int64
	for i := 0; i < 10; i++ {
		id, err := s.Insert(context.Background(), "a", "x", model.TypeText, 0)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}
}

func TestSelectPagePagination(t *testing.T) {
	s := seed(t, 120)

	page, err := s.SelectPage(context.Background(), 0, 50)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	wantIDs(t, page, 71, 120)

	page, err = s.SelectPage(context.Background(), 71, 50)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	wantIDs(t, page, 21, 70)

	page, err = s.SelectPage(context.Background(), 21, 50)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	wantIDs(t, page, 1, 20)
	if len(page) >= 50 {
		t.Fatalf("last page should be short, got %d", len(page))
	}
}

func TestSelectPageChainReconstructsLog(t *testing.T) {
	s := seed(t, 137)

	var all []model.Message
	cursor := int64(0)
	for {
		page, err := s.SelectPage(context.Background(), cursor, 50)
		if err != nil {
			t.Fatalf("page at cursor %d: %v", cursor, err)
		}
		all = append(page, all...)
		if len(page) < 50 {
			break
		}
		cursor = page[0].ID
	}
	wantIDs(t, all, 1, 137)
}

func TestSelectWindow(t *testing.T) {
	s := seed(t, 120)

	win, err := s.SelectWindow(context.Background(), 60, 25, 25)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	wantIDs(t, win, 35, 85)

	win, err = s.SelectWindow(context.Background(), 5, 25, 25)
	if err != nil {
		t.Fatalf("window at boundary: %v", err)
	}
	wantIDs(t, win, 1, 30)

	win, err = s.SelectWindow(context.Background(), 120, 25, 25)
	if err != nil {
		t.Fatalf("window at top: %v", err)
	}
	wantIDs(t, win, 95, 120)
}

func TestSelectWindowToleratesDeletedTarget(t *testing.T) {
	s := seed(t, 120)
	if err := s.Delete(context.Background(), 60); err != nil {
		t.Fatalf("delete: %v", err)
	}
	win, err := s.SelectWindow(context.Background(), 60, 25, 25)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	for _, m := range win {
		if m.ID == 60 {
			t.Fatalf("deleted target still present")
		}
	}
	if len(win) == 0 {
		t.Fatalf("window empty despite surviving neighbors")
	}
}

func TestUpdateTextMarksEdited(t *testing.T) {
	s := seed(t, 1)
	if err := s.UpdateText(context.Background(), 1, "editado"); err != nil {
		t.Fatalf("update: %v", err)
	}
	m, err := s.SelectOne(context.Background(), 1)
	if err != nil || m == nil {
		t.Fatalf("select one: %v %v", m, err)
	}
	if m.Text != "editado" || !m.IsEdited {
		t.Fatalf("got text=%q edited=%v", m.Text, m.IsEdited)
	}
}

func TestDeleteLeavesReplyIntact(t *testing.T) {
	s := seed(t, 0)

	parent, err := s.Insert(context.Background(), "a", "hola", model.TypeText, 0)
	if err != nil {
		t.Fatalf("insert parent: %v", err)
	}
	reply, err := s.Insert(context.Background(), "b", "respuesta", model.TypeText, parent)
	if err != nil {
		t.Fatalf("insert reply: %v", err)
	}

	m, err := s.SelectOne(context.Background(), reply)
	if err != nil || m == nil {
		t.Fatalf("select reply: %v %v", m, err)
	}
	if m.Reply == nil || m.Reply.ID != parent || m.Reply.Text != "hola" {
		t.Fatalf("reply preview wrong: %+v", m.Reply)
	}

	if err := s.Delete(context.Background(), parent); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	m, err = s.SelectOne(context.Background(), reply)
	if err != nil || m == nil {
		t.Fatalf("select reply after delete: %v %v", m, err)
	}
	if m.Reply != nil {
		t.Fatalf("reply preview should be nil after parent delete, got %+v", m.Reply)
	}

	page, err := s.SelectPage(context.Background(), 0, 50)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	for _, pm := range page {
		if pm.ID == parent {
			t.Fatalf("deleted message still in page")
		}
	}
}

func TestSenderOf(t *testing.T) {
	s := seed(t, 1)
	sender, ok, err := s.SenderOf(context.Background(), 1)
	if err != nil || !ok || sender != "a" {
		t.Fatalf("got sender=%q ok=%v err=%v", sender, ok, err)
	}
	_, ok, err = s.SenderOf(context.Background(), 999)
	if err != nil || ok {
		t.Fatalf("missing row: ok=%v err=%v", ok, err)
	}
}
