package view

import (
	"testing"

	"salachat/module/chat/model"
)

func msgs(from, to int64) []model.Message {
	out := make([]model.Message, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, model.Message{ID: id, Text: "m", Type: model.TypeText})
	}
	return out
}

func wantOrder(t *testing.T, p *Projection, want []int64) {
	t.Helper()
	got := p.IDs()
	if len(got) != len(want) {
		t.Fatalf("got %d ids %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids[%d] = %d, want %d (%v)", i, got[i], want[i], got)
		}
	}
}

func TestHistoryMergeKeepsAscendingOrder(t *testing.T) {
	p := NewProjection(50)
	p.ApplyHistory(msgs(71, 120))
	if !p.HasMore() {
		t.Fatalf("full page must not mark exhaustion")
	}
	p.ApplyHistory(msgs(21, 70))
	wantOrder(t, p, idRange(21, 120))
	if p.OldestID() != 21 {
		t.Fatalf("oldest = %d, want 21", p.OldestID())
	}
}

func TestShortChunkMarksExhausted(t *testing.T) {
	p := NewProjection(50)
	p.ApplyHistory(msgs(1, 20))
	if p.HasMore() {
		t.Fatalf("short chunk must mark exhaustion")
	}
}

func TestCreateAppendsOnlyInLiveMode(t *testing.T) {
	p := NewProjection(50)
	p.ApplyHistory(msgs(1, 10))
	p.ApplyCreate(model.Message{ID: 11, Text: "nuevo"})
	wantOrder(t, p, idRange(1, 11))

	p.ApplyJump(msgs(3, 7))
	if p.Mode() != ModeHistorical {
		t.Fatalf("jump must enter historical mode")
	}
	p.ApplyCreate(model.Message{ID: 12, Text: "ignorado"})
	wantOrder(t, p, idRange(3, 7))
}

func TestJumpReplacesLoadedSet(t *testing.T) {
	p := NewProjection(50)
	p.ApplyHistory(msgs(71, 120))
	p.ApplyJump(msgs(35, 85))
	wantOrder(t, p, idRange(35, 85))
	if p.HasMore() {
		t.Fatalf("historical window must not page backward")
	}
}

func TestUpdateAppliesWhereverLoaded(t *testing.T) {
	p := NewProjection(50)
	p.ApplyJump(msgs(3, 7))
	p.ApplyUpdate(5, "editado", true)
	m, ok := p.Get(5)
	if !ok || m.Text != "editado" || !m.IsEdited {
		t.Fatalf("got %+v ok=%v", m, ok)
	}
	// Unloaded id is a no-op.
	p.ApplyUpdate(99, "x", true)
	if p.Len() != 5 {
		t.Fatalf("unexpected growth: %d", p.Len())
	}
}

func TestDeleteRemovesWhereverLoaded(t *testing.T) {
	p := NewProjection(50)
	p.ApplyHistory(msgs(1, 10))
	p.ApplyDelete(5)
	wantOrder(t, p, []int64{1, 2, 3, 4, 6, 7, 8, 9, 10})
	if _, ok := p.Get(5); ok {
		t.Fatalf("deleted id still loaded")
	}
}

func TestResetReturnsToLive(t *testing.T) {
	p := NewProjection(50)
	p.ApplyJump(msgs(3, 7))
	p.Reset()
	if p.Mode() != ModeLive || !p.HasMore() || p.Len() != 0 {
		t.Fatalf("reset state wrong: mode=%v hasMore=%v len=%d", p.Mode(), p.HasMore(), p.Len())
	}
}

func idRange(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, id)
	}
	return out
}
