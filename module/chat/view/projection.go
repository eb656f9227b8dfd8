package view

import (
	"sort"
	"sync"

	"salachat/module/chat/model"
)

type Mode int

const (
	ModeLive Mode = iota
	ModeHistorical
)

// Projection is the client-side view of the log: an ordered associative
// container keyed by message id with ascending iteration. Live mode appends
// broadcast creates; historical mode (entered by a jump) ignores them and
// keeps its window until Reset. Edits and deletes apply wherever the id is
// currently loaded, in either mode.
type Projection struct {
	mu       sync.RWMutex
	pageSize int
	mode     Mode
	hasMore  bool
	order    []int64
	byID     map[int64]model.Message
}

func NewProjection(pageSize int) *Projection {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Projection{
		pageSize: pageSize,
		mode:     ModeLive,
		hasMore:  true,
		byID:     make(map[int64]model.Message),
	}
}

// ApplyHistory merges one backward page. A page shorter than the page size
// marks history exhausted; the caller must stop paging until a reset.
func (p *Projection) ApplyHistory(chunk []model.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(chunk) < p.pageSize {
		p.hasMore = false
	}
	for _, m := range chunk {
		p.byID[m.ID] = m
	}
	p.rebuildLocked()
}

// ApplyJump replaces the loaded set with the window and enters historical
// mode.
func (p *Projection) ApplyJump(window []model.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID = make(map[int64]model.Message, len(window))
	for _, m := range window {
		p.byID[m.ID] = m
	}
	p.rebuildLocked()
	p.mode = ModeHistorical
	p.hasMore = false
}

// ApplyCreate appends a broadcast message in live mode. A historical viewer
// does not auto-scroll: the create is dropped and will be picked up by the
// history fetch after the next reset.
func (p *Projection) ApplyCreate(m model.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != ModeLive {
		return
	}
	if _, ok := p.byID[m.ID]; !ok {
		p.order = append(p.order, m.ID)
		if len(p.order) > 1 && p.order[len(p.order)-2] > m.ID {
			sort.Slice(p.order, func(i, j int) bool { return p.order[i] < p.order[j] })
		}
	}
	p.byID[m.ID] = m
}

// ApplyUpdate patches the message in place wherever it is loaded, matched by
// id. Unloaded ids are ignored.
func (p *Projection) ApplyUpdate(id int64, text string, isEdited bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.byID[id]
	if !ok {
		return
	}
	m.Text = text
	m.IsEdited = isEdited
	p.byID[id] = m
}

// ApplyDelete removes the id wherever it is loaded.
func (p *Projection) ApplyDelete(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byID[id]; !ok {
		return
	}
	delete(p.byID, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Reset clears the loaded set for a return to present or a reconnect.
func (p *Projection) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID = make(map[int64]model.Message)
	p.order = nil
	p.mode = ModeLive
	p.hasMore = true
}

func (p *Projection) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

func (p *Projection) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasMore
}

func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}

// OldestID is the cursor for the next backward page; 0 when nothing is
// loaded.
func (p *Projection) OldestID() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.order) == 0 {
		return 0
	}
	return p.order[0]
}

func (p *Projection) Get(id int64) (model.Message, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.byID[id]
	return m, ok
}

// Messages returns the loaded set in ascending id order.
func (p *Projection) Messages() []model.Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Message, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}
	return out
}

// IDs returns the loaded ids in ascending order.
func (p *Projection) IDs() []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]int64, len(p.order))
	copy(out, p.order)
	return out
}

func (p *Projection) rebuildLocked() {
	p.order = p.order[:0]
	for id := range p.byID {
		p.order = append(p.order, id)
	}
	sort.Slice(p.order, func(i, j int) bool { return p.order[i] < p.order[j] })
}
