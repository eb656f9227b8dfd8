package chat

import (
	"sync"

	"salachat/tools/safe"
)

type fanoutJob struct {
	conns   []*Client
	payload []byte
}

// Fanout drains an ordered job queue onto every client's send queue. A single
// worker keeps delivery order across distinct broadcasts equal to enqueue
// order, which in turn equals store insertion order for creates.
type Fanout struct {
	jobs     chan fanoutJob
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewFanout(queue int) *Fanout {
	f := &Fanout{
		jobs:   make(chan fanoutJob, queue),
		stopCh: make(chan struct{}),
	}
	safe.Go(func() {
		for {
			select {
			case <-f.stopCh:
				return
			case job := <-f.jobs:
				for _, c := range job.conns {
					c.Enqueue(job.payload)
				}
			}
		}
	})
	return f
}

func (f *Fanout) Broadcast(conns []*Client, payload []byte) {
	if len(conns) == 0 || len(payload) == 0 {
		return
	}
	select {
	case <-f.stopCh:
	case f.jobs <- fanoutJob{conns: conns, payload: payload}:
	}
}

func (f *Fanout) Close() {
	f.stopOnce.Do(func() { close(f.stopCh) })
}
