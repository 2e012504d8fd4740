package dataset

import (
	"github.com/reusee/tinydisplay/vars"
)

type Record struct {
	Name  string
	Delta DB
}

// RingLog keeps the most recent updates. Evicted updates are folded into the
// start snapshot, so replaying the start snapshot and then every retained
// record reproduces the live state.
type RingLog struct {
	records []Record
	head    int // oldest record
	size    int
	start   map[string]DB
}

func NewRingLog(capacity int) (*RingLog, error) {
	if capacity < 1 {
		return nil, ErrHistorySize
	}
	return &RingLog{
		records: make([]Record, capacity),
		start:   make(map[string]DB),
	}, nil
}

func (r *RingLog) Cap() int {
	return len(r.records)
}

func (r *RingLog) Len() int {
	return r.size
}

func (r *RingLog) Append(name string, delta DB) {
	if r.size == len(r.records) {
		evicted := r.records[r.head]
		r.start[evicted.Name] = merge(r.start[evicted.Name], evicted.Delta)
		r.records[r.head] = Record{
			Name:  name,
			Delta: delta,
		}
		r.head = (r.head + 1) % len(r.records)
		return
	}
	r.records[(r.head+r.size)%len(r.records)] = Record{
		Name:  name,
		Delta: delta,
	}
	r.size++
}

// Records returns the retained records, oldest first.
func (r *RingLog) Records() []Record {
	ret := make([]Record, 0, r.size)
	for i := range r.size {
		ret = append(ret, r.records[(r.head+i)%len(r.records)])
	}
	return ret
}

// Start returns a copy of the start snapshot.
func (r *RingLog) Start() map[string]DB {
	ret := make(map[string]DB, len(r.start))
	for name, db := range r.start {
		ret[name] = deepCopy(db)
	}
	return ret
}

// HistoryBack reconstructs the state of name as it was n updates before the
// most recent one. The sign of n is ignored. When n reaches past the retained
// updates, the oldest reconstructible state is returned.
func (r *RingLog) HistoryBack(name string, n int) DB {
	ret := deepCopy(r.start[name])
	var deltas []DB
	for i := range r.size {
		record := r.records[(r.head+i)%len(r.records)]
		if record.Name == name {
			deltas = append(deltas, record.Delta)
		}
	}
	keep := max(len(deltas)-vars.Abs(n), 0)
	for _, delta := range deltas[:keep] {
		for k, v := range delta {
			ret[k] = deepCopyValue(v)
		}
	}
	return ret
}
