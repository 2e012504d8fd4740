package dataset

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/reusee/tinydisplay/logs"
)

// TimestampKey is injected into every delta, in seconds since the dataset was created.
const TimestampKey = "__timestamp__"

const DefaultHistorySize = 100

// Reserved names are accessors of the dataset in expressions and cannot name a sub-database.
var Reserved = []string{
	PrevName,
	"history",
	"update",
	"add",
	"eval",
	"compile",
	"keys",
	"save",
	"load",
}

// Dataset is a set of named sub-databases updated by merging deltas, with a
// bounded history of updates.
type Dataset struct {
	mu          sync.RWMutex
	startedAt   time.Time
	now         func() time.Time
	logger      logs.Logger
	historySize int
	dbs         map[string]DB
	prev        map[string]DB
	ring        *RingLog
}

type Option func(*Dataset)

func WithHistorySize(n int) Option {
	return func(d *Dataset) {
		d.historySize = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dataset) {
		d.now = now
	}
}

func WithLogger(logger logs.Logger) Option {
	return func(d *Dataset) {
		d.logger = logger
	}
}

func New(options ...Option) (*Dataset, error) {
	d := &Dataset{
		now:         time.Now,
		logger:      logs.Discard,
		historySize: DefaultHistorySize,
		dbs:         make(map[string]DB),
		prev:        make(map[string]DB),
	}
	for _, option := range options {
		option(d)
	}
	ring, err := NewRingLog(d.historySize)
	if err != nil {
		return nil, fmt.Errorf("history size %d: %w", d.historySize, err)
	}
	d.ring = ring
	d.startedAt = d.now()
	return d, nil
}

// NewWith creates a dataset and adds initial databases in name order.
func NewWith(initial map[string]DB, options ...Option) (*Dataset, error) {
	d, err := New(options...)
	if err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(initial)) {
		if err := d.Add(name, initial[name]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dataset) StartedAt() time.Time {
	return d.startedAt
}

func (d *Dataset) HistorySize() int {
	return d.historySize
}

func checkReserved(name string) error {
	if slices.Contains(Reserved, name) {
		return fmt.Errorf("%s: %w", name, ErrReservedName)
	}
	return nil
}

// Update merges delta into the sub-database name, creating it on first use.
// delta is copied and stamped with TimestampKey.
func (d *Dataset) Update(name string, delta DB) error {
	stamped := d.stamp(delta)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.apply(name, stamped)
}

// Add creates a new sub-database. Use Update to modify an existing one.
func (d *Dataset) Add(name string, db DB) error {
	stamped := d.stamp(db)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.dbs[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrDatabaseExists)
	}
	return d.apply(name, stamped)
}

func (d *Dataset) stamp(delta DB) DB {
	ret := deepCopy(delta)
	ret[TimestampKey] = d.now().Sub(d.startedAt).Seconds()
	return ret
}

func (d *Dataset) apply(name string, delta DB) error {
	current, ok := d.dbs[name]
	if !ok {
		if err := checkReserved(name); err != nil {
			return err
		}
		d.logger.Debug("new database", "name", name)
	}
	// merge builds a new map, views of the old state stay valid
	d.prev[name] = current
	d.dbs[name] = merge(current, delta)
	d.ring.Append(name, delta)
	d.logger.Debug("update", "name", name, "keys", len(delta))
	return nil
}

func (d *Dataset) Get(name string) (Data, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	db, ok := d.dbs[name]
	if !ok {
		return Data{}, false
	}
	return NewData(db), true
}

func (d *Dataset) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.dbs[name]
	return ok
}

func (d *Dataset) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.dbs))
}

func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.dbs)
}

// Prev returns the state of every sub-database before its most recent update.
func (d *Dataset) Prev() Data {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.prevLocked()
}

func (d *Dataset) prevLocked() Data {
	m := make(map[string]any, len(d.prev))
	for name, db := range d.prev {
		if db == nil {
			db = DB{}
		}
		m[name] = db
	}
	return NewData(m)
}

// History returns the state of name n updates back. History(name, 0) is the
// current state, History(name, 1) the previous one.
func (d *Dataset) History(name string, n int) Data {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return NewData(d.ring.HistoryBack(name, n))
}

func (d *Dataset) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ret := make(Snapshot, len(d.dbs)+1)
	for name, db := range d.dbs {
		ret[name] = NewData(db)
	}
	ret[PrevName] = d.prevLocked()
	return ret
}

// Names lists every name an expression may use to reach the dataset.
func (d *Dataset) Names() []string {
	return append(d.Keys(), PrevName)
}
