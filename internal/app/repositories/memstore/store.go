// Package memstore keeps every repository in process memory. It backs the
// "memory" database driver and the service and controller tests.
//
// Transactions work on a private copy of the data that replaces the shared copy on
// commit. Writes outside a transaction wait for a running transaction to finish, so
// a commit never overwrites them and readers only see committed data.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/act/eventportal/internal/app/models"
	"github.com/act/eventportal/internal/app/repositories"
)

// Store is an in-memory database shared by the repositories it hands out
type Store struct {
	mu sync.RWMutex
	// txMu is held for the whole of a transaction and by every single write
	txMu sync.Mutex
	data *dataset
}

type dataset struct {
	admins        map[int64]models.Admin
	faculties     map[int64]models.Faculty
	students      map[int64]models.Student
	events        map[int64]models.Event
	registrations map[int64]models.StudentEvent
	seq           map[string]int64
}

func newDataset() *dataset {
	return &dataset{
		admins:        map[int64]models.Admin{},
		faculties:     map[int64]models.Faculty{},
		students:      map[int64]models.Student{},
		events:        map[int64]models.Event{},
		registrations: map[int64]models.StudentEvent{},
		seq:           map[string]int64{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.admins {
		c.admins[k] = v
	}
	for k, v := range d.faculties {
		c.faculties[k] = v
	}
	for k, v := range d.students {
		c.students[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.registrations {
		c.registrations[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

func (d *dataset) nextID(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

// New returns an empty Store
func New() *Store {
	return &Store{data: newDataset()}
}

// Repositories returns repositories that read and write this store
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Admins:        &adminRepo{s: s},
		Faculties:     &facultyRepo{s: s},
		Students:      &studentRepo{s: s},
		Events:        &eventRepo{s: s},
		Registrations: &registrationRepo{s: s},
	}
}

// lockWrite takes the write locks and returns the function releasing them
func (s *Store) lockWrite() func() {
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// WithinTransaction runs fn against a private copy of the store and publishes the
// copy only when fn returns nil. Transactions are serialized with each other and
// with writes made outside them.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := &Store{data: s.data.clone()}
	s.mu.RUnlock()

	if err := fn(ctx, work.Repositories()); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work.data
	s.mu.Unlock()
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
