package task

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Loader reads the persisted collection
type Loader interface {
	Load() ([]Task, error)
}

// Flusher writes the full collection after every mutation
type Flusher interface {
	Save([]Task) error
}

// Persistor is both halves of the persistence adapter
type Persistor interface {
	Loader
	Flusher
}

type StoreManager interface {
	Create(Draft) (Task, error)
	Update(Task) error
	Delete(ID) error
	ToggleComplete(ID) error

	LoadOrSeed() error

	Tasks() []Task
	Get(ID) (Task, bool)
}

var _ StoreManager = &Store{}

var (
	ErrNotLoaded = errors.New("store used before LoadOrSeed")
)

// Store is the in-memory task collection of a session.
// Every mutation builds the next collection, flushes it and only then
// replaces the current one, so memory and storage never diverge.
type Store struct {
	mu     sync.RWMutex
	tasks  []Task
	loaded bool

	persist Persistor
	logger  log.FieldLogger
	newID   func() ID
}

type Option func(*Store)

// WithLogger sets the logger used for no-op and fallback notices
func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithIDs replaces the id generator, tests use it for deterministic ids
func WithIDs(gen func() ID) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func NewStore(p Persistor, opts ...Option) *Store {
	s := &Store{
		persist: p,
		logger:  log.StandardLogger(),
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadOrSeed loads the persisted collection.
// A missing or unreadable collection is replaced by the seed tasks, which are persisted right away.
func (s *Store) LoadOrSeed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.persist.Load()
	if err == nil && tasks != nil {
		s.tasks = dedupe(tasks)
		s.loaded = true
		return nil
	}
	if err != nil {
		s.logger.WithError(err).Warn("stored tasks unreadable, seeding")
	} else {
		s.logger.Debug("no stored tasks, seeding")
	}
	seed := Seed()
	if err := s.persist.Save(seed); err != nil {
		return err
	}
	s.tasks = seed
	s.loaded = true
	return nil
}

// dedupe keeps the first task for every id
func dedupe(ts []Task) []Task {
	seen := make(map[ID]bool, len(ts))
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// Create prepends a new, incomplete task built from the draft
func (s *Store) Create(d Draft) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return Task{}, ErrNotLoaded
	}

	id := s.newID()
	for s.index(id) >= 0 {
		id = s.newID()
	}
	t := d.Apply(Task{ID: id})

	next := make([]Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Update replaces the task with the same id.
// Unknown ids are ignored.
func (s *Store) Update(t Task) error {
	return s.modify(t.ID, "update", func(next []Task, i int) []Task {
		next[i] = t
		return next
	})
}

// Delete removes a task; unknown ids are ignored
func (s *Store) Delete(id ID) error {
	return s.modify(id, "delete", func(next []Task, i int) []Task {
		return append(next[:i], next[i+1:]...)
	})
}

// ToggleComplete flips the completed flag; unknown ids are ignored
func (s *Store) ToggleComplete(id ID) error {
	return s.modify(id, "toggle", func(next []Task, i int) []Task {
		next[i].Completed = !next[i].Completed
		return next
	})
}

func (s *Store) modify(id ID, op string, fn func(next []Task, i int) []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	i := s.index(id)
	if i < 0 {
		// nothing changes, so nothing is flushed either
		s.logger.WithFields(log.Fields{"op": op, "id": id}).Debug("task not found, ignoring")
		return nil
	}
	return s.commit(fn(Clone(s.tasks), i))
}

func (s *Store) commit(next []Task) error {
	if err := s.persist.Save(next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

func (s *Store) index(id ID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Tasks returns a snapshot of the collection in store order
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.tasks)
}

func (s *Store) Get(id ID) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}
