package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/td0m/chronoflow/pkg/task"
)

// Key is the fixed key the task collection lives under
const Key = "chronoFlowTasks"

var ErrNotFound = errors.New("blob not found")

// BlobStore is an opaque key-value store of byte blobs
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Adapter serialises the whole task collection to a BlobStore
type Adapter struct {
	blobs BlobStore
	key   string
}

var _ task.Persistor = &Adapter{}

func New(blobs BlobStore) *Adapter {
	return &Adapter{blobs: blobs, key: Key}
}

// Save writes the full collection
func (a *Adapter) Save(ts []task.Task) error {
	bs, err := Encode(ts)
	if err != nil {
		return err
	}
	if err := a.blobs.Put(context.Background(), a.key, bs); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Load reads and validates the collection.
// A missing blob returns (nil, nil).
func (a *Adapter) Load() ([]task.Task, error) {
	bs, err := a.blobs.Get(context.Background(), a.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return Decode(bs)
}

// Encode turns tasks into the stored json array
func Encode(ts []task.Task) ([]byte, error) {
	records := make([]record, len(ts))
	for i, t := range ts {
		records[i] = newRecord(t)
	}
	return json.Marshal(records)
}

// Decode parses a stored json array, reviving due dates
func Decode(bs []byte) ([]task.Task, error) {
	var records []record
	if err := json.Unmarshal(bs, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, errors.New("stored tasks are not an array")
	}
	tasks := make([]task.Task, len(records))
	for i, r := range records {
		t, err := r.task()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks[i] = t
	}
	return tasks, nil
}
