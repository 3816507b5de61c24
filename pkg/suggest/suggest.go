// Package suggest asks a hosted language model which active tasks to focus on.
//
// A Service sends one request per call and never retries. Every failure,
// whether transport, status or schema, comes back as ErrUnavailable.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/td0m/chronoflow/pkg/task"
	"golang.org/x/sync/singleflight"
)

// DateLayout is how due dates are sent to the backend, e.g. 2024-08-15T00:00:00.000Z
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrUnavailable is the only error Suggest returns
	ErrUnavailable = errors.New("could not get suggestions")

	ErrInvalidRequest  = errors.New("invalid suggestion request")
	ErrInvalidResponse = errors.New("invalid suggestion response")
)

// NoActiveTasks is returned, without asking the backend, when every task is done
var NoActiveTasks = Suggestion{
	Title:  "No active tasks!",
	Reason: "Add some tasks to get suggestions.",
}

type RequestTask struct {
	Title    string `json:"title"`
	DueDate  string `json:"dueDate"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

type Request struct {
	Tasks []RequestTask `json:"tasks"`
}

type Suggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type Response struct {
	PrioritizedTasks []Suggestion `json:"prioritizedTasks"`
}

// NewRequest builds a request from the tasks that are not completed yet
func NewRequest(tasks []task.Task) Request {
	req := Request{Tasks: []RequestTask{}}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		req.Tasks = append(req.Tasks, RequestTask{
			Title:    t.Title,
			DueDate:  t.DueDate.UTC().Format(DateLayout),
			Priority: string(t.Priority),
			Category: t.Category,
		})
	}
	return req
}

func (r Request) Validate() error {
	if r.Tasks == nil {
		return fmt.Errorf("%w: tasks missing", ErrInvalidRequest)
	}
	for i, t := range r.Tasks {
		if _, err := time.Parse(time.RFC3339, t.DueDate); err != nil {
			return fmt.Errorf("%w: task %d due date: %v", ErrInvalidRequest, i, err)
		}
		if !task.Priority(t.Priority).Valid() {
			return fmt.Errorf("%w: task %d priority %q", ErrInvalidRequest, i, t.Priority)
		}
	}
	return nil
}

func (r Response) Validate() error {
	if r.PrioritizedTasks == nil {
		return fmt.Errorf("%w: prioritizedTasks missing", ErrInvalidResponse)
	}
	return nil
}

// Backend is the external prioritisation service
type Backend interface {
	Prioritize(ctx context.Context, req Request) (Response, error)
}

// Service turns task snapshots into suggestions.
//
// Calls made while a request is in flight wait for that request and share
// its result, so there is never more than one backend request at a time.
type Service struct {
	backend Backend
	logger  log.FieldLogger

	group   singleflight.Group
	loading atomic.Bool
}

type Option func(*Service)

func WithLogger(l log.FieldLogger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(b Backend, opts ...Option) *Service {
	s := &Service{
		backend: b,
		logger:  log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsLoading reports whether a backend request is in flight
func (s *Service) IsLoading() bool {
	return s.loading.Load()
}

// Suggest returns the backend's prioritised list for the active tasks, in the backend's order
func (s *Service) Suggest(ctx context.Context, tasks []task.Task) ([]Suggestion, error) {
	req := NewRequest(tasks)
	if len(req.Tasks) == 0 {
		return []Suggestion{NoActiveTasks}, nil
	}

	v, err, shared := s.group.Do("suggest", func() (interface{}, error) {
		s.loading.Store(true)
		defer s.loading.Store(false)
		return s.prioritize(ctx, req)
	})
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"transient": IsTransient(err),
			"fatal":     IsFatal(err),
		}).Warn("suggestion failed")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if shared {
		s.logger.Debug("joined in-flight suggestion request")
	}
	out := v.([]Suggestion)
	return append([]Suggestion(nil), out...), nil
}

func (s *Service) prioritize(ctx context.Context, req Request) ([]Suggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := s.backend.Prioritize(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	s.logger.WithFields(log.Fields{
		"tasks":       len(req.Tasks),
		"suggestions": len(resp.PrioritizedTasks),
		"took":        time.Since(start),
	}).Info("got suggestions")
	return resp.PrioritizedTasks, nil
}
