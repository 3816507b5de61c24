package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/td0m/chronoflow/pkg/task"
)

type stubBackend struct {
	calls int32
	fn    func(ctx context.Context, req Request) (Response, error)
}

func (s *stubBackend) Prioritize(ctx context.Context, req Request) (Response, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.fn == nil {
		return Response{}, errors.New("unexpected Prioritize call")
	}
	return s.fn(ctx, req)
}

func activeTask(title string) task.Task {
	return task.Task{
		ID:       task.ID(title),
		Title:    title,
		DueDate:  time.Date(2024, 8, 15, 9, 0, 0, 0, time.UTC),
		Priority: task.High,
		Category: "Work",
	}
}

func TestSuggest_NoActiveTasks(t *testing.T) {
	is := is.New(t)
	b := &stubBackend{}
	s := NewService(b)

	got, err := s.Suggest(context.Background(), nil)
	is.NoErr(err)
	is.Equal(got, []Suggestion{NoActiveTasks})

	done := activeTask("done")
	done.Completed = true
	got, err = s.Suggest(context.Background(), []task.Task{done})
	is.NoErr(err)
	is.Equal(got, []Suggestion{{Title: "No active tasks!", Reason: "Add some tasks to get suggestions."}})
	is.Equal(atomic.LoadInt32(&b.calls), int32(0))
}

func TestSuggest_ReturnsBackendOrder(t *testing.T) {
	is := is.New(t)
	want := []Suggestion{
		{Title: "T2", Reason: "due soonest"},
		{Title: "T1", Reason: "high priority"},
		{Title: "unknown", Reason: "models make things up"},
	}
	var sent Request
	b := &stubBackend{fn: func(_ context.Context, req Request) (Response, error) {
		sent = req
		return Response{PrioritizedTasks: want}, nil
	}}
	done := activeTask("T3")
	done.Completed = true

	got, err := NewService(b).Suggest(context.Background(), []task.Task{activeTask("T1"), done, activeTask("T2")})
	is.NoErr(err)
	is.Equal(got, want)
	is.Equal(atomic.LoadInt32(&b.calls), int32(1))

	// only active tasks are sent
	is.Equal(sent, Request{Tasks: []RequestTask{
		{Title: "T1", DueDate: "2024-08-15T09:00:00.000Z", Priority: "high", Category: "Work"},
		{Title: "T2", DueDate: "2024-08-15T09:00:00.000Z", Priority: "high", Category: "Work"},
	}})
}

func TestSuggest_Failures(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, Request) (Response, error)
	}{
		{"transport", func(context.Context, Request) (Response, error) {
			return Response{}, NewTransientError(errors.New("connection refused"))
		}},
		{"schema", func(context.Context, Request) (Response, error) {
			return Response{}, nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			b := &stubBackend{fn: tt.fn}
			s := NewService(b)
			got, err := s.Suggest(context.Background(), []task.Task{activeTask("T1")})
			is.True(errors.Is(err, ErrUnavailable))
			is.True(got == nil)
			is.Equal(atomic.LoadInt32(&b.calls), int32(1)) // no retry
			is.True(!s.IsLoading())
		})
	}
}

func TestSuggest_InvalidRequestNeverSent(t *testing.T) {
	is := is.New(t)
	b := &stubBackend{}
	bad := activeTask("T1")
	bad.Priority = "urgent"
	_, err := NewService(b).Suggest(context.Background(), []task.Task{bad})
	is.True(errors.Is(err, ErrUnavailable))
	is.True(errors.Is(err, ErrInvalidRequest))
	is.Equal(atomic.LoadInt32(&b.calls), int32(0))
}

func TestSuggest_OverlappingCallsShareOneRequest(t *testing.T) {
	is := is.New(t)
	started := make(chan struct{})
	release := make(chan struct{})
	b := &stubBackend{fn: func(context.Context, Request) (Response, error) {
		close(started)
		<-release
		return Response{PrioritizedTasks: []Suggestion{{Title: "T1", Reason: "only one"}}}, nil
	}}
	s := NewService(b)
	is.True(!s.IsLoading())

	var wg sync.WaitGroup
	results := make([][]Suggestion, 2)
	errs := make([]error, 2)
	call := func(i int) {
		defer wg.Done()
		results[i], errs[i] = s.Suggest(context.Background(), []task.Task{activeTask("T1")})
	}

	wg.Add(1)
	go call(0)
	<-started
	is.True(s.IsLoading())

	wg.Add(1)
	go call(1)
	// give the second click time to join the in-flight request
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	is.NoErr(errs[0])
	is.NoErr(errs[1])
	is.Equal(results[0], results[1])
	is.Equal(atomic.LoadInt32(&b.calls), int32(1))
	is.True(!s.IsLoading())
}

func TestRequest_Validate(t *testing.T) {
	is := is.New(t)
	is.NoErr(NewRequest([]task.Task{activeTask("a")}).Validate())
	is.True(Request{}.Validate() != nil)
	is.True(Request{Tasks: []RequestTask{{DueDate: "tomorrow", Priority: "high"}}}.Validate() != nil)
}

func TestResponse_Validate(t *testing.T) {
	is := is.New(t)
	is.NoErr(Response{PrioritizedTasks: []Suggestion{}}.Validate())
	is.True(errors.Is(Response{}.Validate(), ErrInvalidResponse))
}
