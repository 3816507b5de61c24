package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/matryer/is"
	"github.com/redis/go-redis/v9"
	"github.com/td0m/chronoflow/pkg/task"
)

func sample() []task.Task {
	berlin := time.FixedZone("CEST", 2*60*60)
	return []task.Task{
		{ID: "a", Title: "Ship it", DueDate: time.Date(2024, 8, 15, 9, 30, 15, 123000000, berlin), Priority: task.High, Category: "Work"},
		{ID: "b", Title: "", DueDate: time.Date(2023, 1, 1, 0, 0, 0, 1, time.UTC), Priority: task.Low, Category: "", Completed: true},
		{ID: "c", Title: "Ünïcödé", DueDate: time.Date(2030, 12, 31, 23, 59, 59, 999000000, time.Local), Priority: task.Medium, Category: "Home"},
	}
}

// equalTasks compares instants with time.Equal, since locations are normalised to UTC
func equalTasks(is *is.I, got, want []task.Task) {
	is.Helper()
	is.Equal(len(got), len(want))
	for i := range want {
		is.True(got[i].DueDate.Equal(want[i].DueDate)) // due date drifted
		got[i].DueDate, want[i].DueDate = time.Time{}, time.Time{}
		is.Equal(got[i], want[i])
	}
}

func TestJSON_SaveLoad(t *testing.T) {
	is := is.New(t)

	a := New(InDir(t.TempDir()))
	tasks := sample()
	is.NoErr(a.Save(tasks))

	tasks2, err := a.Load()
	is.NoErr(err)
	equalTasks(is, tasks2, sample())
}

func TestAdapter_SeedRoundTrip(t *testing.T) {
	is := is.New(t)
	a := New(NewMemory())
	is.NoErr(a.Save(task.Seed()))
	got, err := a.Load()
	is.NoErr(err)
	is.Equal(got, task.Seed())
}

func TestAdapter_LoadMissing(t *testing.T) {
	is := is.New(t)
	got, err := New(InDir(t.TempDir())).Load()
	is.NoErr(err)
	is.True(got == nil)
}

func TestAdapter_LoadEmpty(t *testing.T) {
	is := is.New(t)
	a := New(NewMemory())
	is.NoErr(a.Save([]task.Task{}))
	got, err := a.Load()
	is.NoErr(err)
	is.True(got != nil)
	is.Equal(len(got), 0)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", `{{{`},
		{"not an array", `{"id":"a"}`},
		{"null", `null`},
		{"bad date", `[{"id":"a","dueDate":"yesterday","priority":"high"}]`},
		{"bad priority", `[{"id":"a","dueDate":"2024-08-15T00:00:00Z","priority":"urgent"}]`},
		{"missing id", `[{"dueDate":"2024-08-15T00:00:00Z","priority":"low"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, err := Decode([]byte(tt.blob))
			is.True(err != nil)
		})
	}
}

func TestDecode_ISODate(t *testing.T) {
	is := is.New(t)
	// the format browsers produce with toISOString
	got, err := Decode([]byte(`[{"id":"1","title":"t","dueDate":"2024-08-15T00:00:00.000Z","priority":"high","category":"Design","completed":false}]`))
	is.NoErr(err)
	is.True(got[0].DueDate.Equal(time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)))
}

func TestEncode_Layout(t *testing.T) {
	is := is.New(t)
	bs, err := Encode([]task.Task{{ID: "1", Title: "t", DueDate: time.Date(2024, 8, 15, 9, 0, 0, 0, time.UTC), Priority: task.High, Category: "Design"}})
	is.NoErr(err)
	is.Equal(string(bs), `[{"id":"1","title":"t","dueDate":"2024-08-15T09:00:00Z","priority":"high","category":"Design","completed":false}]`)
}

func TestFile_PutReplaces(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	f := InDir(filepath.Join(dir, "nested"))
	ctx := context.Background()

	_, err := f.Get(ctx, Key)
	is.Equal(err, ErrNotFound)

	is.NoErr(f.Put(ctx, Key, []byte("one")))
	is.NoErr(f.Put(ctx, Key, []byte("two")))
	got, err := f.Get(ctx, Key)
	is.NoErr(err)
	is.Equal(string(got), "two")

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	is.NoErr(err)
	is.Equal(len(entries), 1)
}

func TestRedis_SaveLoad(t *testing.T) {
	is := is.New(t)
	mr, err := miniredis.Run()
	is.NoErr(err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a := New(NewRedis(client))
	got, err := a.Load()
	is.NoErr(err)
	is.True(got == nil)

	is.NoErr(a.Save(sample()))
	is.True(mr.Exists("chronoflow:" + Key))

	got, err = a.Load()
	is.NoErr(err)
	equalTasks(is, got, sample())
}

func TestRedis_Dial(t *testing.T) {
	is := is.New(t)
	mr, err := miniredis.Run()
	is.NoErr(err)
	t.Cleanup(mr.Close)

	store, closer, err := Open(context.Background(), Config{Kind: KindRedis, RedisURL: "redis://" + mr.Addr()})
	is.NoErr(err)
	defer closer.Close()
	is.NoErr(store.Put(context.Background(), "k", []byte("v")))
	v, err := mr.Get("chronoflow:k")
	is.NoErr(err)
	is.Equal(v, "v")
}

func TestSQLite_SaveLoad(t *testing.T) {
	is := is.New(t)
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	is.NoErr(err)
	defer s.Close()

	a := New(s)
	got, err := a.Load()
	is.NoErr(err)
	is.True(got == nil)

	is.NoErr(a.Save(sample()))
	// second save takes the upsert path
	is.NoErr(a.Save(sample()[:1]))

	got, err = a.Load()
	is.NoErr(err)
	equalTasks(is, got, sample()[:1])
}

func TestOpen_Unknown(t *testing.T) {
	is := is.New(t)
	_, _, err := Open(context.Background(), Config{Kind: "floppy"})
	is.True(err != nil)
}
