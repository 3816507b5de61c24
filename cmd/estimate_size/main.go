package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/td0m/chronoflow/pkg/persist"
	"github.com/td0m/chronoflow/pkg/task"
)

var (
	years  = flag.Int("years", 10, "years of tasks to generate")
	perDay = flag.Int("per-day", 30, "tasks due per day")
)

func main() {
	flag.Parse()
	total := 365 * *perDay * *years

	dir, err := os.MkdirTemp("", "chronoflow-size")
	check(err)
	defer os.RemoveAll(dir)

	p := persist.New(persist.InDir(dir))
	tasks := generate(total, time.Now())

	writeTime := measureTime(func() {
		err := p.Save(tasks)
		check(err)
	})

	readTime := measureTime(func() {
		_, err := p.Load()
		check(err)
	})

	info, err := os.Stat(filepath.Join(dir, persist.Key+".json"))
	check(err)
	fmt.Printf("Tasks: %d years, %d per day (%d total)\n", *years, *perDay, total)
	fmt.Printf("File size: %dMB\n", info.Size()/1024/1024)
	fmt.Printf("Write time: %dms\n", writeTime.Milliseconds())
	fmt.Printf("Read time: %dms\n", readTime.Milliseconds())

	// the same blob through the in-memory store, to separate codec time from disk time
	mem := persist.NewMemory()
	bs, err := persist.Encode(tasks)
	check(err)
	check(mem.Put(context.Background(), persist.Key, bs))
	decodeTime := measureTime(func() {
		_, err := persist.New(mem).Load()
		check(err)
	})
	fmt.Printf("Decode time: %dms\n", decodeTime.Milliseconds())
}

func generate(n int, start time.Time) []task.Task {
	priorities := task.Priorities()
	categories := []string{"Work", "Design", "Development", "Personal", "QA", ""}
	tasks := make([]task.Task, n)
	for i := range tasks {
		tasks[i] = task.Task{
			ID:        task.NewID(),
			Title:     randomString(12 + rand.Intn(40)),
			DueDate:   start.AddDate(0, 0, i/(*perDay)),
			Priority:  priorities[rand.Intn(len(priorities))],
			Category:  categories[rand.Intn(len(categories))],
			Completed: rand.Intn(3) == 0,
		}
	}
	return tasks
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func measureTime(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "

func randomString(l int) string {
	b := make([]byte, l)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
