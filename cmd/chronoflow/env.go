package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/td0m/chronoflow/internal/config"
	"github.com/td0m/chronoflow/internal/logging"
	"github.com/td0m/chronoflow/pkg/persist"
	"github.com/td0m/chronoflow/pkg/suggest"
	"github.com/td0m/chronoflow/pkg/task"
	"github.com/td0m/chronoflow/pkg/view"
)

// env is everything a command needs, built once before it runs.
// Fields set before open (blobs, backend, now) are kept, which is how tests inject fakes.
type env struct {
	configPath string
	storeKind  string
	debug      bool

	cfg     *config.Config
	logger  *log.Logger
	blobs   persist.BlobStore
	backend suggest.Backend
	now     func() time.Time

	store   *task.Store
	suggest *suggest.Service
	sorter  view.Sorter
	sortBy  view.SortOption
	closers []func() error
}

func (e *env) open(ctx context.Context, interactive bool) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.storeKind != "" {
		cfg.Store.Kind = e.storeKind
	}
	e.cfg = cfg

	logFile := ""
	if interactive {
		logFile = cfg.Log.File
	}
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.Log.Level, Debug: e.debug, File: logFile})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	e.logger = logger
	e.closers = append(e.closers, closeLog)

	if e.now == nil {
		e.now = time.Now
	}

	if e.blobs == nil {
		blobs, closer, err := persist.Open(ctx, persist.Config{
			Kind:       cfg.Store.Kind,
			Dir:        cfg.Store.Dir,
			RedisURL:   cfg.Store.RedisURL,
			SQLitePath: cfg.Store.SQLitePath,
		})
		if err != nil {
			return err
		}
		e.blobs = blobs
		e.closers = append(e.closers, closer.Close)
	}
	e.logger.WithField("store", cfg.Store.Kind).Debug("opened task store")

	e.store = task.NewStore(persist.New(e.blobs), task.WithLogger(e.logger))
	if err := e.store.LoadOrSeed(); err != nil {
		return err
	}

	lang, err := language.Parse(cfg.View.Locale)
	if err != nil {
		e.logger.WithError(err).Warnf("unknown locale %q, sorting titles as English", cfg.View.Locale)
		lang = language.English
	}
	e.sorter = view.NewSorter(lang)
	e.sortBy, err = view.ParseSortOption(cfg.View.Sort)
	if err != nil {
		e.logger.WithError(err).Warn("falling back to priority sort")
		e.sortBy = view.ByPriority
	}

	if e.backend == nil {
		e.backend = e.llm()
	}
	e.suggest = suggest.NewService(e.backend, suggest.WithLogger(e.logger))
	return nil
}

func (e *env) llm() suggest.Backend {
	c := e.cfg.Suggest
	b, err := suggest.NewLLM(suggest.LLMConfig{
		Provider:    c.Provider,
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}, suggest.WithLLMLogger(e.logger))
	if err != nil {
		e.logger.WithError(err).Warn("suggestions disabled")
		return unconfigured{err}
	}
	return b
}

// unconfigured fails every request, so a bad suggest config only breaks suggestions
type unconfigured struct {
	err error
}

func (u unconfigured) Prioritize(context.Context, suggest.Request) (suggest.Response, error) {
	return suggest.Response{}, u.err
}

func (e *env) close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}

func (e *env) list(category string) []task.Task {
	return e.sorter.List(e.store.Tasks(), e.sortBy, category)
}
