package persist

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
)

const (
	KindFile   = "file"
	KindRedis  = "redis"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

type Config struct {
	Kind       string
	Dir        string
	RedisURL   string
	SQLitePath string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the blob store described by cfg.
// The returned closer releases its connection.
func Open(ctx context.Context, cfg Config) (BlobStore, io.Closer, error) {
	switch cfg.Kind {
	case KindFile, "":
		return InDir(cfg.Dir), nopCloser{}, nil
	case KindMemory:
		return NewMemory(), nopCloser{}, nil
	case KindRedis:
		r, err := DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return r, r, nil
	case KindSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.Dir, "chronoflow.db")
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
