package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Backends lists every backend name.
var Backends = []string{BackendNone, BackendFile, BackendRedis, BackendMongo}

// Options selects and configures a backend.
type Options struct {
	Backend string // one of Backends; empty means file

	Dir string // file backend; empty means DefaultDir()

	RedisAddr   string
	RedisPrefix string

	MongoURI      string
	MongoDatabase string
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = "depsort:"
		}
		c, err := NewRedisCache(ctx, opts.RedisAddr, prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		db := opts.MongoDatabase
		if db == "" {
			db = "depsort"
		}
		c, err := NewMongoCache(ctx, opts.MongoURI, db)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w %q (want one of: %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends, ", "))
}
