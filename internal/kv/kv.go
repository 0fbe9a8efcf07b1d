// Package kv provides the persisted key/value stores behind the local
// engagement state. Values are stored as JSON.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store is a string-keyed store of JSON values.
type Store interface {
	// Get decodes the value at key into dst. It reports false, with a nil
	// error, when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// SetMany writes every entry in one atomic batch.
	SetMany(ctx context.Context, values map[string]any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open selects a backend from a DSN:
//
//	memory:                  in-process map
//	file:///path/state.json  single JSON document
//	postgres://...           Postgres table folio_kv
//	redis://host:port/db     Redis keys under the folio: prefix
//	sqlite:///path/folio.db  SQLite (also the default for bare paths)
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return nil, fmt.Errorf("empty store DSN")
	case dsn == "memory:" || dsn == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "file://"):
		return OpenJSONFile(strings.TrimPrefix(dsn, "file://"))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "redis://"):
		return OpenRedis(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasSuffix(dsn, ".json"):
		return OpenJSONFile(dsn)
	default:
		return OpenSQLite(dsn)
	}
}

func encode(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return data, nil
}

func decode(key string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
