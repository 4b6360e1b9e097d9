// Package storage persists the resolution session so a workflow card
// survives process restarts: collected params, discovery cache entries, and
// archived runs.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/skybridge-ai/flowkit/internal/domain"
)

// BadgerStore is the durable SessionStore backed by an embedded badger DB.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewBadgerStore(dataDir string, logger *slog.Logger) (*BadgerStore, error) {
	path := filepath.Join(dataDir, "session")
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create session directory %s: %w", path, err)
	}

	log := logger.With("component", "session-store")
	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLogger{logger: log.With("component", "badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store at %s: %w", path, err)
	}

	return &BadgerStore{db: db, logger: log}, nil
}

func (s *BadgerStore) Get(key string) (value []byte, exists bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		exists = true
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, exists, err
}

func (s *BadgerStore) Put(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("session write", "key", key, "value_length", len(value))
	return nil
}

func (s *BadgerStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) ListByPrefix(prefix string) (map[string][]byte, error) {
	results := map[string][]byte{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			results[key] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *BadgerStore) DeleteByPrefix(prefix string) (int, error) {
	existing, err := s.ListByPrefix(prefix)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for key := range existing {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("session prefix delete", "prefix", prefix, "count", len(existing))
	return len(existing), nil
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true
	return s.db.Close()
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(f, v...))
}

func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(f, v...))
}

func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(f, v...))
}

func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(f, v...))
}
