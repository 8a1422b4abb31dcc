// Package local is the device-local Record Store: a Badger key-value
// database holding the legacy prompt collection, the migration marker, the
// cached session user and, for the local-only variant, user records.
package local

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// KV is the raw key-value contract the slots are stored in.
type KV interface {
	// Read returns the value and true, or nil and false when the key is absent.
	Read(key string) ([]byte, bool, error)
	Write(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// DB wraps a Badger database instance.
type DB struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ KV = (*DB)(nil)

// Open opens (or creates) the database directory at path.
func Open(path string, logger *slog.Logger) (*DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // A crash must not lose the marker or the collection
	opts.CompactL0OnClose = true // Faster next startup

	return open(opts, logger, path)
}

// OpenReadOnly opens an existing database without taking the write lock,
// for inspection while another process may hold it.
func OpenReadOnly(path string, logger *slog.Logger) (*DB, error) {
	opts := badger.DefaultOptions(path).WithReadOnly(true)
	opts.Logger = nil

	return open(opts, logger, path)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(logger *slog.Logger) (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts, logger, ":memory:")
}

func open(opts badger.Options, logger *slog.Logger, path string) (*DB, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Debug("local store opened", "path", path)
	}
	return &DB{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Read returns the value stored under key.
func (d *DB) Read(key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key, replacing any previous value.
func (d *DB) Write(key string, value []byte) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (d *DB) Delete(key string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Scan calls fn for every key with the given prefix, in key order.
func (d *DB) Scan(prefix string, fn func(key string, value []byte) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(string(item.Key()), value); err != nil {
				return err
			}
		}
		return nil
	})
}
