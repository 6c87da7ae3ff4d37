// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package crackstore persists cracked guesses in a bolt database.
package crackstore

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	md5simd "github.com/pcfg-lab/md5-simd"
)

const crackedBucket = "cracked"

// Store records each cracked guess once, keyed by the guess, with its hex
// digest as value.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "failed to create a data directory %q", dir)
		}
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open crack store %q", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(crackedBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create bucket")
	}
	return &Store{db: db}, nil
}

// Record stores guess and its digest. Recording the same guess again keeps
// a single entry.
func (s *Store) Record(guess string, sum md5simd.State) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(crackedBucket)).Put([]byte(guess), []byte(sum.Hex()))
	})
}

// Lookup returns the stored hex digest of guess.
func (s *Store) Lookup(guess string) (hex string, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(crackedBucket)).Get([]byte(guess)); v != nil {
			hex, ok = string(v), true
		}
		return nil
	})
	return
}

// Count - number of distinct cracked guesses stored
func (s *Store) Count() (n int, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(crackedBucket)).Stats().KeyN
		return nil
	})
	return
}

// ForEach calls fn for each stored guess in key order.
func (s *Store) ForEach(fn func(guess, hex string) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(crackedBucket)).ForEach(func(k, v []byte) error {
			return fn(string(k), string(v))
		})
	})
}

// Close the database
func (s *Store) Close() error {
	return s.db.Close()
}
