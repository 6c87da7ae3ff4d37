// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

import (
	"os"

	"github.com/pkg/errors"

	"github.com/pcfg-lab/md5-simd/internal/model"
)

// KnownSet is the set of passwords a guess is checked against. It is not
// modified after construction and may be read from any goroutine.
type KnownSet map[string]struct{}

// NewKnownSet builds a set from words.
func NewKnownSet(words ...string) KnownSet {
	k := make(KnownSet, len(words))
	for _, w := range words {
		k[w] = struct{}{}
	}
	return k
}

// LoadKnownSet reads the first limit whitespace delimited tokens of path.
// On error the returned set is empty but usable.
func LoadKnownSet(path string, limit int) (KnownSet, error) {
	k := KnownSet{}
	f, err := os.Open(path)
	if err != nil {
		return k, errors.Wrap(err, "open known-password corpus")
	}
	defer f.Close()

	_, err = model.ScanTokens(f, limit, func(tok string) {
		k[tok] = struct{}{}
	})
	return k, errors.Wrapf(err, "load known passwords from %s", path)
}

// Has reports whether pw is known.
func (k KnownSet) Has(pw string) bool {
	_, ok := k[pw]
	return ok
}
