// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package ld

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// MessageDigest accumulates UTF-8 strings and produces a lowercase hex
// SHA-256 digest of everything written so far.
type MessageDigest struct {
	h hash.Hash
}

// NewMessageDigest creates an empty SHA-256 MessageDigest.
func NewMessageDigest() *MessageDigest {
	return &MessageDigest{h: sha256.New()}
}

// Update appends s to the digested input.
func (md *MessageDigest) Update(s string) {
	// hash.Hash.Write never returns an error
	_, _ = md.h.Write([]byte(s))
}

// Digest returns the hex encoded digest and resets the accumulator.
func (md *MessageDigest) Digest() string {
	sum := hex.EncodeToString(md.h.Sum(nil))
	md.h.Reset()
	return sum
}

func hashStrings(parts []string) string {
	md := NewMessageDigest()
	for _, p := range parts {
		md.Update(p)
	}
	return md.Digest()
}
