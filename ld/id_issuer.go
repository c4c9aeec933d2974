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
	"strconv"
)

// IdentifierIssuer issues sequential identifiers with a fixed prefix and
// remembers which old identifier received which new one.
type IdentifierIssuer struct {
	prefix   string
	counter  int
	existing map[string]string
	oldIds   []string
}

// NewIdentifierIssuer creates a new IdentifierIssuer whose first identifier
// will be prefix + "0".
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{
		prefix:   prefix,
		existing: make(map[string]string),
		oldIds:   make([]string, 0),
	}
}

// Clone returns an independent copy of the issuer. Issuing from the copy
// never affects the original.
func (ii *IdentifierIssuer) Clone() *IdentifierIssuer {
	c := &IdentifierIssuer{
		prefix:   ii.prefix,
		counter:  ii.counter,
		existing: make(map[string]string, len(ii.existing)),
		oldIds:   make([]string, len(ii.oldIds)),
	}
	for k, v := range ii.existing {
		c.existing[k] = v
	}
	copy(c.oldIds, ii.oldIds)

	return c
}

// GetId returns the identifier issued for oldId, issuing a new one if needed.
// An empty oldId always produces a fresh identifier that is not recorded.
func (ii *IdentifierIssuer) GetId(oldId string) string {
	if oldId != "" {
		if ex, present := ii.existing[oldId]; present {
			return ex
		}
	}

	id := ii.prefix + strconv.Itoa(ii.counter)
	ii.counter++

	if oldId != "" {
		ii.existing[oldId] = id
		ii.oldIds = append(ii.oldIds, oldId)
	}

	return id
}

// Issued returns the identifier already issued for oldId, if any.
func (ii *IdentifierIssuer) Issued(oldId string) (string, bool) {
	id, found := ii.existing[oldId]
	return id, found
}

// HasId returns true if the given old identifier has already been assigned a new identifier.
func (ii *IdentifierIssuer) HasId(oldId string) bool {
	_, hasKey := ii.existing[oldId]
	return hasKey
}

// GetOldIds returns the old identifiers in the order they were issued.
func (ii *IdentifierIssuer) GetOldIds() []string {
	res := make([]string, len(ii.oldIds))
	copy(res, ii.oldIds)
	return res
}
