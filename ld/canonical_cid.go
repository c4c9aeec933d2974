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
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CanonicalCID returns the content identifier of canonical N-Quads: a CIDv1
// with the raw codec over a sha2-256 multihash of the UTF-8 bytes.
func CanonicalCID(nquads string) (cid.Cid, error) {
	sum, err := multihash.Sum([]byte(nquads), multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, NewJsonLdError(UnknownError, err)
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// CanonicalID canonicalises input and returns the content identifier of
// its canonical N-Quads. Isomorphic documents share the same identifier.
func (jldp *JsonLdProcessor) CanonicalID(input interface{}, opts *JsonLdOptions) (cid.Cid, error) {
	canonical, err := jldp.Canonize(input, opts)
	if err != nil {
		return cid.Undef, err
	}
	return CanonicalCID(canonical)
}
