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
	"sort"
)

// Permuter enumerates every ordering of a list of strings using the
// Steinhaus-Johnson-Trotter algorithm. The first permutation is the
// sorted list.
type Permuter struct {
	list []string
	done bool
	left map[string]bool
}

// NewPermuter creates a new Permuter over a sorted copy of list.
func NewPermuter(list []string) *Permuter {
	p := &Permuter{
		list: make([]string, len(list)),
		left: make(map[string]bool, len(list)),
	}
	copy(p.list, list)
	sort.Strings(p.list)
	for _, i := range p.list {
		p.left[i] = true
	}

	return p
}

// HasNext returns true if there is another permutation.
func (p *Permuter) HasNext() bool {
	return !p.done
}

// Next gets the next permutation. Call HasNext() to ensure there is another one first.
func (p *Permuter) Next() []string {
	rval := make([]string, len(p.list))
	copy(rval, p.list)

	// find the largest mobile element k
	// (mobile: element is greater than the one it is looking at)
	k := ""
	pos := 0
	found := false
	length := len(p.list)
	for i := 0; i < length; i++ {
		element := p.list[i]
		left := p.left[element]
		if (!found || element > k) &&
			((left && i > 0 && element > p.list[i-1]) || (!left && i < (length-1) && element > p.list[i+1])) {
			k = element
			pos = i
			found = true
		}
	}

	if !found {
		p.done = true
		return rval
	}

	// swap k and the element it is looking at
	swap := pos + 1
	if p.left[k] {
		swap = pos - 1
	}
	p.list[pos] = p.list[swap]
	p.list[swap] = k

	// reverse the direction of all elements larger than k
	for i := 0; i < length; i++ {
		if p.list[i] > k {
			p.left[p.list[i]] = !p.left[p.list[i]]
		}
	}

	return rval
}
