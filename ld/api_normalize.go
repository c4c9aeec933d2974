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
	"strings"
)

const (
	AlgorithmURDNA2015 = "URDNA2015"
)

// Normalize canonicalises the dataset with URDNA2015. The result is N-Quads
// text when opts.Format is "application/n-quads", otherwise the canonical
// *RDFDataset.
func (api *JsonLdApi) Normalize(dataset *RDFDataset, opts *JsonLdOptions) (interface{}, error) {
	if opts.Algorithm != "" && opts.Algorithm != AlgorithmURDNA2015 {
		return nil, NewJsonLdError(UnknownFormat, "unsupported normalisation algorithm: "+opts.Algorithm)
	}

	na := NewNormalisationAlgorithm()
	na.Normalize(dataset)

	switch opts.Format {
	case "":
		return na.Dataset(), nil
	case "application/n-quads", "application/nquads":
		return na.NQuads(), nil
	default:
		return nil, NewJsonLdError(UnknownFormat, opts.Format)
	}
}

var positions = []string{"s", "o", "g"}

type blankNodeInfo struct {
	quads []*Quad
	hash  string
}

// NormalisationAlgorithm holds the state of one URDNA2015 run. It must not
// be reused across datasets.
type NormalisationAlgorithm struct {
	blankNodeInfo   map[string]*blankNodeInfo
	blankNodeOrder  []string
	canonicalIssuer *IdentifierIssuer
	quads           []*Quad
	lines           []string

	// number of permutations explored by the N-degree search
	permutations int
}

// NewNormalisationAlgorithm creates a fresh URDNA2015 run.
func NewNormalisationAlgorithm() *NormalisationAlgorithm {
	return &NormalisationAlgorithm{
		blankNodeInfo:   make(map[string]*blankNodeInfo),
		canonicalIssuer: NewIdentifierIssuer("_:c14n"),
	}
}

// Normalize assigns canonical blank node identifiers to every quad of the
// dataset. The input quads are not modified.
func (na *NormalisationAlgorithm) Normalize(dataset *RDFDataset) {
	na.NormalizeQuads(dataset.AllQuads())
}

// NormalizeQuads is Normalize over a plain quad list.
func (na *NormalisationAlgorithm) NormalizeQuads(input []*Quad) {
	// index every blank node by the quads mentioning it
	for _, quad := range input {
		for _, component := range []Node{quad.Subject, quad.Object, quad.Graph} {
			na.addBlankNodeQuad(component, quad)
		}
	}

	// first degree hashes, grouped by hash
	hashToBlankNodes := make(map[string][]string)
	for _, id := range na.blankNodeOrder {
		hash := na.hashFirstDegreeQuads(id)
		hashToBlankNodes[hash] = append(hashToBlankNodes[hash], id)
	}

	// unique hashes get their canonical identifiers straight away, in hash order
	nonUnique := make([][]string, 0)
	for _, hash := range sortedKeys(hashToBlankNodes) {
		idList := hashToBlankNodes[hash]
		if len(idList) > 1 {
			nonUnique = append(nonUnique, idList)
			continue
		}
		na.canonicalIssuer.GetId(idList[0])
	}

	// shared hashes are disambiguated with the N-degree hash
	for _, idList := range nonUnique {
		hashPathList := make([]hashPathResult, 0, len(idList))
		for _, id := range idList {
			if na.canonicalIssuer.HasId(id) {
				continue
			}
			issuer := NewIdentifierIssuer("_:b")
			issuer.GetId(id)
			hash, resultIssuer := na.hashNDegreeQuads(id, issuer)
			hashPathList = append(hashPathList, hashPathResult{hash: hash, issuer: resultIssuer})
		}

		sort.SliceStable(hashPathList, func(i, j int) bool {
			return hashPathList[i].hash < hashPathList[j].hash
		})
		for _, result := range hashPathList {
			for _, existing := range result.issuer.GetOldIds() {
				na.canonicalIssuer.GetId(existing)
			}
		}
	}

	// relabel into fresh quads and serialize
	na.quads = make([]*Quad, len(input))
	na.lines = make([]string, len(input))
	for i, quad := range input {
		q := &Quad{
			Subject:   na.useCanonicalId(quad.Subject),
			Predicate: quad.Predicate,
			Object:    na.useCanonicalId(quad.Object),
			Graph:     na.useCanonicalId(quad.Graph),
		}
		na.quads[i] = q
		na.lines[i] = toNQuad(q)
	}

	sort.Sort(na)
}

type hashPathResult struct {
	hash   string
	issuer *IdentifierIssuer
}

// Sort interface
func (na *NormalisationAlgorithm) Len() int           { return len(na.quads) }
func (na *NormalisationAlgorithm) Less(i, j int) bool { return na.lines[i] < na.lines[j] }
func (na *NormalisationAlgorithm) Swap(i, j int) {
	na.lines[i], na.lines[j] = na.lines[j], na.lines[i]
	na.quads[i], na.quads[j] = na.quads[j], na.quads[i]
}

// Quads returns the canonical quads in output order.
func (na *NormalisationAlgorithm) Quads() []*Quad {
	return na.quads
}

// NQuads returns the canonical N-Quads document.
func (na *NormalisationAlgorithm) NQuads() string {
	return strings.Join(na.lines, "")
}

// Dataset returns the canonical quads grouped by graph name.
func (na *NormalisationAlgorithm) Dataset() *RDFDataset {
	ds := NewRDFDataset()
	for _, q := range na.quads {
		name := "@default"
		if q.Graph != nil {
			name = q.Graph.GetValue()
		}
		ds.Graphs[name] = append(ds.Graphs[name], q)
	}
	return ds
}

// CanonicalIssuer returns the issuer holding the original to canonical
// blank node mapping.
func (na *NormalisationAlgorithm) CanonicalIssuer() *IdentifierIssuer {
	return na.canonicalIssuer
}

func (na *NormalisationAlgorithm) addBlankNodeQuad(component Node, quad *Quad) {
	if component == nil || !IsBlankNode(component) {
		return
	}
	id := component.GetValue()
	info, found := na.blankNodeInfo[id]
	if !found {
		info = &blankNodeInfo{}
		na.blankNodeInfo[id] = info
		na.blankNodeOrder = append(na.blankNodeOrder, id)
	}
	// a quad mentioning the node in several positions is recorded once
	if n := len(info.quads); n > 0 && info.quads[n-1] == quad {
		return
	}
	info.quads = append(info.quads, quad)
}

func (na *NormalisationAlgorithm) useCanonicalId(component Node) Node {
	if component == nil || !IsBlankNode(component) {
		return component
	}
	return NewBlankNode(na.canonicalIssuer.GetId(component.GetValue()))
}

// hashFirstDegreeQuads hashes the quads mentioning id, with id written as
// _:a and every other blank node as _:z.
func (na *NormalisationAlgorithm) hashFirstDegreeQuads(id string) string {
	info := na.blankNodeInfo[id]
	if info.hash != "" {
		return info.hash
	}

	nquads := make([]string, 0, len(info.quads))
	for _, quad := range info.quads {
		quadCopy := &Quad{
			Subject:   modifyFirstDegreeComponent(id, quad.Subject),
			Predicate: quad.Predicate,
			Object:    modifyFirstDegreeComponent(id, quad.Object),
			Graph:     modifyFirstDegreeComponent(id, quad.Graph),
		}
		nquads = append(nquads, toNQuad(quadCopy))
	}
	sort.Strings(nquads)

	info.hash = hashStrings(nquads)
	return info.hash
}

func modifyFirstDegreeComponent(id string, component Node) Node {
	if component == nil || !IsBlankNode(component) {
		return component
	}
	if component.GetValue() == id {
		return NewBlankNode("_:a")
	}
	return NewBlankNode("_:z")
}

// hashRelatedBlankNode hashes the relation between the node being hashed and
// related, which occurs at position in quad.
func (na *NormalisationAlgorithm) hashRelatedBlankNode(related string, quad *Quad, issuer *IdentifierIssuer, position string) string {
	var id string
	if canonicalID, issued := na.canonicalIssuer.Issued(related); issued {
		id = canonicalID
	} else if tempID, issued := issuer.Issued(related); issued {
		id = tempID
	} else {
		id = na.hashFirstDegreeQuads(related)
	}

	md := NewMessageDigest()
	md.Update(position)
	if position != "g" {
		md.Update("<" + quad.Predicate.GetValue() + ">")
	}
	md.Update(id)
	return md.Digest()
}

func (na *NormalisationAlgorithm) createHashToRelated(id string, issuer *IdentifierIssuer) map[string][]string {
	hashToRelated := make(map[string][]string)

	for _, quad := range na.blankNodeInfo[id].quads {
		for i, component := range []Node{quad.Subject, quad.Object, quad.Graph} {
			if component == nil || !IsBlankNode(component) || component.GetValue() == id {
				continue
			}
			related := component.GetValue()
			hash := na.hashRelatedBlankNode(related, quad, issuer, positions[i])
			hashToRelated[hash] = append(hashToRelated[hash], related)
		}
	}

	return hashToRelated
}

// hashNDegreeQuads computes the N-degree hash of id. It returns the hash and
// the issuer that produced the chosen paths.
func (na *NormalisationAlgorithm) hashNDegreeQuads(id string, issuer *IdentifierIssuer) (string, *IdentifierIssuer) {
	hashToRelated := na.createHashToRelated(id, issuer)

	md := NewMessageDigest()
	for _, hash := range sortedKeys(hashToRelated) {
		md.Update(hash)

		chosenPath := ""
		var chosenIssuer *IdentifierIssuer

		permuter := NewPermuter(hashToRelated[hash])
	nextPermutation:
		for permuter.HasNext() {
			permutation := permuter.Next()
			na.permutations++

			issuerCopy := issuer.Clone()
			path := ""
			recursionList := make([]string, 0)

			for _, related := range permutation {
				if canonicalID, issued := na.canonicalIssuer.Issued(related); issued {
					path += canonicalID
				} else {
					if !issuerCopy.HasId(related) {
						recursionList = append(recursionList, related)
					}
					path += issuerCopy.GetId(related)
				}

				if chosenPath != "" && path > chosenPath {
					continue nextPermutation
				}
			}

			for _, related := range recursionList {
				resultHash, resultIssuer := na.hashNDegreeQuads(related, issuerCopy)
				path += issuerCopy.GetId(related)
				path += "<" + resultHash + ">"
				issuerCopy = resultIssuer

				if chosenPath != "" && path > chosenPath {
					continue nextPermutation
				}
			}

			if chosenPath == "" || path < chosenPath {
				chosenPath = path
				chosenIssuer = issuerCopy
			}
		}

		md.Update(chosenPath)
		issuer = chosenIssuer
	}

	return md.Digest(), issuer
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
