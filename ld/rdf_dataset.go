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
	"strconv"
	"strings"
)

// Quad represents an RDF quad. A nil Graph denotes the default graph.
type Quad struct {
	Subject   Node
	Predicate Node
	Object    Node
	Graph     Node
}

// NewQuad creates a new instance of Quad. An empty graph name or
// "@default" places the quad in the default graph.
func NewQuad(subject Node, predicate Node, object Node, graph string) *Quad {
	q := &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}

	if graph != "" && graph != "@default" {
		q.Graph = newResource(graph)
	}
	return q
}

// Equal returns true if this quad is equal to the given quad.
func (q *Quad) Equal(o *Quad) bool {
	if o == nil {
		return false
	}

	if (q.Graph != nil && !q.Graph.Equal(o.Graph)) || (q.Graph == nil && o.Graph != nil) {
		return false
	}

	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) && q.Object.Equal(o.Object)
}

// RDFDataset is an internal representation of an RDF dataset: quads
// grouped by graph name, with "@default" naming the default graph.
type RDFDataset struct {
	Graphs map[string][]*Quad
}

// NewRDFDataset creates a new instance of RDFDataset.
func NewRDFDataset() *RDFDataset {
	ds := &RDFDataset{
		Graphs: make(map[string][]*Quad),
	}
	ds.Graphs["@default"] = make([]*Quad, 0)

	return ds
}

// GetQuads returns a list of quads for the given graph
func (ds *RDFDataset) GetQuads(graphName string) []*Quad {
	return ds.Graphs[graphName]
}

// GraphNames returns the dataset's graph names: "@default" first, then the
// named graphs in ordinal order.
func (ds *RDFDataset) GraphNames() []string {
	names := make([]string, 0, len(ds.Graphs))
	for name := range ds.Graphs {
		if name != "@default" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, hasDefault := ds.Graphs["@default"]; hasDefault {
		names = append([]string{"@default"}, names...)
	}
	return names
}

// AllQuads returns every quad of the dataset, graph by graph in GraphNames order.
func (ds *RDFDataset) AllQuads() []*Quad {
	res := make([]*Quad, 0)
	for _, name := range ds.GraphNames() {
		res = append(res, ds.Graphs[name]...)
	}
	return res
}

// GetCanonicalDouble returns the canonical xsd:double lexical form of v:
// a mantissa with redundant trailing zeros removed (keeping one fractional
// digit), an uppercase E and an exponent without sign padding,
// e.g. 5.3E0, 1.0E21, 1.5E-7.
func GetCanonicalDouble(v float64) string {
	s := strconv.FormatFloat(v, 'e', 15, 64)
	mantissa, exponent, found := strings.Cut(s, "e")
	if !found {
		// NaN and infinities have no exponent form
		return s
	}

	if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
		mantissa = strings.TrimRight(mantissa, "0")
		if strings.HasSuffix(mantissa, ".") {
			mantissa += "0"
		}
	}

	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(exp)
}
