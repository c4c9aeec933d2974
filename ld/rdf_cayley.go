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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// ToCayley converts the quad into a cayley quad. The default graph has no label.
func (q *Quad) ToCayley() quad.Quad {
	cq := quad.Quad{
		Subject:   toCayleyValue(q.Subject),
		Predicate: toCayleyValue(q.Predicate),
		Object:    toCayleyValue(q.Object),
	}
	if q.Graph != nil {
		cq.Label = toCayleyValue(q.Graph)
	}
	return cq
}

// CayleyQuads returns all quads of the dataset as cayley quads, graph by
// graph in GraphNames order.
func (ds *RDFDataset) CayleyQuads() []quad.Quad {
	quads := ds.AllQuads()
	res := make([]quad.Quad, 0, len(quads))
	for _, q := range quads {
		res = append(res, q.ToCayley())
	}
	return res
}

func toCayleyValue(n Node) quad.Value {
	switch v := n.(type) {
	case *IRI:
		return quad.IRI(v.Value)
	case *BlankNode:
		return quad.BNode(strings.TrimPrefix(v.Attribute, "_:"))
	case *Literal:
		if v.Language != "" {
			return quad.LangString{Value: quad.String(v.Value), Lang: v.Language}
		}
		if v.Datatype == "" || v.Datatype == XSDString {
			return quad.String(v.Value)
		}
		return quad.TypedString{Value: quad.String(v.Value), Type: quad.IRI(v.Datatype)}
	}
	return nil
}

// FromCayley converts cayley quads into an RDFDataset.
func FromCayley(quads []quad.Quad) (*RDFDataset, error) {
	ds := NewRDFDataset()
	for _, cq := range quads {
		q, err := fromCayleyQuad(cq)
		if err != nil {
			return nil, err
		}
		ds.addQuad(q)
	}
	return ds, nil
}

// ReadCayleyNQuads reads N-Quads through cayley's parser into an RDFDataset.
func ReadCayleyNQuads(r io.Reader) (*RDFDataset, error) {
	reader := nquads.NewReader(r, true)

	quads := make([]quad.Quad, 0)
	for {
		cq, err := reader.ReadQuad()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, NewJsonLdError(ParseError, err)
		}
		quads = append(quads, cq)
	}
	return FromCayley(quads)
}

func fromCayleyQuad(cq quad.Quad) (*Quad, error) {
	subject, err := fromCayleyValue(cq.Subject)
	if err != nil {
		return nil, err
	}
	predicate, err := fromCayleyValue(cq.Predicate)
	if err != nil {
		return nil, err
	}
	object, err := fromCayleyValue(cq.Object)
	if err != nil {
		return nil, err
	}
	q := &Quad{Subject: subject, Predicate: predicate, Object: object}
	if cq.Label != nil {
		if q.Graph, err = fromCayleyValue(cq.Label); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func fromCayleyValue(v quad.Value) (Node, error) {
	switch tv := v.(type) {
	case quad.IRI:
		return NewIRI(string(tv)), nil
	case quad.BNode:
		return NewBlankNode("_:" + string(tv)), nil
	case quad.String:
		return NewLiteral(string(tv), XSDString, ""), nil
	case quad.LangString:
		return NewLiteral(string(tv.Value), RDFLangString, tv.Lang), nil
	case quad.TypedString:
		return NewLiteral(string(tv.Value), string(tv.Type), ""), nil
	}
	return nil, NewJsonLdError(ParseError, fmt.Sprintf("unsupported quad value %T", v))
}
