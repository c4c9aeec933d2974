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
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// ToRDF flattens the expanded input into a node map and adds RDF quads
// for each of its graphs to a new RDF dataset.
func (api *JsonLdApi) ToRDF(input interface{}, opts *JsonLdOptions) (*RDFDataset, error) {
	issuer := NewIdentifierIssuer("_:b")

	nodeMap := make(map[string]interface{})
	nodeMap["@default"] = make(map[string]interface{})
	if _, err := api.GenerateNodeMap(input, nodeMap, "@default", issuer, "", nil); err != nil {
		return nil, err
	}

	dataset := NewRDFDataset()

	for _, graphName := range GetOrderedKeys(nodeMap) {
		// relative graph names are not valid RDF
		if graphName != "@default" && !IsAbsoluteIri(graphName) {
			continue
		}
		graph, isMap := nodeMap[graphName].(map[string]interface{})
		if !isMap {
			continue
		}
		if err := dataset.graphToRDF(graphName, graph, issuer, opts); err != nil {
			return nil, err
		}
	}

	return dataset, nil
}

// graphToRDF creates the quads of the given graph of a node map.
func (ds *RDFDataset) graphToRDF(graphName string, graph map[string]interface{}, issuer *IdentifierIssuer,
	opts *JsonLdOptions) error {

	for _, id := range GetOrderedKeys(graph) {
		node, isMap := graph[id].(map[string]interface{})
		if !isMap {
			continue
		}
		// relative subjects are not valid RDF
		if !IsAbsoluteIri(id) {
			continue
		}
		subject := newResource(id)

		for _, property := range GetOrderedKeys(node) {
			items, isList := node[property].([]interface{})
			if !isList {
				continue
			}
			if property == "@type" {
				property = RDFType
			} else if IsKeyword(property) {
				continue
			}

			if !IsAbsoluteIri(property) {
				continue
			}
			if IsBlankNodeID(property) && !opts.ProduceGeneralizedRdf {
				continue
			}
			predicate := newResource(property)

			for _, item := range items {
				object, err := ds.objectToRDF(item, issuer, graphName, opts)
				if err != nil {
					return err
				}
				if object != nil {
					ds.addQuad(NewQuad(subject, predicate, object, graphName))
				}
			}
		}
	}
	return nil
}

// addQuad adds q to its graph unless an equal quad is already there.
func (ds *RDFDataset) addQuad(q *Quad) {
	name := "@default"
	if q.Graph != nil {
		name = q.Graph.GetValue()
	}
	quads := ds.Graphs[name]
	for _, elem := range quads {
		if q.Equal(elem) {
			return
		}
	}
	ds.Graphs[name] = append(quads, q)
}

// objectToRDF converts a value object, list object or node reference into
// an RDF node. It returns nil for relative IRIs, which are not valid RDF.
func (ds *RDFDataset) objectToRDF(item interface{}, issuer *IdentifierIssuer, graphName string,
	opts *JsonLdOptions) (Node, error) {

	if IsValue(item) {
		return valueToLiteral(item.(map[string]interface{}), opts)
	}

	if IsList(item) {
		list, _ := item.(map[string]interface{})["@list"].([]interface{})
		return ds.listToRDF(list, issuer, graphName, opts)
	}

	var id string
	switch v := item.(type) {
	case map[string]interface{}:
		id, _ = v["@id"].(string)
	case string:
		id = v
	}
	if IsBlankNodeID(id) {
		return NewBlankNode(id), nil
	}
	if !IsAbsoluteIri(id) {
		return nil, nil
	}
	return NewIRI(id), nil
}

// listToRDF creates an rdf:first/rdf:rest chain for list and returns its head.
func (ds *RDFDataset) listToRDF(list []interface{}, issuer *IdentifierIssuer, graphName string,
	opts *JsonLdOptions) (Node, error) {

	if len(list) == 0 {
		return NewIRI(RDFNil), nil
	}

	first := NewIRI(RDFFirst)
	rest := NewIRI(RDFRest)

	head := NewBlankNode(issuer.GetId(""))
	subject := head
	for i, item := range list {
		object, err := ds.objectToRDF(item, issuer, graphName, opts)
		if err != nil {
			return nil, err
		}
		if object != nil {
			ds.addQuad(NewQuad(subject, first, object, graphName))
		}

		if i == len(list)-1 {
			ds.addQuad(NewQuad(subject, rest, NewIRI(RDFNil), graphName))
			break
		}
		next := NewBlankNode(issuer.GetId(""))
		ds.addQuad(NewQuad(subject, rest, next, graphName))
		subject = next
	}

	return head, nil
}

// valueToLiteral picks the lexical form and datatype of a value object.
func valueToLiteral(item map[string]interface{}, opts *JsonLdOptions) (Node, error) {
	value := item["@value"]
	datatype, _ := item["@type"].(string)

	if datatype == "@json" {
		canonical, err := canonicalJSON(value)
		if err != nil {
			return nil, err
		}
		return NewLiteral(canonical, RDFJSONLiteral, ""), nil
	}

	if b, isBool := value.(bool); isBool {
		return NewLiteral(strconv.FormatBool(b), defaultString(datatype, XSDBoolean), ""), nil
	}

	if number, isNumber, isDouble := numberValue(value); isNumber {
		if isDouble || datatype == XSDDouble {
			return NewLiteral(GetCanonicalDouble(number), defaultString(datatype, XSDDouble), ""), nil
		}
		lexical := strconv.FormatFloat(number, 'f', 0, 64)
		if n, isNumber := value.(json.Number); isNumber {
			if i, err := n.Int64(); err == nil {
				lexical = strconv.FormatInt(i, 10)
			}
		}
		return NewLiteral(lexical, defaultString(datatype, XSDInteger), ""), nil
	}

	s, isString := value.(string)
	if !isString {
		s = fmt.Sprint(value)
	}

	if datatype == XSDDouble {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return NewLiteral(GetCanonicalDouble(f), XSDDouble, ""), nil
		}
	}

	language, _ := item["@language"].(string)
	if direction, hasDirection := item["@direction"].(string); hasDirection && opts.RdfDirection == "i18n-datatype" {
		return NewLiteral(s, I18NNS+language+"_"+direction, ""), nil
	}
	if language != "" {
		return NewLiteral(s, defaultString(datatype, RDFLangString), language), nil
	}
	return NewLiteral(s, defaultString(datatype, XSDString), ""), nil
}

// numberValue reports whether v is a JSON number and, if so, whether it must
// be written as an xsd:double: it has a fraction or is too large to be
// written as an integer.
func numberValue(v interface{}) (number float64, isNumber bool, isDouble bool) {
	switch n := v.(type) {
	case float64:
		number = n
	case float32:
		number = float64(n)
	case int:
		return float64(n), true, false
	case int64:
		return float64(n), true, false
	case json.Number:
		if _, err := n.Int64(); err == nil {
			f, _ := n.Float64()
			return f, true, false
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false, false
		}
		number = f
	default:
		return 0, false, false
	}
	isDouble = number != math.Trunc(number) || math.Abs(number) >= 1e21 || math.IsInf(number, 0)
	return number, true, isDouble
}

func defaultString(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}

// canonicalJSON serializes a JSON literal per RFC 8785: keys sorted, no
// whitespace, ES6 number formatting. The canonicalizer only accepts objects
// and arrays at the top level, so scalars go through a one-element array.
func canonicalJSON(value interface{}) (string, error) {
	scalar := false
	switch value.(type) {
	case map[string]interface{}, []interface{}:
	default:
		scalar = true
		value = []interface{}{value}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", NewJsonLdError(InvalidInput, err)
	}
	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return "", NewJsonLdError(InvalidInput, err)
	}
	if scalar {
		canonical = canonical[1 : len(canonical)-1]
	}
	return string(canonical), nil
}
