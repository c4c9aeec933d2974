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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
)

// JsonLdProcessor implements the subset of the JsonLdProcessor interface
// needed to canonicalise documents, see
// http://www.w3.org/TR/json-ld-api/#the-jsonldprocessor-interface
//
// A processor owns the caches shared by its operations: fetched context
// documents and resolved inline contexts. It is safe for concurrent use.
type JsonLdProcessor struct { //nolint:stylecheck
	documents DocumentCache
	contexts  *SharedContextCache
}

// NewJsonLdProcessor creates an instance of JsonLdProcessor with a
// document cache holding remote contexts for DefaultDocumentCacheTTL.
func NewJsonLdProcessor() *JsonLdProcessor { //nolint:stylecheck
	return NewJsonLdProcessorWithCache(NewTTLDocumentCache(DefaultDocumentCacheTTL))
}

// NewJsonLdProcessorWithCache creates an instance of JsonLdProcessor that
// keeps remote context documents in the given cache. A nil cache disables
// document caching.
func NewJsonLdProcessorWithCache(documents DocumentCache) *JsonLdProcessor { //nolint:stylecheck
	return &JsonLdProcessor{
		documents: documents,
		contexts:  NewSharedContextCache(),
	}
}

// prepareOptions copies opts so that an operation can adjust them freely,
// and gives the copy a context resolver of its own.
func (jldp *JsonLdProcessor) prepareOptions(opts *JsonLdOptions) *JsonLdOptions {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}
	if opts.ContextResolver == nil {
		opts.ContextResolver = NewContextResolver(opts.DocumentLoader, jldp.documents, jldp.contexts, opts.logger())
	}
	return opts
}

// Expand operation expands the given input according to the steps in the Expansion algorithm:
// http://www.w3.org/TR/json-ld-api/#expansion-algorithm
//
// A string input is treated as the IRI of the document to load.
func (jldp *JsonLdProcessor) Expand(input interface{}, opts *JsonLdOptions) ([]interface{}, error) {
	return jldp.expand(input, jldp.prepareOptions(opts))
}

func (jldp *JsonLdProcessor) expand(input interface{}, opts *JsonLdOptions) ([]interface{}, error) {

	var remoteContext string

	if iri, isString := input.(string); isString {
		if !strings.Contains(iri, ":") {
			return nil, NewJsonLdError(LoadingDocumentFailed, "document IRI must be absolute: "+iri)
		}
		rd, err := opts.DocumentLoader.LoadDocument(iri)
		if err != nil {
			return nil, err
		}
		if rd.Document == nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, "no document at "+iri)
		}
		input = rd.Document

		// a base given in options overrides the document IRI
		if opts.Base == "" {
			opts.Base = rd.DocumentURL
		}
		remoteContext = rd.ContextURL
	}

	activeCtx := NewContext(opts)

	if opts.ExpandContext != nil {
		exCtx := CloneDocument(opts.ExpandContext)
		if exCtxMap, isMap := exCtx.(map[string]interface{}); isMap {
			if ctx, hasCtx := exCtxMap["@context"]; hasCtx {
				exCtx = ctx
			}
		}

		var err error
		activeCtx, err = activeCtx.Parse(exCtx)
		if err != nil {
			return nil, err
		}
	}

	if remoteContext != "" {
		var err error
		if activeCtx, err = activeCtx.Parse(remoteContext); err != nil {
			return nil, err
		}
	}

	api := NewJsonLdApi()
	expanded, err := api.Expand(activeCtx, "", input, opts)
	if err != nil {
		return nil, err
	}

	// final step of Expansion Algorithm
	expandedMap, isMap := expanded.(map[string]interface{})
	if isMap && len(expandedMap) == 0 {
		expanded = nil
	}

	graph, hasGraph := expandedMap["@graph"]
	if isMap && hasGraph && len(expandedMap) == 1 {
		expanded = graph
	} else if expanded == nil {
		expanded = make([]interface{}, 0)
	}

	// normalize to an array
	if expandedList, isList := expanded.([]interface{}); isList {
		return expandedList, nil
	}

	return []interface{}{expanded}, nil
}

var rdfSerializers = map[string]*NQuadRDFSerializer{
	"application/n-quads": {},
	"application/nquads":  {}, // keep this option for backward compatibility
}

// ToRDF outputs the RDF dataset found in the given JSON-LD object.
//
// input: the JSON-LD input.
// opts: the options to use:
//
// [base] the base IRI to use.
// [format] the format to use to output a string: 'application/n-quads' for N-Quads.
// [rdfDirection] 'i18n-datatype' to keep @direction in literal datatypes.
func (jldp *JsonLdProcessor) ToRDF(input interface{}, opts *JsonLdOptions) (interface{}, error) {
	opts = jldp.prepareOptions(opts)

	expandedInput, err := jldp.expand(input, opts)
	if err != nil {
		return nil, err
	}

	api := NewJsonLdApi()
	dataset, err := api.ToRDF(expandedInput, opts)
	if err != nil {
		return nil, err
	}

	if opts.Format != "" {
		serializer, hasSerializer := rdfSerializers[opts.Format]
		if !hasSerializer {
			return nil, NewJsonLdError(UnknownFormat, opts.Format)
		}
		return serializer.Serialize(dataset)
	}

	return dataset, nil
}

// Normalize performs RDF dataset normalization on the given input. The input is
// an *RDFDataset, cayley quads, or JSON-LD unless the 'inputFormat' option is used. The output is an RDF
// dataset unless the 'format' option is used.
func (jldp *JsonLdProcessor) Normalize(input interface{}, opts *JsonLdOptions) (interface{}, error) {
	opts = jldp.prepareOptions(opts)

	if opts.Algorithm != "" && opts.Algorithm != AlgorithmURDNA2015 {
		return nil, NewJsonLdError(InvalidInput, fmt.Sprintf("unknown normalization algorithm: %s",
			opts.Algorithm))
	}

	var dataset *RDFDataset
	switch v := input.(type) {
	case *RDFDataset:
		dataset = v
	case []quad.Quad:
		var err error
		if dataset, err = FromCayley(v); err != nil {
			return nil, err
		}
	}

	switch {
	case dataset != nil:
	case opts.InputFormat != "":
		serializer, hasSerializer := rdfSerializers[opts.InputFormat]
		if !hasSerializer {
			return nil, NewJsonLdError(UnknownFormat, "unknown normalization input format: "+opts.InputFormat)
		}
		var err error
		if dataset, err = serializer.Parse(input); err != nil {
			return nil, err
		}
	default:
		toRDFOpts := opts.Copy()
		toRDFOpts.Format = ""

		datasetObj, err := jldp.ToRDF(input, toRDFOpts)
		if err != nil {
			return nil, err
		}
		dataset = datasetObj.(*RDFDataset)
	}

	api := NewJsonLdApi()
	return api.Normalize(dataset, opts)
}

// Canonize returns the URDNA2015 canonical N-Quads of the given JSON-LD input.
func (jldp *JsonLdProcessor) Canonize(input interface{}, opts *JsonLdOptions) (string, error) {
	opts = jldp.prepareOptions(opts)
	opts.Format = "application/n-quads"

	normalized, err := jldp.Normalize(input, opts)
	if err != nil {
		return "", err
	}
	return normalized.(string), nil
}

var defaultProcessor = NewJsonLdProcessor()

// Canonize parses jsonText as a JSON-LD document and returns its URDNA2015
// canonical N-Quads. Remote contexts are cached process-wide.
func Canonize(jsonText string, opts *JsonLdOptions) (string, error) {
	doc, err := ParseDocument(jsonText)
	if err != nil {
		return "", err
	}
	return defaultProcessor.Canonize(doc, opts)
}

// ParseDocument decodes a single JSON value. Numbers are kept as json.Number
// so that integers of any size keep their lexical form.
func ParseDocument(jsonText string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(jsonText))
	dec.UseNumber()

	var document interface{}
	if err := dec.Decode(&document); err != nil {
		return nil, NewJsonLdError(SyntaxError, err)
	}
	var trailing interface{}
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, NewJsonLdError(SyntaxError, "unexpected data after the JSON document")
	}
	return document, nil
}
