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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// NQuadRDFSerializer parses and serializes N-Quads.
type NQuadRDFSerializer struct {
}

// Parse N-Quads from a string, []byte or io.Reader into an RDFDataset.
func (s *NQuadRDFSerializer) Parse(input interface{}) (*RDFDataset, error) {
	return ParseNQuadsFrom(input)
}

// SerializeTo writes RDFDataset as N-Quads into a writer, graph by graph.
func (s *NQuadRDFSerializer) SerializeTo(w io.Writer, dataset *RDFDataset) error {
	for _, quad := range dataset.AllQuads() {
		if _, err := io.WriteString(w, toNQuad(quad)); err != nil {
			return NewJsonLdError(IOError, err)
		}
	}
	return nil
}

// Serialize an RDFDataset into N-Quad string.
func (s *NQuadRDFSerializer) Serialize(dataset *RDFDataset) (interface{}, error) {
	buf := bytes.NewBuffer(nil)
	if err := s.SerializeTo(buf, dataset); err != nil {
		return nil, err
	}
	return buf.String(), nil
}

func serializeTerm(n Node) string {
	switch v := n.(type) {
	case *IRI:
		return "<" + v.Value + ">"
	case *BlankNode:
		return v.Attribute
	case *Literal:
		s := "\"" + escape(v.Value) + "\""
		if v.Datatype == RDFLangString {
			if v.Language != "" {
				s += "@" + v.Language
			}
		} else if v.Datatype != XSDString {
			s += "^^<" + v.Datatype + ">"
		}
		return s
	default:
		return ""
	}
}

// toNQuad serializes a quad as a single N-Quads line, including the
// terminating " .\n".
func toNQuad(quad *Quad) string {
	var sb strings.Builder
	sb.WriteString(serializeTerm(quad.Subject))
	sb.WriteByte(' ')
	sb.WriteString(serializeTerm(quad.Predicate))
	sb.WriteByte(' ')
	sb.WriteString(serializeTerm(quad.Object))
	if quad.Graph != nil {
		sb.WriteByte(' ')
		sb.WriteString(serializeTerm(quad.Graph))
	}
	sb.WriteString(" .\n")
	return sb.String()
}

var escaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\r", "\\r",
)

// escape escapes backslash, double quote, line feed and carriage return.
// Every other character is written as is.
func escape(str string) string {
	return escaper.Replace(str)
}

func unescape(str string) string {
	if !strings.Contains(str, "\\") {
		return str
	}
	var sb strings.Builder
	for i := 0; i < len(str); i++ {
		c := str[i]
		if c != '\\' || i == len(str)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch str[i] {
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case 'u', 'U':
			size := 4
			if str[i] == 'U' {
				size = 8
			}
			if i+size < len(str) {
				if r, err := strconv.ParseUint(str[i+1:i+1+size], 16, 32); err == nil {
					sb.WriteRune(rune(r))
					i += size
					continue
				}
			}
			sb.WriteByte('\\')
			sb.WriteByte(str[i])
		default:
			sb.WriteByte(str[i])
		}
	}
	return sb.String()
}

const (
	wso = "[ \\t]*"
	iri = "(?:<([^:]+:[^>]*)>)"

	// https://www.w3.org/TR/turtle/#grammar-production-BLANK_NODE_LABEL

	pnCharsBase = "A-Z" + "a-z" +
		"\u00C0-\u00D6" +
		"\u00D8-\u00F6" +
		"\u00F8-\u02FF" +
		"\u0370-\u037D" +
		"\u037F-\u1FFF" +
		"\u200C-\u200D" +
		"\u2070-\u218F" +
		"\u2C00-\u2FEF" +
		"\u3001-\uD7FF" +
		"\uF900-\uFDCF" +
		"\uFDF0-\uFFFD"

	pnCharsU = pnCharsBase + "_"

	pnChars = pnCharsU +
		"0-9" +
		"-" +
		"\u00B7" +
		"\u0300-\u036F" +
		"\u203F-\u2040"

	blankNodeLabel = "(_:" +
		"(?:[" + pnCharsU + "0-9])" +
		"(?:(?:[" + pnChars + ".])*(?:[" + pnChars + "]))?" +
		")"

	plain    = "\"([^\"\\\\]*(?:\\\\.[^\"\\\\]*)*)\""
	datatype = "(?:\\^\\^" + iri + ")"
	langTag  = "(?:@([a-zA-Z]+(?:-[a-zA-Z0-9]+)*))"
	literal  = "(?:" + plain + "(?:" + datatype + "|" + langTag + ")?)"
	ws       = "[ \\t]+"

	subject  = "(?:" + iri + "|" + blankNodeLabel + ")" + ws
	property = iri + ws
	object   = "(?:" + iri + "|" + blankNodeLabel + "|" + literal + ")" + wso
	graph    = "(?:\\.|(?:(?:" + iri + "|" + blankNodeLabel + ")" + wso + "\\.))"
)

var regexEmpty = regexp.MustCompile("^" + wso + "$")

var regexQuad = regexp.MustCompile("^" + wso + subject + property + object + graph + wso + "$") //nolint:gocritic

func newScannerFor(o interface{}) (*bufio.Scanner, error) {
	switch inp := o.(type) {
	case []byte:
		return bufio.NewScanner(bytes.NewReader(inp)), nil
	case string:
		return bufio.NewScanner(strings.NewReader(inp)), nil
	case io.Reader:
		return bufio.NewScanner(inp), nil
	default:
		return nil, NewJsonLdError(InvalidInput, "expected []byte, string or io.Reader")
	}
}

// ParseNQuadsFrom parses RDF in the form of N-Quads from io.Reader, []byte or string.
// Duplicate quads within a graph are dropped.
func ParseNQuadsFrom(o interface{}) (*RDFDataset, error) {
	dataset := NewRDFDataset()

	scanner, err := newScannerFor(o)
	if err != nil {
		return nil, err
	}
	// long literals (e.g. canonical JSON) exceed the default token size
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		lineNumber++

		if regexEmpty.Match(line) {
			continue
		}

		match := regexQuad.FindStringSubmatch(string(line))
		if match == nil {
			return nil, NewJsonLdError(SyntaxError, fmt.Errorf("error while parsing N-Quads; invalid quad. line: %d", lineNumber))
		}

		var subject Node
		if match[1] != "" {
			subject = NewIRI(unescape(match[1]))
		} else {
			subject = NewBlankNode(match[2])
		}

		predicate := NewIRI(unescape(match[3]))

		var object Node
		if match[4] != "" {
			object = NewIRI(unescape(match[4]))
		} else if match[5] != "" {
			object = NewBlankNode(match[5])
		} else {
			language := match[8]
			var datatype string
			if match[7] != "" {
				datatype = unescape(match[7])
			} else if language != "" {
				datatype = RDFLangString
			} else {
				datatype = XSDString
			}
			object = NewLiteral(unescape(match[6]), datatype, language)
		}

		// '@default' is used for the default graph
		name := "@default"
		if match[9] != "" {
			name = unescape(match[9])
		} else if match[10] != "" {
			name = match[10]
		}

		dataset.addQuad(NewQuad(subject, predicate, object, name))
	}
	if err := scanner.Err(); err != nil {
		return nil, NewJsonLdError(IOError, err)
	}

	return dataset, nil
}

// ParseNQuads parses RDF in the form of N-Quads.
func ParseNQuads(input string) (*RDFDataset, error) {
	return ParseNQuadsFrom(input)
}
