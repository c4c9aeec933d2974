package ld_test

import (
	"testing"

	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRDF(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "native values",
			input: `{"@context":{"@vocab":"http://ex/"},"@id":"http://ex/a",
				"age":7,"name":{"@value":"Ann","@language":"en"},"score":2.5,"active":true}`,
			expected: `<http://ex/a> <http://ex/active> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
<http://ex/a> <http://ex/age> "7"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/a> <http://ex/name> "Ann"@en .
<http://ex/a> <http://ex/score> "2.5E0"^^<http://www.w3.org/2001/XMLSchema#double> .
`,
		},
		{
			name:  "large numbers are doubles",
			input: `{"@id":"http://ex/a","http://ex/p":1e21}`,
			expected: `<http://ex/a> <http://ex/p> "1.0E21"^^<http://www.w3.org/2001/XMLSchema#double> .
`,
		},
		{
			name:  "double typed string",
			input: `{"@id":"http://ex/a","http://ex/p":{"@value":"5","@type":"http://www.w3.org/2001/XMLSchema#double"}}`,
			expected: `<http://ex/a> <http://ex/p> "5.0E0"^^<http://www.w3.org/2001/XMLSchema#double> .
`,
		},
		{
			name: "list",
			input: `{"@context":{"items":{"@id":"http://ex/items","@container":"@list"}},
				"@id":"http://ex/a","items":["x","y"]}`,
			expected: `_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "x" .
_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> _:b1 .
_:b1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "y" .
_:b1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .
<http://ex/a> <http://ex/items> _:b0 .
`,
		},
		{
			name:  "empty list",
			input: `{"@id":"http://ex/a","http://ex/items":{"@list":[]}}`,
			expected: `<http://ex/a> <http://ex/items> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .
`,
		},
		{
			name: "JSON literal",
			input: `{"@context":{"data":{"@id":"http://ex/data","@type":"@json"}},
				"@id":"http://ex/a","data":{"b":1,"a":[true,null]}}`,
			expected: `<http://ex/a> <http://ex/data> "{\"a\":[true,null],\"b\":1}"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON> .
`,
		},
		{
			name:  "embedded blank node",
			input: `{"@id":"http://ex/a","http://ex/knows":{"http://ex/name":"B"}}`,
			expected: `_:b0 <http://ex/name> "B" .
<http://ex/a> <http://ex/knows> _:b0 .
`,
		},
		{
			name:  "type",
			input: `{"@id":"http://ex/a","@type":"http://ex/T"}`,
			expected: `<http://ex/a> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/T> .
`,
		},
		{
			name:  "named graph",
			input: `{"@id":"http://ex/g","@graph":{"@id":"http://ex/a","http://ex/p":"v"}}`,
			expected: `<http://ex/a> <http://ex/p> "v" <http://ex/g> .
`,
		},
		{
			name:  "direction without i18n datatype",
			input: `{"@id":"http://ex/a","http://ex/p":{"@value":"x","@language":"ar","@direction":"rtl"}}`,
			expected: `<http://ex/a> <http://ex/p> "x"@ar .
`,
		},
	}

	proc := NewJsonLdProcessor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewJsonLdOptions("")
			opts.Format = "application/n-quads"

			nquads, err := proc.ToRDF(mustParse(t, tt.input), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, nquads)
		})
	}
}

func TestToRDF_I18nDatatype(t *testing.T) {
	opts := NewJsonLdOptions("")
	opts.RdfDirection = RdfDirectionI18nDatatype

	input := `{"@id":"http://ex/a","http://ex/p":{"@value":"x","@language":"ar","@direction":"rtl"}}`
	res, err := NewJsonLdProcessor().ToRDF(mustParse(t, input), opts)
	require.NoError(t, err)

	dataset := res.(*RDFDataset)
	quads := dataset.GetQuads("@default")
	require.Len(t, quads, 1)
	assert.True(t, quads[0].Object.Equal(NewLiteral("x", "https://www.w3.org/ns/i18n#ar_rtl", "")))
}

func TestToRDF_UnknownFormat(t *testing.T) {
	opts := NewJsonLdOptions("")
	opts.Format = "text/turtle"

	_, err := NewJsonLdProcessor().ToRDF(mustParse(t, `{"@id":"http://ex/a","http://ex/p":"v"}`), opts)
	assert.Equal(t, UnknownFormat, ErrorCodeOf(err))
}

func TestToRDF_GraphNames(t *testing.T) {
	input := `[
		{"@id":"http://ex/g2","@graph":{"@id":"http://ex/b","http://ex/p":"2"}},
		{"@id":"http://ex/g1","@graph":{"@id":"http://ex/a","http://ex/p":"1"}},
		{"@id":"http://ex/c","http://ex/p":"0"}
	]`
	res, err := NewJsonLdProcessor().ToRDF(mustParse(t, input), nil)
	require.NoError(t, err)

	dataset := res.(*RDFDataset)
	assert.Equal(t, []string{"@default", "http://ex/g1", "http://ex/g2"}, dataset.GraphNames())
	assert.Len(t, dataset.AllQuads(), 3)
}
