package ld_test

import (
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cayleyInput = `<http://ex/a> <http://ex/name> "Alice" .
<http://ex/a> <http://ex/label> "Hallo"@de .
<http://ex/a> <http://ex/age> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/a> <http://ex/knows> _:b0 .
_:b0 <http://ex/name> "Bob" <http://ex/g> .
`

func serialize(t *testing.T, ds *RDFDataset) string {
	t.Helper()
	out, err := (&NQuadRDFSerializer{}).Serialize(ds)
	require.NoError(t, err)
	return out.(string)
}

func TestQuad_ToCayley(t *testing.T) {
	ds, err := ParseNQuads(cayleyInput)
	require.NoError(t, err)

	quads := ds.CayleyQuads()
	require.Len(t, quads, 5)

	assert.Equal(t, quad.IRI("http://ex/a"), quads[0].Subject)
	assert.Equal(t, quad.String("Alice"), quads[0].Object)
	assert.Nil(t, quads[0].Label)
	assert.Equal(t, quad.LangString{Value: "Hallo", Lang: "de"}, quads[1].Object)
	assert.Equal(t, quad.TypedString{Value: "42", Type: quad.IRI(XSDInteger)}, quads[2].Object)
	assert.Equal(t, quad.BNode("b0"), quads[3].Object)
	assert.Equal(t, quad.IRI("http://ex/g"), quads[4].Label)
}

func TestFromCayley(t *testing.T) {
	ds, err := ParseNQuads(cayleyInput)
	require.NoError(t, err)

	roundTrip, err := FromCayley(ds.CayleyQuads())
	require.NoError(t, err)
	assert.Equal(t, serialize(t, ds), serialize(t, roundTrip))

	_, err = FromCayley([]quad.Quad{{
		Subject:   quad.IRI("http://ex/a"),
		Predicate: quad.IRI("http://ex/p"),
		Object:    quad.Int(5),
	}})
	assert.Equal(t, ParseError, ErrorCodeOf(err))
}

func TestReadCayleyNQuads(t *testing.T) {
	expected, err := ParseNQuads(cayleyInput)
	require.NoError(t, err)

	ds, err := ReadCayleyNQuads(strings.NewReader(cayleyInput))
	require.NoError(t, err)
	assert.Equal(t, serialize(t, expected), serialize(t, ds))

	_, err = ReadCayleyNQuads(strings.NewReader("this is not a quad\n"))
	assert.Equal(t, ParseError, ErrorCodeOf(err))
}

func TestNormalize_CayleyInput(t *testing.T) {
	ds, err := ParseNQuads(cayleyInput)
	require.NoError(t, err)

	proc := NewJsonLdProcessor()
	opts := NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	fromCayley, err := proc.Normalize(ds.CayleyQuads(), opts)
	require.NoError(t, err)
	fromDataset, err := proc.Normalize(ds, opts)
	require.NoError(t, err)

	assert.Equal(t, fromDataset, fromCayley)
	assert.Contains(t, fromCayley, `_:c14n0 <http://ex/name> "Bob" <http://ex/g> .`)
}

func TestFromCayley_DuplicateQuads(t *testing.T) {
	q := quad.Quad{
		Subject:   quad.IRI("http://ex/a"),
		Predicate: quad.IRI("http://ex/name"),
		Object:    quad.String("Alice"),
	}
	named := q
	named.Label = quad.IRI("http://ex/g")

	ds, err := FromCayley([]quad.Quad{q, q, named, named})
	require.NoError(t, err)
	assert.Len(t, ds.GetQuads("@default"), 1)
	assert.Len(t, ds.GetQuads("http://ex/g"), 1)

	out, err := NewJsonLdApi().Normalize(ds, &JsonLdOptions{Format: "application/n-quads"})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.(string), "\n"))
}
