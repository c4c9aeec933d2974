package ld

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeNQuads(t *testing.T, input string) (string, *NormalisationAlgorithm) {
	t.Helper()
	dataset, err := ParseNQuads(input)
	require.NoError(t, err)

	na := NewNormalisationAlgorithm()
	na.Normalize(dataset)
	return na.NQuads(), na
}

func TestNormalize_NoBlankNodes(t *testing.T) {
	input := `<http://ex/b> <http://ex/p> "2" .
<http://ex/a> <http://ex/p> "1" <http://ex/g> .
<http://ex/a> <http://ex/p> "1" .
`
	out, na := normalizeNQuads(t, input)
	assert.Equal(t, `<http://ex/a> <http://ex/p> "1" .
<http://ex/a> <http://ex/p> "1" <http://ex/g> .
<http://ex/b> <http://ex/p> "2" .
`, out)
	assert.Len(t, na.Quads(), 3)
	assert.Equal(t, 0, na.permutations)
}

func TestNormalize_SingleBlankNode(t *testing.T) {
	out, _ := normalizeNQuads(t, `_:whatever <http://ex/p> "v" .
<http://ex/a> <http://ex/q> _:whatever .
`)
	assert.Equal(t, `<http://ex/a> <http://ex/q> _:c14n0 .
_:c14n0 <http://ex/p> "v" .
`, out)
}

func TestNormalize_UniqueHashes(t *testing.T) {
	out, na := normalizeNQuads(t, `_:x <http://ex/p> "1" .
_:y <http://ex/p> "2" .
`)
	assert.Equal(t, 0, na.permutations)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{"_:c14n0", "_:c14n1"}, []string{
		strings.Fields(lines[0])[0],
		strings.Fields(lines[1])[0],
	})

	issuer := na.CanonicalIssuer()
	assert.True(t, issuer.HasId("_:x"))
	assert.True(t, issuer.HasId("_:y"))
}

func TestNormalize_SymmetricCycle(t *testing.T) {
	out, na := normalizeNQuads(t, `_:a <http://ex/p> _:b .
_:b <http://ex/p> _:a .
`)
	assert.Equal(t, `_:c14n0 <http://ex/p> _:c14n1 .
_:c14n1 <http://ex/p> _:c14n0 .
`, out)
	assert.Greater(t, na.permutations, 0)
}

const triangle = `_:a <http://ex/knows> _:b .
_:b <http://ex/knows> _:c .
_:c <http://ex/knows> _:a .
_:a <http://ex/name> "A" .
<http://ex/doc> <http://ex/about> _:b _:g .
_:g <http://ex/source> <http://ex/doc> .
`

func TestNormalize_RelabellingInvariance(t *testing.T) {
	expected, _ := normalizeNQuads(t, triangle)

	relabelled := strings.NewReplacer("_:a", "_:n9", "_:b", "_:n1", "_:c", "_:foo", "_:g", "_:graph").Replace(triangle)
	lines := strings.Split(strings.TrimSuffix(relabelled, "\n"), "\n")
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	actual, _ := normalizeNQuads(t, strings.Join(lines, "\n")+"\n")
	assert.Equal(t, expected, actual)
	assert.NotContains(t, actual, "_:a ")
	assert.Contains(t, actual, "_:c14n3")
}

func TestNormalize_Idempotent(t *testing.T) {
	once, _ := normalizeNQuads(t, triangle)
	twice, _ := normalizeNQuads(t, once)
	assert.Equal(t, once, twice)
}

func TestNormalize_InputIsNotModified(t *testing.T) {
	dataset, err := ParseNQuads(triangle)
	require.NoError(t, err)

	NewNormalisationAlgorithm().Normalize(dataset)

	serialized, err := (&NQuadRDFSerializer{}).Serialize(dataset)
	require.NoError(t, err)
	assert.Contains(t, serialized, "_:a <http://ex/knows> _:b .")
}

func TestJsonLdApi_Normalize(t *testing.T) {
	dataset, err := ParseNQuads(`_:x <http://ex/p> "v" .
`)
	require.NoError(t, err)
	api := NewJsonLdApi()

	res, err := api.Normalize(dataset, &JsonLdOptions{Format: "application/n-quads"})
	require.NoError(t, err)
	assert.Equal(t, "_:c14n0 <http://ex/p> \"v\" .\n", res)

	res, err = api.Normalize(dataset, &JsonLdOptions{})
	require.NoError(t, err)
	canonical := res.(*RDFDataset)
	require.Len(t, canonical.GetQuads("@default"), 1)
	assert.Equal(t, "_:c14n0", canonical.GetQuads("@default")[0].Subject.GetValue())

	_, err = api.Normalize(dataset, &JsonLdOptions{Algorithm: "URGNA2012"})
	assert.Equal(t, UnknownFormat, ErrorCodeOf(err))

	_, err = api.Normalize(dataset, &JsonLdOptions{Format: "text/turtle"})
	assert.Equal(t, UnknownFormat, ErrorCodeOf(err))
}
