package ld_test

import (
	"encoding/json"
	"testing"

	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
)

func TestIsAbsoluteIri(t *testing.T) {
	assert.True(t, IsAbsoluteIri("http://example.org/a"))
	assert.True(t, IsAbsoluteIri("urn:isbn:0451450523"))
	assert.True(t, IsAbsoluteIri("_:b0"))
	assert.False(t, IsAbsoluteIri(""))
	assert.False(t, IsAbsoluteIri("relative/path"))
	assert.False(t, IsAbsoluteIri("http://example.org/with space"))
	assert.False(t, IsAbsoluteIri("1http://example.org/"))
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("@id"))
	assert.True(t, IsKeyword("@propagate"))
	assert.False(t, IsKeyword("@custom"))
	assert.False(t, IsKeyword(42))
	assert.True(t, IsKeywordLike("@custom"))
	assert.False(t, IsKeywordLike("@"))
	assert.False(t, IsKeywordLike("@foo.bar"))
}

func TestAddValue(t *testing.T) {
	subject := map[string]interface{}{}

	AddValue(subject, "p", "a", false, false, true, false)
	assert.Equal(t, "a", subject["p"])

	AddValue(subject, "p", "b", false, false, true, false)
	assert.Equal(t, []interface{}{"a", "b"}, subject["p"])

	AddValue(subject, "p", []interface{}{"x", "y"}, true, false, true, true)
	assert.Equal(t, []interface{}{"x", "y", "a", "b"}, subject["p"])

	AddValue(subject, "p", "a", true, false, false, false)
	assert.Equal(t, []interface{}{"x", "y", "a", "b"}, subject["p"])

	AddValue(subject, "q", []interface{}{}, true, false, true, false)
	assert.Equal(t, []interface{}{}, subject["q"])

	AddValue(subject, "r", []interface{}{"kept"}, true, true, true, false)
	assert.Equal(t, []interface{}{"kept"}, subject["r"])
}

func TestDeepCompare(t *testing.T) {
	assert.True(t, DeepCompare(json.Number("5"), 5.0, true))
	assert.True(t, DeepCompare(
		map[string]interface{}{"a": []interface{}{"x", "y"}},
		map[string]interface{}{"a": []interface{}{"y", "x"}},
		false,
	))
	assert.False(t, DeepCompare(
		map[string]interface{}{"a": []interface{}{"x", "y"}},
		map[string]interface{}{"a": []interface{}{"y", "x"}},
		true,
	))
	assert.False(t, DeepCompare(map[string]interface{}{"a": "x"}, map[string]interface{}{"b": "x"}, true))
}

func TestCloneDocument(t *testing.T) {
	original := map[string]interface{}{"a": []interface{}{map[string]interface{}{"b": "c"}}}
	clone := CloneDocument(original).(map[string]interface{})
	assert.Equal(t, original, clone)

	clone["a"].([]interface{})[0].(map[string]interface{})["b"] = "changed"
	assert.Equal(t, "c", original["a"].([]interface{})[0].(map[string]interface{})["b"])
}

func TestNodePredicates(t *testing.T) {
	ref := map[string]interface{}{"@id": "http://ex/a"}
	node := map[string]interface{}{"@id": "_:b", "http://ex/p": []interface{}{}}
	value := map[string]interface{}{"@value": "v"}
	list := map[string]interface{}{"@list": []interface{}{}}
	graph := map[string]interface{}{"@id": "http://ex/g", "@graph": []interface{}{}}

	assert.True(t, IsSubjectReference(ref))
	assert.False(t, IsSubject(ref))
	assert.True(t, IsSubject(node))
	assert.True(t, IsBlankNodeValue(node))
	assert.False(t, IsBlankNodeValue(ref))
	assert.True(t, IsBlankNodeValue(map[string]interface{}{}))
	assert.True(t, IsValue(value))
	assert.False(t, IsBlankNodeValue(value))
	assert.True(t, IsList(list))
	assert.True(t, IsGraph(graph))
	assert.False(t, IsGraph(node))
	assert.Equal(t, []interface{}{"x"}, Arrayify("x"))
}
