package ld_test

import (
	"testing"

	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
)

func TestIdentifierIssuer_GetId(t *testing.T) {
	issuer := NewIdentifierIssuer("_:c14n")

	assert.Equal(t, "_:c14n0", issuer.GetId("_:b1"))
	assert.Equal(t, "_:c14n1", issuer.GetId("_:b0"))
	assert.Equal(t, "_:c14n0", issuer.GetId("_:b1"))
	assert.True(t, issuer.HasId("_:b0"))
	assert.False(t, issuer.HasId("_:b2"))
	assert.Equal(t, []string{"_:b1", "_:b0"}, issuer.GetOldIds())

	// anonymous identifiers are not remembered
	assert.Equal(t, "_:c14n2", issuer.GetId(""))
	assert.Len(t, issuer.GetOldIds(), 2)
}

func TestIdentifierIssuer_Clone(t *testing.T) {
	issuer := NewIdentifierIssuer("_:b")
	issuer.GetId("_:x")

	clone := issuer.Clone()
	assert.Equal(t, "_:b1", clone.GetId("_:y"))
	assert.Equal(t, "_:b0", clone.GetId("_:x"))

	assert.False(t, issuer.HasId("_:y"))
	assert.Equal(t, "_:b1", issuer.GetId("_:z"))
	assert.Equal(t, []string{"_:x"}, issuer.GetOldIds()[:1])

	id, found := clone.Issued("_:y")
	assert.True(t, found)
	assert.Equal(t, "_:b1", id)
}
