package ld_test

import (
	"testing"

	. "github.com/piprate/json-canon/ld"
	"github.com/stretchr/testify/assert"
)

func TestMessageDigest(t *testing.T) {
	md := NewMessageDigest()
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", md.Digest())

	md.Update("a")
	md.Update("bc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", md.Digest())

	// the digest resets the accumulator
	md.Update("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", md.Digest())
}
