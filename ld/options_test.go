package ld

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJsonLdOptions_Copy(t *testing.T) {
	expected := JsonLdOptions{
		Base:                  "base",
		ExpandContext:         map[string]interface{}{"ex": "http://example.com/"},
		ProcessingMode:        JsonLd_1_1,
		DocumentLoader:        NewDefaultDocumentLoader(nil),
		ProtectedMode:         ProtectedModeWarn,
		FrameExpansion:        true,
		KeepFreeFloatingNodes: true,
		ProduceGeneralizedRdf: true,
		RdfDirection:          RdfDirectionI18nDatatype,
		InputFormat:           "input",
		Format:                "format",
		Algorithm:             AlgorithmURDNA2015,
		Logger:                slog.Default(),
	}
	copied := expected.Copy()
	assert.Equal(t, expected, *copied)

	copied.Base = "other"
	assert.Equal(t, "base", expected.Base)
}

func TestJsonLdOptions_Defaults(t *testing.T) {
	opts := &JsonLdOptions{}
	assert.Equal(t, ProtectedModeError, opts.protectedMode())
	assert.True(t, opts.processingMode(JsonLd_1_1))
	assert.False(t, opts.processingMode(JsonLd_1_0))
	assert.Equal(t, slog.Default(), opts.logger())

	opts = NewJsonLdOptions("http://example.com/")
	assert.Equal(t, AlgorithmURDNA2015, opts.Algorithm)
	assert.NotNil(t, opts.DocumentLoader)
}
