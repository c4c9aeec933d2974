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
	"log/slog"
)

const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck
)

// ProtectedMode selects how a conflicting redefinition or nullification of
// a protected term is handled.
type ProtectedMode string

const (
	// ProtectedModeError fails the operation.
	ProtectedModeError ProtectedMode = "error"
	// ProtectedModeWarn keeps the existing definition and logs a warning.
	ProtectedModeWarn ProtectedMode = "warn"
	// ProtectedModeIgnore keeps the existing definition silently.
	ProtectedModeIgnore ProtectedMode = "ignore"
)

const (
	// RdfDirectionI18nDatatype encodes @direction into the literal's datatype IRI.
	RdfDirectionI18nDatatype = "i18n-datatype"
)

// JsonLdOptions type as specified in the JSON-LD-API specification:
// http://www.w3.org/TR/json-ld-api/#the-jsonldoptions-type
type JsonLdOptions struct { //nolint:stylecheck

	// Base options: http://www.w3.org/TR/json-ld-api/#idl-def-JsonLdOptions

	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-base
	Base string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-expandContext
	ExpandContext interface{}
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-processingMode
	ProcessingMode string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-documentLoader
	DocumentLoader DocumentLoader

	// ContextResolver overrides the resolver built from DocumentLoader and
	// the processor's caches.
	ContextResolver *ContextResolver

	// Expansion options

	ProtectedMode ProtectedMode
	// FrameExpansion relaxes the shape checks of @id, @type and value objects.
	FrameExpansion        bool
	KeepFreeFloatingNodes bool
	ExpansionHook         ExpansionHook

	// RDF conversion options: http://www.w3.org/TR/json-ld-api/#serialize-rdf-as-json-ld-algorithm

	ProduceGeneralizedRdf bool
	RdfDirection          string

	// Processor extensions

	InputFormat string
	Format      string
	Algorithm   string

	// Logger receives warnings and debug messages. A nil Logger uses slog.Default().
	Logger *slog.Logger
}

// NewJsonLdOptions creates and returns new instance of JsonLdOptions with the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:                  base,
		ProcessingMode:        JsonLd_1_1,
		DocumentLoader:        NewDefaultDocumentLoader(nil),
		ProtectedMode:         ProtectedModeError,
		FrameExpansion:        false,
		KeepFreeFloatingNodes: false,
		ProduceGeneralizedRdf: false,
		InputFormat:           "",
		Format:                "",
		Algorithm:             AlgorithmURDNA2015,
	}
}

// Copy creates a shallow copy of JsonLdOptions object.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	c := *opt
	return &c
}

func (opt *JsonLdOptions) logger() *slog.Logger {
	if opt.Logger != nil {
		return opt.Logger
	}
	return slog.Default()
}

func (opt *JsonLdOptions) protectedMode() ProtectedMode {
	if opt.ProtectedMode == "" {
		return ProtectedModeError
	}
	return opt.ProtectedMode
}

func (opt *JsonLdOptions) processingMode(mode string) bool {
	if opt.ProcessingMode == "" {
		return mode == JsonLd_1_1
	}
	return opt.ProcessingMode == mode
}
