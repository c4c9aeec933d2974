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
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
)

var contextSeq atomic.Uint64

var (
	iriShapedTermRegex = regexp.MustCompile(`(?::[^:])|/`)
	prefixEndingRegex  = regexp.MustCompile(`[:/?#\[\]@]$`)
	compactIriRegex    = regexp.MustCompile(`:|/`)
)

// context entries handled by the context itself rather than as terms
var contextKeywords = map[string]bool{
	"@base":      true,
	"@direction": true,
	"@import":    true,
	"@language":  true,
	"@propagate": true,
	"@protected": true,
	"@version":   true,
	"@vocab":     true,
}

var termDefinitionKeys = map[string]bool{
	"@container": true,
	"@context":   true,
	"@direction": true,
	"@id":        true,
	"@index":     true,
	"@language":  true,
	"@nest":      true,
	"@prefix":    true,
	"@protected": true,
	"@reverse":   true,
	"@type":      true,
}

var validContainers = map[string]bool{
	"@list":     true,
	"@set":      true,
	"@index":    true,
	"@language": true,
	"@graph":    true,
	"@id":       true,
	"@type":     true,
}

// TermDefinition is the resolved meaning of a single context term.
// An empty ID with no error marks a term explicitly mapped to null.
type TermDefinition struct {
	ID           string
	Reverse      bool
	Type         string
	Container    []string
	Language     string
	HasLanguage  bool
	Direction    string
	HasDirection bool
	Index        string
	Nest         string
	Prefix       bool
	Protected    bool
	Context      interface{}
	HasContext   bool

	idSet        bool
	termHasColon bool
}

// HasContainer returns true if the term's container set includes container.
func (td *TermDefinition) HasContainer(container string) bool {
	if td == nil {
		return false
	}
	for _, c := range td.Container {
		if c == container {
			return true
		}
	}
	return false
}

func (td *TermDefinition) equal(other *TermDefinition) bool {
	if td.ID != other.ID || td.idSet != other.idSet || td.Reverse != other.Reverse || td.Type != other.Type ||
		td.Language != other.Language || td.HasLanguage != other.HasLanguage ||
		td.Direction != other.Direction || td.HasDirection != other.HasDirection ||
		td.Index != other.Index || td.Nest != other.Nest || td.Prefix != other.Prefix ||
		td.Protected != other.Protected || td.HasContext != other.HasContext {
		return false
	}
	if len(td.Container) != len(other.Container) {
		return false
	}
	for i := range td.Container {
		if td.Container[i] != other.Container[i] {
			return false
		}
	}
	return !td.HasContext || DeepCompare(td.Context, other.Context, true)
}

// Context is an active context: the term definitions and defaults in force
// while expanding a part of a document.
//
// A Context is never modified once it has been returned to a caller.
// Processing a local context always produces a new Context.
type Context struct {
	id       uint64
	options  *JsonLdOptions
	resolver *ContextResolver

	base      string
	hasBase   bool
	vocab     string
	hasVocab  bool
	language  string
	direction string

	termDefinitions map[string]*TermDefinition
	previous        *Context
}

// NewContext creates an empty active context. Remote contexts are fetched
// through options.ContextResolver, or a resolver built from
// options.DocumentLoader if it is not set.
func NewContext(options *JsonLdOptions) *Context {
	if options == nil {
		options = NewJsonLdOptions("")
	}
	resolver := options.ContextResolver
	if resolver == nil {
		resolver = NewContextResolver(options.DocumentLoader, nil, nil, options.logger())
	}
	return &Context{
		id:              contextSeq.Add(1),
		options:         options,
		resolver:        resolver,
		termDefinitions: make(map[string]*TermDefinition),
	}
}

func (c *Context) initial() *Context {
	return &Context{
		id:              contextSeq.Add(1),
		options:         c.options,
		resolver:        c.resolver,
		termDefinitions: make(map[string]*TermDefinition),
	}
}

func (c *Context) clone() *Context {
	clone := *c
	clone.id = contextSeq.Add(1)
	clone.termDefinitions = make(map[string]*TermDefinition, len(c.termDefinitions))
	for k, v := range c.termDefinitions {
		clone.termDefinitions[k] = v
	}
	return &clone
}

// Base returns the context's @base and whether it was set. A set but
// empty base means @base was explicitly null.
func (c *Context) Base() (string, bool) {
	return c.base, c.hasBase
}

// Vocab returns the context's @vocab and whether it is set.
func (c *Context) Vocab() (string, bool) {
	return c.vocab, c.hasVocab
}

// Language returns the default language, or an empty string.
func (c *Context) Language() string {
	return c.language
}

// Direction returns the default base direction, or an empty string.
func (c *Context) Direction() string {
	return c.direction
}

// PreviousContext returns the context to revert to when leaving a node
// that was expanded with a non-propagated context, or nil.
func (c *Context) PreviousContext() *Context {
	return c.previous
}

// RevertToPreviousContext returns the previous context if there is one,
// otherwise c itself.
func (c *Context) RevertToPreviousContext() *Context {
	if c.previous == nil {
		return c
	}
	return c.previous
}

// GetTermDefinition returns the definition of term, or nil.
func (c *Context) GetTermDefinition(term string) *TermDefinition {
	return c.termDefinitions[term]
}

// HasContainerMapping returns true if property's container includes container.
func (c *Context) HasContainerMapping(property string, container string) bool {
	return c.termDefinitions[property].HasContainer(container)
}

// GetTypeMapping returns the @type mapping of property, or an empty string.
func (c *Context) GetTypeMapping(property string) string {
	if td := c.termDefinitions[property]; td != nil {
		return td.Type
	}
	return ""
}

// HasProtectedTerms returns true if any term of the context is protected.
func (c *Context) HasProtectedTerms() bool {
	for _, td := range c.termDefinitions {
		if td.Protected {
			return true
		}
	}
	return false
}

func (c *Context) languageFor(property string) (string, bool) {
	if td := c.termDefinitions[property]; td != nil && td.HasLanguage {
		return td.Language, td.Language != ""
	}
	return c.language, c.language != ""
}

func (c *Context) directionFor(property string) (string, bool) {
	if td := c.termDefinitions[property]; td != nil && td.HasDirection {
		return td.Direction, td.Direction != ""
	}
	return c.direction, c.direction != ""
}

// Parse processes a local context, retrieving any URLs as necessary, and
// returns a new active context.
// Refer to http://www.w3.org/TR/json-ld-api/#context-processing-algorithms for details
func (c *Context) Parse(localContext interface{}) (*Context, error) {
	return c.process(localContext, true, false, make(map[string]bool))
}

// process merges localCtx into c. When propagate is false the result
// remembers c as its previous context. overrideProtected allows protected
// terms to be redefined, as scoped contexts of a term definition may.
// cycles holds the scoped context URLs already validated.
func (c *Context) process(localCtx interface{}, propagate bool, overrideProtected bool,
	cycles map[string]bool) (*Context, error) {

	if ctxList, isList := localCtx.([]interface{}); isList && len(ctxList) == 0 {
		return c, nil
	}
	if cycles == nil {
		cycles = make(map[string]bool)
	}

	resolved, err := c.resolver.Resolve(localCtx, c.options.Base)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return c, nil
	}

	// @propagate of the first context applies to the whole list
	if first, isMap := resolved[0].Document.(map[string]interface{}); isMap {
		if p, isBool := first["@propagate"].(bool); isBool {
			propagate = p
		}
	}

	rval := c
	if !propagate && rval.previous == nil {
		rval = rval.clone()
		rval.previous = c
	}

	for _, rc := range resolved {
		activeCtx := rval

		if rc.Document == nil {
			if !overrideProtected && activeCtx.HasProtectedTerms() {
				mode := c.options.protectedMode()
				if mode == ProtectedModeError {
					return nil, NewJsonLdError(InvalidContextNullification,
						"tried to nullify a context with protected terms outside of a term definition")
				}
				if processed := rc.GetProcessed(activeCtx); processed != nil {
					rval = processed
					continue
				}
				if mode == ProtectedModeWarn {
					c.options.logger().Warn("context nullification keeps protected terms")
				}
				rval = activeCtx.initial()
				for term, td := range activeCtx.termDefinitions {
					if td.Protected {
						rval.termDefinitions[term] = td
					}
				}
				rc.SetProcessed(activeCtx, rval)
				continue
			}
			rval = activeCtx.initial()
			continue
		}

		if processed := rc.GetProcessed(activeCtx); processed != nil {
			rval = processed
			continue
		}

		ctx := rc.Document
		if ctxMap, isMap := ctx.(map[string]interface{}); isMap {
			if inner, hasContext := ctxMap["@context"]; hasContext {
				ctx = inner
			}
		}
		ctxMap, isMap := ctx.(map[string]interface{})
		if !isMap {
			return nil, NewJsonLdError(InvalidLocalContext, "@context must be an object")
		}

		rval = rval.clone()
		if err := rval.define(ctxMap, overrideProtected, cycles); err != nil {
			return nil, err
		}
		rc.SetProcessed(activeCtx, rval)
	}

	return rval, nil
}

// define applies the entries of a single context object to c, which must be
// a fresh clone.
func (c *Context) define(ctxMap map[string]interface{}, overrideProtected bool, cycles map[string]bool) error {
	if importValue, hasImport := ctxMap["@import"]; hasImport {
		merged, err := c.importContext(ctxMap, importValue)
		if err != nil {
			return err
		}
		ctxMap = merged
	}

	if versionValue, hasVersion := ctxMap["@version"]; hasVersion {
		if !isVersion11(versionValue) {
			return NewJsonLdError(InvalidVersionValue, versionValue)
		}
		if c.options.processingMode(JsonLd_1_0) {
			return NewJsonLdError(ProcessingModeConflict,
				fmt.Sprintf("@version: %v not compatible with %s", versionValue, JsonLd_1_0))
		}
	}

	if baseValue, hasBase := ctxMap["@base"]; hasBase {
		switch b := baseValue.(type) {
		case nil:
			c.base = ""
		case string:
			if !IsAbsoluteIri(b) {
				b = PrependBase(c.base, b)
			}
			c.base = b
		default:
			return NewJsonLdError(InvalidBaseIRI,
				"the value of @base in a @context must be an absolute IRI, a relative IRI, or null")
		}
		c.hasBase = true
	}

	if vocabValue, hasVocab := ctxMap["@vocab"]; hasVocab {
		switch v := vocabValue.(type) {
		case nil:
			c.vocab = ""
			c.hasVocab = false
		case string:
			if !IsAbsoluteIri(v) && c.options.processingMode(JsonLd_1_0) {
				return NewJsonLdError(InvalidVocabMapping, "@vocab must be an absolute IRI")
			}
			vocab, err := c.ExpandIri(v, true, true, nil, nil)
			if err != nil {
				return err
			}
			c.vocab = vocab
			c.hasVocab = true
		default:
			return NewJsonLdError(InvalidVocabMapping, "@vocab must be a string or null")
		}
	}

	if languageValue, hasLanguage := ctxMap["@language"]; hasLanguage {
		switch l := languageValue.(type) {
		case nil:
			c.language = ""
		case string:
			c.checkLanguageTag(l)
			c.language = strings.ToLower(l)
		default:
			return NewJsonLdError(InvalidDefaultLanguage, "@language must be a string or null")
		}
	}

	if directionValue, hasDirection := ctxMap["@direction"]; hasDirection {
		if c.options.processingMode(JsonLd_1_0) {
			return NewJsonLdError(InvalidContextEntry, "@direction not compatible with "+JsonLd_1_0)
		}
		switch d := directionValue.(type) {
		case nil:
			c.direction = ""
		case string:
			if d != "ltr" && d != "rtl" {
				return NewJsonLdError(InvalidBaseDirection, d)
			}
			c.direction = d
		default:
			return NewJsonLdError(InvalidBaseDirection, directionValue)
		}
	}

	if propagateValue, hasPropagate := ctxMap["@propagate"]; hasPropagate {
		if _, isBool := propagateValue.(bool); !isBool {
			return NewJsonLdError(InvalidPropagateValue, propagateValue)
		}
	}

	defined := make(map[string]bool)

	// @protected marks every term of this context as protected unless the
	// term says otherwise
	if protectedValue, hasProtected := ctxMap["@protected"]; hasProtected {
		p, isBool := protectedValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidProtectedValue, protectedValue)
		}
		defined["@protected"] = p
	}

	for _, term := range GetOrderedKeys(ctxMap) {
		if contextKeywords[term] {
			continue
		}
		if err := c.createTermDefinition(ctxMap, term, defined, overrideProtected); err != nil {
			return err
		}

		termMap, isMap := ctxMap[term].(map[string]interface{})
		if !isMap {
			continue
		}
		scoped, hasScoped := termMap["@context"]
		if !hasScoped {
			continue
		}
		if scopedURL, isString := scoped.(string); isString {
			u := PrependBase(c.options.Base, scopedURL)
			if cycles[u] {
				continue
			}
			cycles[u] = true
		}
		// scoped contexts are validated now and applied during expansion
		if _, err := c.clone().process(scoped, true, true, cycles); err != nil {
			return NewJsonLdError(InvalidScopedContext, err)
		}
	}

	return nil
}

// importContext returns ctxMap extended with the entries of the context
// referenced by @import that ctxMap does not define itself.
func (c *Context) importContext(ctxMap map[string]interface{}, importValue interface{}) (map[string]interface{}, error) {
	if c.options.processingMode(JsonLd_1_0) {
		return nil, NewJsonLdError(InvalidContextEntry, "@import not compatible with "+JsonLd_1_0)
	}
	importURL, isString := importValue.(string)
	if !isString {
		return nil, NewJsonLdError(InvalidImportValue, "@import must be a string")
	}

	resolvedImport, err := c.resolver.Resolve(importURL, c.options.Base)
	if err != nil {
		return nil, err
	}
	if len(resolvedImport) != 1 {
		return nil, NewJsonLdError(InvalidRemoteContext, "@import must reference a single context")
	}
	importCtx, isMap := resolvedImport[0].Document.(map[string]interface{})
	if !isMap {
		return nil, NewJsonLdError(InvalidRemoteContext, "imported context must be an object")
	}
	if _, hasImport := importCtx["@import"]; hasImport {
		return nil, NewJsonLdError(InvalidContextEntry, "imported context must not include @import")
	}

	merged := make(map[string]interface{}, len(ctxMap)+len(importCtx))
	for k, v := range importCtx {
		merged[k] = v
	}
	for k, v := range ctxMap {
		if k != "@import" {
			merged[k] = v
		}
	}
	return merged, nil
}

func (c *Context) checkLanguageTag(tag string) {
	if _, err := language.Parse(tag); err != nil {
		c.options.logger().Warn("language tag is not well-formed", slog.String("tag", tag))
	}
}

func isVersion11(v interface{}) bool {
	switch n := v.(type) {
	case float64:
		return n == 1.1
	case json.Number:
		return n.String() == "1.1"
	}
	return false
}

// createTermDefinition defines term from its entry in localCtx.
// defined tracks which terms are done (true) or in progress (false).
func (c *Context) createTermDefinition(localCtx map[string]interface{}, term string, defined map[string]bool,
	overrideProtected bool) error {
	if term == "" {
		return NewJsonLdError(InvalidTermDefinition, "a term cannot be an empty string")
	}
	if done, inProgress := defined[term]; inProgress {
		if done {
			return nil
		}
		return NewJsonLdError(CyclicIRIMapping, term)
	}
	defined[term] = false

	value := localCtx[term]
	valueMap, isMap := value.(map[string]interface{})

	if term == "@type" && isMap && isSetContainerOnly(valueMap) {
		if len(valueMap) == 0 {
			return NewJsonLdError(KeywordRedefinition, term)
		}
		for k := range valueMap {
			if k != "@container" && k != "@id" && k != "@protected" {
				return NewJsonLdError(KeywordRedefinition, term)
			}
		}
	} else if IsKeyword(term) {
		return NewJsonLdError(KeywordRedefinition, term)
	} else if IsKeywordLike(term) {
		c.options.logger().Warn("terms beginning with @ are reserved and ignored", slog.String("term", term))
		defined[term] = true
		return nil
	}

	previous := c.termDefinitions[term]
	delete(c.termDefinitions, term)
	restorePrevious := func() {
		if previous != nil {
			c.termDefinitions[term] = previous
		}
		defined[term] = true
	}

	simpleTerm := false
	switch v := value.(type) {
	case nil, string:
		simpleTerm = true
		valueMap = map[string]interface{}{"@id": v}
	case map[string]interface{}:
	default:
		return NewJsonLdError(InvalidTermDefinition, "@context term values must be strings or objects")
	}

	for k := range valueMap {
		if !termDefinitionKeys[k] {
			return NewJsonLdError(InvalidTermDefinition, "a term definition must not contain "+k)
		}
	}

	colon := strings.Index(term, ":")
	td := &TermDefinition{termHasColon: colon > 0}
	c.termDefinitions[term] = td

	if reverseValue, hasReverse := valueMap["@reverse"]; hasReverse {
		if _, hasID := valueMap["@id"]; hasID {
			return NewJsonLdError(InvalidReverseProperty, "a @reverse term definition must not contain @id")
		}
		if _, hasNest := valueMap["@nest"]; hasNest {
			return NewJsonLdError(InvalidReverseProperty, "a @reverse term definition must not contain @nest")
		}
		reverse, isString := reverseValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping, "a @context @reverse value must be a string")
		}
		if !IsKeyword(reverse) && IsKeywordLike(reverse) {
			c.options.logger().Warn("reserved @reverse value ignored", slog.String("term", term))
			restorePrevious()
			return nil
		}
		id, err := c.ExpandIri(reverse, false, true, localCtx, defined)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(id) {
			return NewJsonLdError(InvalidIRIMapping,
				"a @context @reverse value must be an absolute IRI or a blank node identifier")
		}
		td.ID = id
		td.idSet = true
		td.Reverse = true
	} else if idValue, hasID := valueMap["@id"]; hasID {
		switch id := idValue.(type) {
		case nil:
			// reserves the term, which may still be protected
			td.idSet = true
		case string:
			if !IsKeyword(id) && IsKeywordLike(id) {
				c.options.logger().Warn("reserved @id value ignored", slog.String("term", term))
				restorePrevious()
				return nil
			}
			if id == term {
				break
			}
			expanded, err := c.ExpandIri(id, false, true, localCtx, defined)
			if err != nil {
				return err
			}
			if !IsAbsoluteIri(expanded) && !IsKeyword(expanded) {
				return NewJsonLdError(InvalidIRIMapping,
					"a @context @id value must be an absolute IRI, a blank node identifier, or a keyword")
			}
			// a term that looks like an IRI must expand to that IRI
			if iriShapedTermRegex.MatchString(term) {
				termDefined := make(map[string]bool, len(defined)+1)
				for k, v := range defined {
					termDefined[k] = v
				}
				termDefined[term] = true
				termIri, err := c.ExpandIri(term, false, true, localCtx, termDefined)
				if err != nil {
					return err
				}
				if termIri != expanded {
					return NewJsonLdError(InvalidIRIMapping, "term in form of IRI must expand to definition: "+term)
				}
			}
			td.ID = expanded
			td.idSet = true
			td.Prefix = simpleTerm && !td.termHasColon && prefixEndingRegex.MatchString(expanded)
		default:
			return NewJsonLdError(InvalidIRIMapping, "a @context @id value must be a string")
		}
	}

	if !td.idSet {
		if td.termHasColon {
			prefix := term[:colon]
			if _, hasPrefix := localCtx[prefix]; hasPrefix {
				if err := c.createTermDefinition(localCtx, prefix, defined, false); err != nil {
					return err
				}
			}
			if prefixDef, hasPrefixDef := c.termDefinitions[prefix]; hasPrefixDef {
				td.ID = prefixDef.ID + term[colon+1:]
			} else {
				td.ID = term
			}
		} else if term == "@type" {
			td.ID = term
		} else if c.hasVocab {
			td.ID = c.vocab + term
		} else {
			return NewJsonLdError(InvalidIRIMapping, "relative term definition without vocab mapping: "+term)
		}
		td.idSet = true
	}

	if protectedValue, hasProtected := valueMap["@protected"]; hasProtected {
		p, isBool := protectedValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidProtectedValue, protectedValue)
		}
		td.Protected = p
	} else {
		td.Protected = defined["@protected"]
	}

	defined[term] = true

	typeValue, hasType := valueMap["@type"]
	if hasType {
		typeStr, isString := typeValue.(string)
		if !isString {
			return NewJsonLdError(InvalidTypeMapping, typeValue)
		}
		if typeStr == "@json" || typeStr == "@none" {
			if c.options.processingMode(JsonLd_1_0) {
				return NewJsonLdError(InvalidTypeMapping, typeStr+" not compatible with "+JsonLd_1_0)
			}
		} else if typeStr != "@id" && typeStr != "@vocab" {
			expanded, err := c.ExpandIri(typeStr, false, true, localCtx, defined)
			if err != nil {
				return err
			}
			if !IsAbsoluteIri(expanded) || strings.HasPrefix(expanded, "_:") {
				return NewJsonLdError(InvalidTypeMapping, "an @context @type value must be an absolute IRI: "+expanded)
			}
			typeStr = expanded
		}
		td.Type = typeStr
	}

	if containerValue, hasContainer := valueMap["@container"]; hasContainer && containerValue != nil {
		container, err := c.containerMapping(td, containerValue)
		if err != nil {
			return err
		}
		td.Container = container
	}

	if indexValue, hasIndex := valueMap["@index"]; hasIndex {
		index, isString := indexValue.(string)
		if !isString || strings.HasPrefix(index, "@") {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("@index must expand to an IRI: %v on term %s", indexValue, term))
		}
		if !td.HasContainer("@index") {
			return NewJsonLdError(InvalidTermDefinition,
				fmt.Sprintf("@index without @index in @container: %s on term %s", index, term))
		}
		td.Index = index
	}

	if scoped, hasScoped := valueMap["@context"]; hasScoped {
		td.Context = scoped
		td.HasContext = true
	}

	if languageValue, hasLanguage := valueMap["@language"]; hasLanguage && !hasType {
		switch l := languageValue.(type) {
		case nil:
		case string:
			c.checkLanguageTag(l)
			td.Language = strings.ToLower(l)
		default:
			return NewJsonLdError(InvalidLanguageMapping, "@language must be a string or null")
		}
		td.HasLanguage = true
	}

	if prefixValue, hasPrefix := valueMap["@prefix"]; hasPrefix {
		if compactIriRegex.MatchString(term) {
			return NewJsonLdError(InvalidTermDefinition, "@prefix used on a compact IRI term: "+term)
		}
		if IsKeyword(td.ID) {
			return NewJsonLdError(InvalidTermDefinition, "keywords may not be used as prefixes")
		}
		p, isBool := prefixValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidPrefixValue, prefixValue)
		}
		td.Prefix = p
	}

	if directionValue, hasDirection := valueMap["@direction"]; hasDirection {
		switch d := directionValue.(type) {
		case nil:
		case string:
			if d != "ltr" && d != "rtl" {
				return NewJsonLdError(InvalidBaseDirection, d)
			}
			td.Direction = d
		default:
			return NewJsonLdError(InvalidBaseDirection, directionValue)
		}
		td.HasDirection = true
	}

	if nestValue, hasNest := valueMap["@nest"]; hasNest {
		nest, isString := nestValue.(string)
		if !isString || (nest != "@nest" && strings.HasPrefix(nest, "@")) {
			return NewJsonLdError(InvalidNestValue,
				"@context @nest value must be a string which is not a keyword other than @nest")
		}
		td.Nest = nest
	}

	if td.ID == "@context" || td.ID == "@preserve" {
		return NewJsonLdError(InvalidKeywordAlias, "@context and @preserve cannot be aliased")
	}

	if previous != nil && previous.Protected && !overrideProtected {
		td.Protected = true
		if !previous.equal(td) {
			switch c.options.protectedMode() {
			case ProtectedModeError:
				return NewJsonLdError(ProtectedTermRedefinition, "tried to redefine protected term "+term)
			case ProtectedModeWarn:
				c.options.logger().Warn("protected term redefinition ignored", slog.String("term", term))
				c.termDefinitions[term] = previous
			case ProtectedModeIgnore:
				c.termDefinitions[term] = previous
			default:
				return NewJsonLdError(InvalidInput, fmt.Sprintf("invalid protected mode: %s", c.options.ProtectedMode))
			}
		}
	}

	return nil
}

// isSetContainerOnly reports whether a definition of @type may stand: it
// has no @container or a @set one.
func isSetContainerOnly(valueMap map[string]interface{}) bool {
	container, hasContainer := valueMap["@container"]
	return !hasContainer || container == "@set"
}

func (c *Context) containerMapping(td *TermDefinition, containerValue interface{}) ([]string, error) {
	container := make([]string, 0)
	switch cv := containerValue.(type) {
	case string:
		container = append(container, cv)
	case []interface{}:
		for _, item := range cv {
			s, isString := item.(string)
			if !isString {
				return nil, NewJsonLdError(InvalidContainerMapping, "@container values must be strings")
			}
			container = append(container, s)
		}
	default:
		return nil, NewJsonLdError(InvalidContainerMapping, "@container must be a string or an array")
	}

	has := func(token string) bool {
		for _, c := range container {
			if c == token {
				return true
			}
		}
		return false
	}
	hasSet := has("@set")
	isValid := true

	if has("@list") {
		if len(container) != 1 {
			return nil, NewJsonLdError(InvalidContainerMapping, "@container with @list must have no other values")
		}
	} else if has("@graph") {
		for _, c := range container {
			if c != "@graph" && c != "@id" && c != "@index" && c != "@set" {
				return nil, NewJsonLdError(InvalidContainerMapping,
					"@container with @graph must have no other values other than @id, @index, and @set")
			}
		}
	} else {
		maxLen := 1
		if hasSet {
			maxLen = 2
		}
		isValid = len(container) <= maxLen
	}

	if has("@type") {
		if td.Type == "" {
			td.Type = "@id"
		}
		if td.Type != "@id" && td.Type != "@vocab" {
			return nil, NewJsonLdError(InvalidTypeMapping, "container: @type requires @type to be @id or @vocab")
		}
	}

	for _, c := range container {
		if !validContainers[c] {
			isValid = false
		}
	}
	if !isValid {
		return nil, NewJsonLdError(InvalidContainerMapping,
			"@container must be a combination of @list, @set, @index, @language, @graph, @id and @type")
	}

	if td.Reverse {
		for _, c := range container {
			if c != "@index" && c != "@set" {
				return nil, NewJsonLdError(InvalidReverseProperty,
					"@container for a @reverse term definition must be @index or @set")
			}
		}
	}

	return container, nil
}

// ExpandIri expands a string value to a full IRI.
//
// The string may be a term, a prefix, a relative IRI, or an absolute IRI.
// The associated absolute IRI will be returned. An empty result means the
// value maps to null and must be dropped.
//
// value: the string value to expand.
// relative: true to resolve IRIs against the base IRI, false not to.
// vocab: true to concatenate after @vocab, false not to.
// localCtx: the local context being processed (only given if called during context processing).
// defined: a map for tracking cycles in context definitions (only given if called during context processing).
func (c *Context) ExpandIri(value string, relative bool, vocab bool, localCtx map[string]interface{},
	defined map[string]bool) (string, error) {
	if IsKeyword(value) {
		return value, nil
	}
	if IsKeywordLike(value) {
		return "", nil
	}

	if localCtx != nil {
		if _, hasTerm := localCtx[value]; hasTerm && !defined[value] {
			if err := c.createTermDefinition(localCtx, value, defined, false); err != nil {
				return "", err
			}
		}
	}

	if vocab {
		if td, hasTerm := c.termDefinitions[value]; hasTerm && td.idSet {
			return td.ID, nil
		}
	}

	if colon := strings.Index(value, ":"); colon > 0 {
		prefix := value[:colon]
		suffix := value[colon+1:]

		// blank nodes and IRIs with an authority are left alone
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, nil
		}

		if localCtx != nil {
			if _, hasPrefix := localCtx[prefix]; hasPrefix {
				if err := c.createTermDefinition(localCtx, prefix, defined, false); err != nil {
					return "", err
				}
			}
		}

		if td, hasPrefix := c.termDefinitions[prefix]; hasPrefix && td.Prefix {
			return td.ID + suffix, nil
		}

		if IsAbsoluteIri(value) {
			return value, nil
		}
	}

	if vocab && c.hasVocab {
		return c.vocab + value, nil
	}

	if relative {
		if c.hasBase {
			if c.base == "" {
				// @base: null leaves the value relative
				return value, nil
			}
			return PrependBase(PrependBase(c.options.Base, c.base), value), nil
		}
		return PrependBase(c.options.Base, value), nil
	}

	return value, nil
}

// ExpandValue expands the given value by using the coercion and keyword rules in the context.
func (c *Context) ExpandValue(activeProperty string, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	expandedProperty, err := c.ExpandIri(activeProperty, false, true, nil, nil)
	if err != nil {
		return nil, err
	}
	strVal, isString := value.(string)

	if expandedProperty == "@id" || expandedProperty == "@type" {
		if isString {
			return c.ExpandIri(strVal, true, expandedProperty == "@type", nil, nil)
		}
		return value, nil
	}

	typeMapping := c.GetTypeMapping(activeProperty)

	if isString && (typeMapping == "@id" || expandedProperty == "@graph") {
		id, err := c.ExpandIri(strVal, true, false, nil, nil)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"@id": nullIfEmpty(id)}, nil
	}
	if isString && typeMapping == "@vocab" {
		id, err := c.ExpandIri(strVal, true, true, nil, nil)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"@id": nullIfEmpty(id)}, nil
	}

	if IsKeyword(expandedProperty) {
		return value, nil
	}

	rval := make(map[string]interface{})
	if typeMapping != "" && typeMapping != "@id" && typeMapping != "@vocab" && typeMapping != "@none" {
		rval["@type"] = typeMapping
	} else if isString {
		if lang, hasLang := c.languageFor(activeProperty); hasLang {
			rval["@language"] = lang
		}
		if dir, hasDir := c.directionFor(activeProperty); hasDir {
			rval["@direction"] = dir
		}
	}
	rval["@value"] = value

	return rval, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
