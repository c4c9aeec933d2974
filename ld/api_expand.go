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
	"sort"
	"strings"
)

// JsonLdApi holds the JSON-LD algorithms used by JsonLdProcessor.
type JsonLdApi struct { //nolint:stylecheck
}

// NewJsonLdApi creates a new instance of JsonLdApi.
func NewJsonLdApi() *JsonLdApi { //nolint:stylecheck
	return &JsonLdApi{}
}

// Expand operation expands the given input according to the steps in the Expansion algorithm:
//
// http://www.w3.org/TR/json-ld-api/#expansion-algorithm
//
// Returns the expanded JSON-LD object.
// Returns an error if there was an error during expansion.
func (api *JsonLdApi) Expand(activeCtx *Context, activeProperty string, element interface{}, opts *JsonLdOptions) (interface{}, error) {
	return api.expand(activeCtx, activeProperty, element, opts, false, false, nil)
}

// expand is the recursive step of Expand. insideList is set for values of
// a @list, insideIndex for values of an index map. typeScopedCtx is the
// context in force before type-scoped contexts were applied.
func (api *JsonLdApi) expand(activeCtx *Context, activeProperty string, element interface{}, opts *JsonLdOptions,
	insideList bool, insideIndex bool, typeScopedCtx *Context) (interface{}, error) {

	if element == nil {
		return nil, nil
	}

	switch elem := element.(type) {
	case []interface{}:
		insideList = insideList || activeCtx.HasContainerMapping(activeProperty, "@list")
		resultList := make([]interface{}, 0, len(elem))
		for _, item := range elem {
			v, err := api.expand(activeCtx, activeProperty, item, opts, false, insideIndex, typeScopedCtx)
			if err != nil {
				return nil, err
			}
			if vList, isList := v.([]interface{}); isList && insideList {
				v = map[string]interface{}{"@list": vList}
			}
			if v == nil {
				continue
			}
			if vList, isList := v.([]interface{}); isList {
				resultList = append(resultList, vList...)
			} else {
				resultList = append(resultList, v)
			}
		}
		return resultList, nil

	case map[string]interface{}:
		return api.expandMap(activeCtx, activeProperty, elem, opts, insideList, insideIndex, typeScopedCtx)

	default:
		// free-floating scalars are dropped unless they are list items
		if !insideList {
			dropped := activeProperty == ""
			if !dropped {
				expandedActiveProperty, err := activeCtx.ExpandIri(activeProperty, false, true, nil, nil)
				if err != nil {
					return nil, err
				}
				dropped = expandedActiveProperty == "@graph"
			}
			if dropped {
				return replaceDropped(opts, &DroppedItem{
					UnmappedValue:  element,
					ActiveProperty: activeProperty,
					InsideList:     insideList,
					Context:        activeCtx,
				}), nil
			}
		}
		return activeCtx.ExpandValue(activeProperty, element)
	}
}

func (api *JsonLdApi) expandMap(activeCtx *Context, activeProperty string, elem map[string]interface{},
	opts *JsonLdOptions, insideList bool, insideIndex bool, typeScopedCtx *Context) (interface{}, error) {

	expandedActiveProperty := ""
	if activeProperty != "" {
		var err error
		expandedActiveProperty, err = activeCtx.ExpandIri(activeProperty, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
	}

	propertyTermDef := activeCtx.GetTermDefinition(activeProperty)

	// a type-scoped context is reverted unless elem is a value object or a
	// subject reference, or an index map value
	if typeScopedCtx == nil && activeCtx.PreviousContext() != nil {
		typeScopedCtx = activeCtx
	}
	keys := GetOrderedKeys(elem)
	_, hasContext := elem["@context"]
	mustRevert := !insideIndex
	if mustRevert && typeScopedCtx != nil && len(keys) <= 2 && !hasContext {
		for _, key := range keys {
			expandedProperty, err := typeScopedCtx.ExpandIri(key, false, true, nil, nil)
			if err != nil {
				return nil, err
			}
			if expandedProperty == "@value" {
				mustRevert = false
				activeCtx = typeScopedCtx
				break
			}
			if expandedProperty == "@id" && len(keys) == 1 {
				mustRevert = false
				break
			}
		}
	}
	if mustRevert {
		activeCtx = activeCtx.RevertToPreviousContext()
	}

	var err error
	if propertyTermDef != nil && propertyTermDef.HasContext {
		activeCtx, err = activeCtx.process(propertyTermDef.Context, true, true, nil)
		if err != nil {
			return nil, err
		}
	}
	if hasContext {
		activeCtx, err = activeCtx.process(elem["@context"], true, false, nil)
		if err != nil {
			return nil, err
		}
	}

	typeScopedCtx = activeCtx

	// apply contexts scoped to the object's types, in lexicographical order
	typeKey := ""
	for _, key := range keys {
		expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		if expandedProperty != "@type" {
			continue
		}
		if typeKey == "" {
			typeKey = key
		}
		types := make([]string, 0)
		for _, t := range Arrayify(elem[key]) {
			if typeStr, isString := t.(string); isString {
				types = append(types, typeStr)
			}
		}
		sort.Strings(types)
		for _, t := range types {
			if td := typeScopedCtx.GetTermDefinition(t); td != nil && td.HasContext {
				activeCtx, err = activeCtx.process(td.Context, false, false, nil)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	resultMap := make(map[string]interface{})
	err = api.expandObject(activeCtx, activeProperty, expandedActiveProperty, elem, resultMap, opts, insideList,
		typeKey, typeScopedCtx)
	if err != nil {
		return nil, err
	}

	dropped := func(unmapped interface{}) interface{} {
		return replaceDropped(opts, &DroppedItem{
			UnmappedValue:  unmapped,
			ActiveProperty: activeProperty,
			InsideList:     insideList,
			Context:        activeCtx,
		})
	}

	var result interface{} = resultMap
	count := len(resultMap)

	if value, hasValue := resultMap["@value"]; hasValue {
		_, hasType := resultMap["@type"]
		_, hasLanguage := resultMap["@language"]
		_, hasDirection := resultMap["@direction"]
		_, hasIndex := resultMap["@index"]
		if hasType && (hasLanguage || hasDirection) {
			return nil, NewJsonLdError(InvalidValueObject,
				"an element containing @value may not contain both @type and either @language or @direction")
		}
		validCount := count - 1
		for _, present := range []bool{hasType, hasIndex, hasLanguage, hasDirection} {
			if present {
				validCount--
			}
		}
		if validCount != 0 {
			return nil, NewJsonLdError(InvalidValueObject,
				"an element containing @value may only have an @index property and either @type or "+
					"either or both @language or @direction")
		}

		values := make([]interface{}, 0)
		if value != nil {
			values = Arrayify(value)
		}
		types := make([]interface{}, 0)
		if typeValue := resultMap["@type"]; typeValue != nil {
			types = Arrayify(typeValue)
		}

		switch {
		case len(types) == 1 && types[0] == "@json":
			// any @value is allowed in a JSON literal
		case len(values) == 0:
			result = dropped(resultMap)
		case hasLanguage && !allStringsOrNil(values):
			return nil, NewJsonLdError(InvalidLanguageTaggedValue, "only strings may be language-tagged")
		default:
			for _, t := range types {
				typeStr, isString := t.(string)
				if isEmptyObject(t) || (isString && IsAbsoluteIri(typeStr) && !strings.HasPrefix(typeStr, "_:")) {
					continue
				}
				return nil, NewJsonLdError(InvalidTypedValue,
					"an element containing @value and @type must have an absolute IRI for the value of @type")
			}
		}
	} else if typeValue, hasType := resultMap["@type"]; hasType && !isArray(typeValue) {
		resultMap["@type"] = []interface{}{typeValue}
	} else if setValue, hasSet := resultMap["@set"]; hasSet || IsList(resultMap) {
		_, hasIndex := resultMap["@index"]
		if count > 1 && !(count == 2 && hasIndex) {
			return nil, NewJsonLdError(InvalidSetOrListObject,
				"if an element has the property @set or @list, then it can have at most one other property that is @index")
		}
		if hasSet {
			setMap, isMap := setValue.(map[string]interface{})
			if !isMap {
				return setValue, nil
			}
			resultMap = setMap
			result = setMap
			count = len(setMap)
		}
	} else if _, hasLanguage := resultMap["@language"]; hasLanguage && count == 1 {
		result = dropped(resultMap)
	}

	// drop free-floating nodes at the top level and in @graph
	if result != nil && !opts.KeepFreeFloatingNodes && !insideList &&
		(activeProperty == "" || expandedActiveProperty == "@graph") {
		if resultMap, isMap := result.(map[string]interface{}); isMap {
			_, hasValue := resultMap["@value"]
			_, hasID := resultMap["@id"]
			if count == 0 || hasValue || IsList(resultMap) || (count == 1 && hasID) {
				result = dropped(resultMap)
			}
		}
	}

	return result, nil
}

// expandObject expands the keys of elem into resultMap.
func (api *JsonLdApi) expandObject(activeCtx *Context, activeProperty string, expandedActiveProperty string,
	elem map[string]interface{}, resultMap map[string]interface{}, opts *JsonLdOptions, insideList bool,
	typeKey string, typeScopedCtx *Context) error {

	frameExpansion := opts.FrameExpansion
	nests := make([]string, 0)
	var unexpandedValue interface{}

	isJSONType := false
	if typeKey != "" {
		typeValue := elem[typeKey]
		if typeList, isList := typeValue.([]interface{}); isList && len(typeList) > 0 {
			typeValue = typeList[0]
		}
		if typeStr, isString := typeValue.(string); isString {
			expandedType, err := activeCtx.ExpandIri(typeStr, false, true, nil, nil)
			if err != nil {
				return err
			}
			isJSONType = expandedType == "@json"
		}
	}

	for _, key := range GetOrderedKeys(elem) {
		value := elem[key]
		if key == "@context" {
			continue
		}

		expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return err
		}

		// keys that are neither IRIs nor keywords are dropped
		if expandedProperty == "" || !(IsAbsoluteIri(expandedProperty) || IsKeyword(expandedProperty)) {
			mapped, _ := replaceDropped(opts, &DroppedItem{
				UnmappedProperty: key,
				UnmappedValue:    value,
				ActiveProperty:   activeProperty,
				InsideList:       insideList,
				Context:          activeCtx,
			}).(string)
			if mapped == "" {
				continue
			}
			expandedProperty = mapped
		}

		if IsKeyword(expandedProperty) {
			if expandedActiveProperty == "@reverse" {
				return NewJsonLdError(InvalidReversePropertyMap, "a keyword cannot be used as a @reverse property")
			}
			if _, containsKey := resultMap[expandedProperty]; containsKey &&
				expandedProperty != "@included" && expandedProperty != "@type" {
				return NewJsonLdError(CollidingKeywords, expandedProperty+" already exists in result")
			}
		}

		switch expandedProperty {
		case "@id":
			if err := expandID(activeCtx, value, resultMap, frameExpansion); err != nil {
				return err
			}
			continue

		case "@type":
			if err := expandType(typeScopedCtx, value, resultMap, frameExpansion); err != nil {
				return err
			}
			continue

		case "@included":
			if opts.processingMode(JsonLd_1_0) {
				continue
			}
			included, err := api.expand(activeCtx, activeProperty, value, opts, false, false, nil)
			if err != nil {
				return err
			}
			includedList := make([]interface{}, 0)
			if included != nil {
				includedList = Arrayify(included)
			}
			for _, v := range includedList {
				if !IsSubject(v) {
					return NewJsonLdError(InvalidIncludedValue, "values of @included must expand to node objects")
				}
			}
			AddValue(resultMap, "@included", includedList, true, false, true, false)
			continue

		case "@graph":
			_, isMap := value.(map[string]interface{})
			_, isList := value.([]interface{})
			if !isMap && !isList {
				return NewJsonLdError(SyntaxError, "@graph value must be an object or an array")
			}

		case "@value":
			unexpandedValue = value
			if isJSONType && !opts.processingMode(JsonLd_1_0) {
				resultMap["@value"] = CloneDocument(value)
			} else {
				AddValue(resultMap, "@value", value, frameExpansion, false, true, false)
			}
			continue

		case "@language":
			if value == nil {
				continue
			}
			if _, isString := value.(string); !isString && !frameExpansion {
				return NewJsonLdError(InvalidLanguageTaggedString, "@language value must be a string")
			}
			languages := make([]interface{}, 0)
			for _, v := range Arrayify(value) {
				if lang, isString := v.(string); isString {
					activeCtx.checkLanguageTag(lang)
					languages = append(languages, strings.ToLower(lang))
				} else {
					languages = append(languages, CloneDocument(v))
				}
			}
			AddValue(resultMap, "@language", languages, frameExpansion, false, true, false)
			continue

		case "@direction":
			if _, isString := value.(string); !isString && !frameExpansion {
				return NewJsonLdError(InvalidBaseDirection, "@direction value must be a string")
			}
			directions := make([]interface{}, 0)
			for _, v := range Arrayify(value) {
				if dir, isString := v.(string); isString && dir != "ltr" && dir != "rtl" {
					return NewJsonLdError(InvalidBaseDirection, `@direction must be "ltr" or "rtl"`)
				}
				directions = append(directions, CloneDocument(v))
			}
			AddValue(resultMap, "@direction", directions, frameExpansion, false, true, false)
			continue

		case "@index":
			if _, isString := value.(string); !isString {
				return NewJsonLdError(InvalidIndexValue, "@index value must be a string")
			}
			AddValue(resultMap, "@index", value, false, false, true, false)
			continue

		case "@reverse":
			if err := api.expandReverse(activeCtx, value, resultMap, opts); err != nil {
				return err
			}
			continue

		case "@nest":
			nests = append(nests, key)
			continue
		}

		// use potential scoped context for key
		termCtx := activeCtx
		if td := activeCtx.GetTermDefinition(key); td != nil && td.HasContext {
			termCtx, err = activeCtx.process(td.Context, true, true, nil)
			if err != nil {
				return err
			}
		}
		termDef := termCtx.GetTermDefinition(key)

		var expandedValue interface{}
		valueMap, valueIsMap := value.(map[string]interface{})

		switch {
		case termDef.HasContainer("@language") && valueIsMap:
			expandedValue, err = api.expandLanguageMap(termCtx, key, valueMap)
		case termDef.HasContainer("@index") && valueIsMap:
			indexKey := "@index"
			if termDef.Index != "" {
				indexKey = termDef.Index
			}
			propertyIndex := ""
			if indexKey != "@index" {
				propertyIndex, err = activeCtx.ExpandIri(indexKey, false, true, nil, nil)
				if err != nil {
					return err
				}
			}
			expandedValue, err = api.expandIndexMap(termCtx, key, valueMap, indexKey, termDef.HasContainer("@graph"),
				propertyIndex, opts)
		case termDef.HasContainer("@id") && valueIsMap:
			expandedValue, err = api.expandIndexMap(termCtx, key, valueMap, "@id", termDef.HasContainer("@graph"), "",
				opts)
		case termDef.HasContainer("@type") && valueIsMap:
			// type maps are expanded without the enclosing type-scoped context
			expandedValue, err = api.expandIndexMap(termCtx.RevertToPreviousContext(), key, valueMap, "@type", false,
				"", opts)
		case expandedProperty == "@list" || expandedProperty == "@set":
			isList := expandedProperty == "@list"
			nextActiveProperty := activeProperty
			if isList && expandedActiveProperty == "@graph" {
				nextActiveProperty = ""
			}
			expandedValue, err = api.expand(termCtx, nextActiveProperty, value, opts, isList, false, nil)
		case activeCtx.GetTypeMapping(key) == "@json":
			expandedValue = map[string]interface{}{
				"@type":  "@json",
				"@value": CloneDocument(value),
			}
		default:
			expandedValue, err = api.expand(termCtx, key, value, opts, false, false, nil)
		}
		if err != nil {
			return err
		}

		if expandedValue == nil && value == nil {
			expandedValue = replaceDropped(opts, &DroppedItem{
				UnmappedValue:    value,
				ActiveProperty:   activeProperty,
				ExpandedProperty: expandedProperty,
				InsideList:       insideList,
				Context:          termCtx,
			})
		}
		if expandedValue == nil {
			continue
		}

		if expandedProperty != "@list" && !IsList(expandedValue) && termDef.HasContainer("@list") {
			expandedValue = map[string]interface{}{"@list": Arrayify(expandedValue)}
		}

		// index and id maps have wrapped their values already
		if termDef.HasContainer("@graph") && !termDef.HasContainer("@id") && !termDef.HasContainer("@index") {
			graphs := make([]interface{}, 0)
			for _, v := range Arrayify(expandedValue) {
				graphs = append(graphs, map[string]interface{}{"@graph": Arrayify(v)})
			}
			expandedValue = graphs
		}

		if termDef != nil && termDef.Reverse {
			reverseMap, isMap := resultMap["@reverse"].(map[string]interface{})
			if !isMap {
				reverseMap = make(map[string]interface{})
				resultMap["@reverse"] = reverseMap
			}
			for _, item := range Arrayify(expandedValue) {
				if IsValue(item) || IsList(item) {
					return NewJsonLdError(InvalidReversePropertyValue, "@reverse value must not be a @value or an @list")
				}
				AddValue(reverseMap, expandedProperty, item, true, false, true, false)
			}
			continue
		}

		AddValue(resultMap, expandedProperty, expandedValue, true, false, true, false)
	}

	if _, hasValue := resultMap["@value"]; hasValue && resultMap["@type"] != "@json" && !frameExpansion {
		switch unexpandedValue.(type) {
		case map[string]interface{}, []interface{}:
			return NewJsonLdError(InvalidValueObjectValue, "@value value must not be an object or an array")
		}
	}

	for _, key := range nests {
		for _, nv := range Arrayify(elem[key]) {
			nvMap, isMap := nv.(map[string]interface{})
			if !isMap {
				return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
			}
			for nestedKey := range nvMap {
				expandedKey, err := activeCtx.ExpandIri(nestedKey, false, true, nil, nil)
				if err != nil {
					return err
				}
				if expandedKey == "@value" {
					return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
				}
			}
			err := api.expandObject(activeCtx, activeProperty, expandedActiveProperty, nvMap, resultMap, opts,
				insideList, typeKey, typeScopedCtx)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func expandID(activeCtx *Context, value interface{}, resultMap map[string]interface{}, frameExpansion bool) error {
	if _, isString := value.(string); !isString {
		if !frameExpansion {
			return NewJsonLdError(InvalidIDValue, "@id value must be a string")
		}
		switch v := value.(type) {
		case map[string]interface{}:
			// an empty object is a wildcard
			if len(v) != 0 {
				return NewJsonLdError(InvalidIDValue,
					"@id value must be an empty object or array of strings, if framing")
			}
		case []interface{}:
			for _, item := range v {
				if _, isString := item.(string); !isString {
					return NewJsonLdError(InvalidIDValue,
						"@id value must be an empty object or array of strings, if framing")
				}
			}
		default:
			return NewJsonLdError(InvalidIDValue, "@id value must be an empty object or array of strings, if framing")
		}
	}

	ids := make([]interface{}, 0)
	for _, v := range Arrayify(value) {
		if idStr, isString := v.(string); isString {
			expanded, err := activeCtx.ExpandIri(idStr, true, false, nil, nil)
			if err != nil {
				return err
			}
			ids = append(ids, nullIfEmpty(expanded))
		} else {
			ids = append(ids, CloneDocument(v))
		}
	}
	AddValue(resultMap, "@id", ids, frameExpansion, false, true, false)
	return nil
}

func expandType(typeScopedCtx *Context, value interface{}, resultMap map[string]interface{}, frameExpansion bool) error {
	// a framing default object has its keys and values expanded first
	if valueMap, isMap := value.(map[string]interface{}); isMap {
		expanded := make(map[string]interface{}, len(valueMap))
		for _, k := range GetOrderedKeys(valueMap) {
			name, err := typeScopedCtx.ExpandIri(k, false, true, nil, nil)
			if err != nil {
				return err
			}
			items := make([]interface{}, 0)
			for _, item := range Arrayify(valueMap[k]) {
				if itemStr, isString := item.(string); isString {
					iri, err := typeScopedCtx.ExpandIri(itemStr, true, true, nil, nil)
					if err != nil {
						return err
					}
					items = append(items, iri)
				} else {
					items = append(items, CloneDocument(item))
				}
			}
			expanded[name] = items
		}
		value = expanded
	}

	if err := validateTypeValue(value, frameExpansion); err != nil {
		return err
	}

	types := make([]interface{}, 0)
	for _, v := range Arrayify(value) {
		typeStr, isString := v.(string)
		if !isString {
			types = append(types, v)
			continue
		}
		iri, err := typeScopedCtx.ExpandIri(typeStr, true, true, nil, nil)
		if err != nil {
			return err
		}
		if iri != "" {
			types = append(types, iri)
		}
	}
	AddValue(resultMap, "@type", types, frameExpansion, false, true, false)
	return nil
}

func validateTypeValue(v interface{}, frameExpansion bool) error {
	switch tv := v.(type) {
	case string:
		return nil
	case []interface{}:
		if allStrings(tv) {
			return nil
		}
	case map[string]interface{}:
		if frameExpansion {
			if len(tv) == 0 {
				return nil
			}
			if defaultValue, hasDefault := tv["@default"]; hasDefault && len(tv) == 1 && allStrings(Arrayify(defaultValue)) {
				return nil
			}
		}
	}
	return NewJsonLdError(InvalidTypeValue,
		"@type value must be a string, an array of strings, an empty object, or a default object")
}

func (api *JsonLdApi) expandReverse(activeCtx *Context, value interface{}, resultMap map[string]interface{},
	opts *JsonLdOptions) error {
	valueMap, isMap := value.(map[string]interface{})
	if !isMap {
		return NewJsonLdError(InvalidReverseValue, "@reverse value must be an object")
	}

	expanded, err := api.expand(activeCtx, "@reverse", valueMap, opts, false, false, nil)
	if err != nil {
		return err
	}
	expandedMap, _ := expanded.(map[string]interface{})

	// reverse properties of a reverse map point forward again
	if doubleReversed, isMap := expandedMap["@reverse"].(map[string]interface{}); isMap {
		for _, property := range GetOrderedKeys(doubleReversed) {
			AddValue(resultMap, property, doubleReversed[property], true, false, true, false)
		}
	}

	reverseMap, _ := resultMap["@reverse"].(map[string]interface{})
	for _, property := range GetOrderedKeys(expandedMap) {
		if property == "@reverse" {
			continue
		}
		if reverseMap == nil {
			reverseMap = make(map[string]interface{})
			resultMap["@reverse"] = reverseMap
		}
		AddValue(reverseMap, property, []interface{}{}, true, false, true, false)
		for _, item := range Arrayify(expandedMap[property]) {
			if IsValue(item) || IsList(item) {
				return NewJsonLdError(InvalidReversePropertyValue, "@reverse value must not be a @value or an @list")
			}
			AddValue(reverseMap, property, item, true, false, true, false)
		}
	}
	return nil
}

// expandLanguageMap turns {"en": "x", "@none": "y"} into value objects.
func (api *JsonLdApi) expandLanguageMap(termCtx *Context, property string, languageMap map[string]interface{}) ([]interface{}, error) {
	direction, hasDirection := termCtx.directionFor(property)

	rval := make([]interface{}, 0)
	for _, language := range GetOrderedKeys(languageMap) {
		expandedLanguage, err := termCtx.ExpandIri(language, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		for _, item := range Arrayify(languageMap[language]) {
			if item == nil {
				continue
			}
			if _, isString := item.(string); !isString {
				return nil, NewJsonLdError(InvalidLanguageMapValue, "language map values must be strings")
			}
			v := map[string]interface{}{"@value": item}
			if expandedLanguage != "@none" {
				termCtx.checkLanguageTag(language)
				v["@language"] = strings.ToLower(language)
			}
			if hasDirection {
				v["@direction"] = direction
			}
			rval = append(rval, v)
		}
	}
	return rval, nil
}

// expandIndexMap expands the values of an @index, @id or @type map and
// tags each of them with its key. propertyIndex is the expanded property
// of a property-valued index, or empty.
func (api *JsonLdApi) expandIndexMap(activeCtx *Context, activeProperty string, value map[string]interface{},
	indexKey string, asGraph bool, propertyIndex string, opts *JsonLdOptions) ([]interface{}, error) {

	isTypeIndex := indexKey == "@type"
	rval := make([]interface{}, 0)
	for _, key := range GetOrderedKeys(value) {
		mapCtx := activeCtx
		if isTypeIndex {
			if td := activeCtx.GetTermDefinition(key); td != nil && td.HasContext {
				var err error
				mapCtx, err = activeCtx.process(td.Context, false, false, nil)
				if err != nil {
					return nil, err
				}
			}
		}

		expanded, err := api.expand(mapCtx, activeProperty, Arrayify(value[key]), opts, false, true, nil)
		if err != nil {
			return nil, err
		}

		var expandedKey interface{}
		if propertyIndex != "" {
			if key == "@none" {
				expandedKey = "@none"
			} else {
				expandedKey, err = mapCtx.ExpandValue(indexKey, key)
			}
		} else {
			expandedKey, err = mapCtx.ExpandIri(key, false, true, nil, nil)
		}
		if err != nil {
			return nil, err
		}

		if indexKey == "@id" {
			key, err = mapCtx.ExpandIri(key, true, false, nil, nil)
			if err != nil {
				return nil, err
			}
		} else if isTypeIndex {
			key, _ = expandedKey.(string)
		}

		items, _ := expanded.([]interface{})
		for _, item := range items {
			if asGraph && !IsGraph(item) {
				item = map[string]interface{}{"@graph": []interface{}{item}}
			}
			itemMap, isMap := item.(map[string]interface{})

			switch {
			case isTypeIndex:
				if expandedKey != "@none" && isMap {
					types := []interface{}{key}
					if existing, hasType := itemMap["@type"]; hasType {
						types = append(types, Arrayify(existing)...)
					}
					itemMap["@type"] = types
				}
			case IsValue(item) && indexKey != "@language" && indexKey != "@type" && indexKey != "@index":
				return nil, NewJsonLdError(InvalidValueObject, "attempt to add illegal key to value object: "+indexKey)
			case expandedKey != "@none":
				if propertyIndex != "" {
					if isMap {
						AddValue(itemMap, propertyIndex, []interface{}{expandedKey}, true, false, true, true)
					}
				} else if isMap {
					if _, hasIndex := itemMap[indexKey]; !hasIndex {
						itemMap[indexKey] = key
					}
				}
			}
			rval = append(rval, item)
		}
	}
	return rval, nil
}

func allStrings(values []interface{}) bool {
	for _, v := range values {
		if _, isString := v.(string); !isString {
			return false
		}
	}
	return true
}

func allStringsOrNil(values []interface{}) bool {
	for _, v := range values {
		if _, isString := v.(string); !isString && v != nil {
			return false
		}
	}
	return true
}

func isArray(v interface{}) bool {
	_, isList := v.([]interface{})
	return isList
}

func isEmptyObject(v interface{}) bool {
	m, isMap := v.(map[string]interface{})
	return isMap && len(m) == 0
}
