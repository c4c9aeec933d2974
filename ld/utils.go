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
	"os"
	"regexp"
	"sort"
	"strings"
)

// IsKeyword returns whether or not the given value is a keyword.
func IsKeyword(key interface{}) bool {
	if _, isString := key.(string); !isString {
		return false
	}
	return key == "@base" || key == "@container" || key == "@context" || key == "@default" || key == "@direction" ||
		key == "@embed" || key == "@explicit" || key == "@json" || key == "@id" || key == "@included" ||
		key == "@index" || key == "@graph" || key == "@import" || key == "@language" ||
		key == "@list" || key == "@nest" || key == "@none" || key == "@omitDefault" || key == "@prefix" ||
		key == "@preserve" || key == "@propagate" || key == "@protected" || key == "@requireAll" ||
		key == "@reverse" || key == "@set" || key == "@type" || key == "@value" || key == "@version" ||
		key == "@vocab"
}

var (
	iriKeywordRegex  = regexp.MustCompile(`^@[a-zA-Z]+$`)
	absoluteIriRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+\-.]*|_):[^\s]*$`)
)

// IsKeywordLike returns true if value has the form of a keyword (@ followed
// by letters) whether or not it is a known one. Such values are reserved.
func IsKeywordLike(value string) bool {
	return iriKeywordRegex.MatchString(value)
}

// IsAbsoluteIri returns true if the given value is an absolute IRI or a
// blank node identifier, false if not.
func IsAbsoluteIri(value string) bool {
	if value == "" {
		return false
	}
	return absoluteIriRegex.MatchString(value)
}

// IsBlankNodeID returns true if id is a blank node identifier.
func IsBlankNodeID(id string) bool {
	return strings.HasPrefix(id, "_:")
}

// DeepCompare returns true if v1 equals v2.
func DeepCompare(v1 interface{}, v2 interface{}, listOrderMatters bool) bool {
	if v1 == nil {
		return v2 == nil
	} else if v2 == nil {
		return false
	}

	m1, isMap1 := v1.(map[string]interface{})
	m2, isMap2 := v2.(map[string]interface{})
	l1, isList1 := v1.([]interface{})
	l2, isList2 := v2.([]interface{})
	if isMap1 && isMap2 {
		if len(m1) != len(m2) {
			return false
		}
		for key, val1 := range m1 {
			if val2, present := m2[key]; !present || !DeepCompare(val1, val2, listOrderMatters) {
				return false
			}
		}
		return true
	} else if isList1 && isList2 {
		if len(l1) != len(l2) {
			return false
		}
		// used to mark members of l2 that we have already matched to avoid
		// matching the same item twice for lists that have duplicates
		alreadyMatched := make([]bool, len(l2))
		for i := 0; i < len(l1); i++ {
			o1 := l1[i]
			gotMatch := false
			if listOrderMatters {
				gotMatch = DeepCompare(o1, l2[i], listOrderMatters)
			} else {
				for j := 0; j < len(l2); j++ {
					if !alreadyMatched[j] && DeepCompare(o1, l2[j], listOrderMatters) {
						alreadyMatched[j] = true
						gotMatch = true
						break
					}
				}
			}
			if !gotMatch {
				return false
			}
		}
		return true
	} else if isMap1 || isMap2 || isList1 || isList2 {
		return false
	}

	if v1 == v2 {
		return true
	}
	// json.Number and float64 may represent the same number
	return normalizeValue(v1) == normalizeValue(v2)
}

// normalizeValue allows comparisons between json.Number and float/integer values.
func normalizeValue(v interface{}) string {
	floatVal, isFloat := v.(float64)

	if !isFloat {
		if number, isNumber := v.(json.Number); isNumber {
			var floatErr error
			floatVal, floatErr = number.Float64()
			if floatErr == nil {
				isFloat = true
			}
		}
	}
	if isFloat {
		return fmt.Sprintf("%f", floatVal)
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// isScalar reports whether v is a JSON scalar: a string, number or boolean.
func isScalar(v interface{}) bool {
	switch v.(type) {
	case string, float64, bool, json.Number, int, int64:
		return true
	default:
		return false
	}
}

// IsSubject returns true if the given value is a subject with properties.
//
// Note: A value is a subject if all of these hold true:
// 1. It is an Object.
// 2. It is not a @value, @set, or @list.
// 3. It has more than 1 key OR any existing key is not @id.
func IsSubject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsValue := vMap["@value"]
	_, containsSet := vMap["@set"]
	_, containsList := vMap["@list"]
	_, containsID := vMap["@id"]
	if isMap && !(containsValue || containsSet || containsList) {
		return len(vMap) > 1 || !containsID
	}
	return false
}

// IsSubjectReference returns true if the given value is a subject reference.
//
// Note: A value is a subject reference if all of these hold True:
// 1. It is an Object.
// 2. It has a single key: @id.
func IsSubjectReference(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsID := vMap["@id"]
	return isMap && len(vMap) == 1 && containsID
}

// IsList returns true if the given value is a @list.
func IsList(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, hasList := vMap["@list"]
	return isMap && hasList
}

// IsGraph returns true if the given value is a graph.
//
// Note: A value is a graph if all of these hold true:
// 1. It is an object.
// 2. It has an `@graph` key.
// 3. It may have '@id' or '@index'
func IsGraph(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	if _, containsGraph := vMap["@graph"]; !containsGraph {
		return false
	}
	for k := range vMap {
		if k != "@id" && k != "@index" && k != "@graph" {
			return false
		}
	}
	return true
}

// IsValue returns true if the given value is a JSON-LD value
func IsValue(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsValue := vMap["@value"]
	return isMap && containsValue
}

// Arrayify returns v, if v is an array, otherwise returns an array
// containing v as the only element.
func Arrayify(v interface{}) []interface{} {
	av, isArray := v.([]interface{})
	if isArray {
		return av
	}
	return []interface{}{v}
}

// IsBlankNodeValue returns true if the given value is a blank node.
func IsBlankNodeValue(v interface{}) bool {
	// Note: A value is a blank node if all of these hold true:
	// 1. It is an Object.
	// 2. If it has an @id key its value begins with '_:'.
	// 3. It has no keys OR is not a @value, @set, or @list.
	vMap, isMap := v.(map[string]interface{})
	if isMap {
		id, containsID := vMap["@id"]
		if containsID {
			idStr, isString := id.(string)
			return isString && IsBlankNodeID(idStr)
		}
		_, containsValue := vMap["@value"]
		_, containsSet := vMap["@set"]
		_, containsList := vMap["@list"]
		return len(vMap) == 0 || !(containsValue || containsSet || containsList)
	}
	return false
}

// HasValue determines if the given value is a property of the given subject
func HasValue(subject interface{}, property string, value interface{}) bool {
	if subjMap, isMap := subject.(map[string]interface{}); isMap {
		if val, found := subjMap[property]; found {
			isList := IsList(val)
			if valArray, isArray := val.([]interface{}); isArray || isList {
				if isList {
					valArray, _ = val.(map[string]interface{})["@list"].([]interface{})
				}
				for _, v := range valArray {
					if CompareValues(value, v) {
						return true
					}
				}
			} else if _, isArray := value.([]interface{}); !isArray {
				// avoid matching the set of values with an array value parameter
				return CompareValues(value, val)
			}
		}
	}
	return false
}

// AddValue adds a value to a subject. If the value is an array, all values in the
// array will be added.
//
// Options:
//
//	[propertyIsArray] True if the property is always an array, False if not.
//	[valueAsArray] True to store an array value as is instead of adding its items.
//	[allowDuplicate] True to allow duplicates, False not to (uses a simple shallow comparison
//			of subject ID or value).
//	[prependValue] True to add the values in front of the existing ones.
func AddValue(subject map[string]interface{}, property string, value interface{}, propertyIsArray, valueAsArray, allowDuplicate,
	prependValue bool) {

	if valueAsArray {
		subject[property] = value
		return
	}

	if valueArray, isArray := value.([]interface{}); isArray {
		if _, found := subject[property]; !found && len(valueArray) == 0 && propertyIsArray {
			subject[property] = make([]interface{}, 0)
		}
		if prependValue {
			merged := make([]interface{}, 0, len(valueArray))
			merged = append(merged, valueArray...)
			if prev, found := subject[property]; found {
				merged = append(merged, Arrayify(prev)...)
			}
			valueArray = merged
			subject[property] = make([]interface{}, 0)
		}
		for _, v := range valueArray {
			AddValue(subject, property, v, propertyIsArray, valueAsArray, allowDuplicate, false)
		}
		return
	}

	propVal, propertyFound := subject[property]
	if !propertyFound {
		if propertyIsArray {
			subject[property] = []interface{}{value}
		} else {
			subject[property] = value
		}
		return
	}

	// check if subject already has value if duplicates not allowed
	hasValue := !allowDuplicate && HasValue(subject, property, value)

	// make property an array if value not present or always an array
	valArray, isArray := propVal.([]interface{})
	if !isArray && (!hasValue || propertyIsArray) {
		valArray = []interface{}{propVal}
		subject[property] = valArray
	}

	if !hasValue {
		if prependValue {
			subject[property] = append([]interface{}{value}, valArray...)
		} else {
			subject[property] = append(valArray, value)
		}
	}
}

// CompareValues compares two JSON-LD values for equality.
// Two JSON-LD values will be considered equal if:
//
// 1. They are both primitives of the same type and value.
// 2. They are both @values with the same @value, @type, @language and @index, OR
// 3. They both have @ids they are the same.
func CompareValues(v1 interface{}, v2 interface{}) bool {
	if isScalar(v1) && isScalar(v2) && v1 == v2 {
		return true
	}

	v1Map, isv1Map := v1.(map[string]interface{})
	v2Map, isv2Map := v2.(map[string]interface{})
	if !isv1Map || !isv2Map {
		return false
	}

	if IsValue(v1) && IsValue(v2) {
		if DeepCompare(v1Map["@value"], v2Map["@value"], true) &&
			DeepCompare(v1Map["@type"], v2Map["@type"], true) &&
			DeepCompare(v1Map["@language"], v2Map["@language"], true) &&
			DeepCompare(v1Map["@index"], v2Map["@index"], true) {
			return true
		}
	}

	id1, v1containsID := v1Map["@id"]
	id2, v2containsID := v2Map["@id"]
	if v1containsID && v2containsID {
		return DeepCompare(id1, id2, true)
	}

	return false
}

// CloneDocument returns a cloned instance of the given document
func CloneDocument(value interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case map[string]interface{}:
		mClone := make(map[string]interface{}, len(v))
		for k, item := range v {
			mClone[k] = CloneDocument(item)
		}
		return mClone
	case []interface{}:
		lClone := make([]interface{}, 0, len(v))
		for _, item := range v {
			lClone = append(lClone, CloneDocument(item))
		}
		return lClone
	default:
		// scalars are immutable
		return value
	}
}

// GetKeys returns all keys in the given object
func GetKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	return keys
}

// GetOrderedKeys returns all keys in the given object as a sorted list
func GetOrderedKeys(m map[string]interface{}) []string {
	keys := GetKeys(m)
	sort.Strings(keys)

	return keys
}

// PrintDocument prints a JSON-LD document. This is useful for debugging.
func PrintDocument(msg string, doc interface{}) {
	b, _ := json.MarshalIndent(doc, "", "  ")
	if msg != "" {
		_, _ = os.Stdout.WriteString(msg)
		_, _ = os.Stdout.WriteString("\n")
	}
	_, _ = os.Stdout.Write(b)
	_, _ = os.Stdout.WriteString("\n")
}
