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

// GenerateNodeMap recursively flattens the subjects in the given JSON-LD expanded
// input into a node map: graphs[graphName][subjectID] = subject.
//
// When list is non-nil, values and subject references met at this level are
// appended to it and the extended list is returned.
func (api *JsonLdApi) GenerateNodeMap(input interface{}, graphs map[string]interface{}, activeGraph string,
	issuer *IdentifierIssuer, name string, list []interface{}) ([]interface{}, error) {

	// recurse through array
	if elementList, isList := input.([]interface{}); isList {
		for _, item := range elementList {
			var err error
			list, err = api.GenerateNodeMap(item, graphs, activeGraph, issuer, "", list)
			if err != nil {
				return nil, err
			}
		}
		return list, nil
	}

	// add non-object to list
	elem, isMap := input.(map[string]interface{})
	if !isMap {
		if list != nil {
			list = append(list, input)
		}
		return list, nil
	}

	// add values to list
	if IsValue(elem) {
		if typeStr, isString := elem["@type"].(string); isString && IsBlankNodeID(typeStr) {
			elem["@type"] = issuer.GetId(typeStr)
		}
		if list != nil {
			list = append(list, elem)
		}
		return list, nil
	}
	if list != nil && IsList(elem) {
		nested, err := api.GenerateNodeMap(elem["@list"], graphs, activeGraph, issuer, name, make([]interface{}, 0))
		if err != nil {
			return nil, err
		}
		return append(list, map[string]interface{}{"@list": nested}), nil
	}

	// Note: At this point, input must be a subject.

	// blank node types are labelled before the subject itself
	if typeList, isList := elem["@type"].([]interface{}); isList {
		for _, t := range typeList {
			if typeStr, isString := t.(string); isString && IsBlankNodeID(typeStr) {
				issuer.GetId(typeStr)
			}
		}
	}

	// get identifier for subject
	if name == "" {
		name, _ = elem["@id"].(string)
		if IsBlankNodeValue(elem) {
			name = issuer.GetId(name)
		}
	}

	// add subject reference to list
	if list != nil {
		list = append(list, map[string]interface{}{"@id": name})
	}

	// create new subject or merge into existing one
	subjects, isMap := graphs[activeGraph].(map[string]interface{})
	if !isMap {
		subjects = make(map[string]interface{})
		graphs[activeGraph] = subjects
	}
	subject, isMap := subjects[name].(map[string]interface{})
	if !isMap {
		subject = make(map[string]interface{})
		// a subject without a name is flattened but never stored
		if name != "" {
			subjects[name] = subject
		}
	}
	subject["@id"] = name

	for _, property := range GetOrderedKeys(elem) {
		value := elem[property]

		switch property {
		case "@id":
			continue

		case "@reverse":
			if err := api.generateReverseNodes(value, graphs, activeGraph, issuer, name); err != nil {
				return nil, err
			}
			continue

		case "@graph":
			if name != "" {
				if _, hasGraph := graphs[name]; !hasGraph {
					graphs[name] = make(map[string]interface{})
				}
			}
			if _, err := api.GenerateNodeMap(value, graphs, name, issuer, "", nil); err != nil {
				return nil, err
			}
			continue

		case "@included":
			if _, err := api.GenerateNodeMap(value, graphs, activeGraph, issuer, "", nil); err != nil {
				return nil, err
			}
			continue
		}

		// copy non-@type keywords
		if property != "@type" && IsKeyword(property) {
			if existing, hasIndex := subject[property]; hasIndex && property == "@index" &&
				!DeepCompare(existing, value, true) {
				return nil, NewJsonLdError(ConflictingIndexes, "conflicting @index property detected")
			}
			subject[property] = value
			continue
		}

		objects, isList := value.([]interface{})
		if !isList {
			continue
		}

		// if property is a bnode, assign it a new id
		if IsBlankNodeID(property) {
			property = issuer.GetId(property)
		}

		// ensure property is added for empty arrays
		if len(objects) == 0 {
			AddValue(subject, property, []interface{}{}, true, false, true, false)
			continue
		}

		for _, o := range objects {
			if oStr, isString := o.(string); isString && property == "@type" && IsBlankNodeID(oStr) {
				o = issuer.GetId(oStr)
			}

			switch {
			case IsSubject(o) || IsSubjectReference(o):
				oMap := o.(map[string]interface{})
				idVal, hasID := oMap["@id"]
				if hasID && (idVal == nil || idVal == "" || isEmptyObject(idVal)) {
					continue
				}

				// relabel blank node @id
				id, _ := idVal.(string)
				if !hasID || IsBlankNodeValue(oMap) {
					id = issuer.GetId(id)
				}

				AddValue(subject, property, map[string]interface{}{"@id": id}, true, false, false, false)
				if _, err := api.GenerateNodeMap(oMap, graphs, activeGraph, issuer, id, nil); err != nil {
					return nil, err
				}
			case IsValue(o):
				AddValue(subject, property, o, true, false, false, false)
			case IsList(o):
				oList, err := api.GenerateNodeMap(o.(map[string]interface{})["@list"], graphs, activeGraph, issuer,
					name, make([]interface{}, 0))
				if err != nil {
					return nil, err
				}
				AddValue(subject, property, map[string]interface{}{"@list": oList}, true, false, false, false)
			default:
				if _, err := api.GenerateNodeMap(o, graphs, activeGraph, issuer, name, nil); err != nil {
					return nil, err
				}
				AddValue(subject, property, o, true, false, false, false)
			}
		}
	}

	return list, nil
}

// generateReverseNodes adds a reference to the subject called name to each
// node of reverseValue, under the reverse property.
func (api *JsonLdApi) generateReverseNodes(reverseValue interface{}, graphs map[string]interface{},
	activeGraph string, issuer *IdentifierIssuer, name string) error {

	reverseMap, isMap := reverseValue.(map[string]interface{})
	if !isMap {
		return nil
	}
	referencedNode := map[string]interface{}{"@id": name}
	for _, reverseProperty := range GetOrderedKeys(reverseMap) {
		items, isList := reverseMap[reverseProperty].([]interface{})
		if !isList {
			continue
		}
		for _, item := range items {
			itemMap, isMap := item.(map[string]interface{})
			if !isMap {
				continue
			}
			itemName, _ := itemMap["@id"].(string)
			if IsBlankNodeValue(itemMap) {
				itemName = issuer.GetId(itemName)
			}
			if _, err := api.GenerateNodeMap(itemMap, graphs, activeGraph, issuer, itemName, nil); err != nil {
				return err
			}
			subjects, _ := graphs[activeGraph].(map[string]interface{})
			itemSubject, isMap := subjects[itemName].(map[string]interface{})
			if !isMap {
				return NewJsonLdError(InvalidReversePropertyValue,
					"reverse property value must be a node with an identifier: "+reverseProperty)
			}
			AddValue(itemSubject, reverseProperty, referencedNode, true, false, false, false)
		}
	}
	return nil
}
