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

// DroppedItem describes something the expansion algorithm is about to drop.
type DroppedItem struct {
	// UnmappedProperty is the key that did not expand to an absolute IRI or
	// a keyword. It is empty when a value is being dropped.
	UnmappedProperty string
	// UnmappedValue is the value being dropped, or the value of UnmappedProperty.
	UnmappedValue interface{}
	// ActiveProperty is the property the item was found under.
	ActiveProperty string
	// ExpandedProperty is the expanded form of the key holding the value, if any.
	ExpandedProperty string
	InsideList       bool
	// Context is the active context at the point of the drop.
	Context *Context
}

// ExpansionHook is offered every item expansion would drop. Returning nil
// lets the drop happen. Any other value is used instead: for an unmapped
// property it must be the string to use as the expanded property IRI.
type ExpansionHook interface {
	Replace(item *DroppedItem) interface{}
}

// ExpansionHookFunc adapts a function to the ExpansionHook interface.
type ExpansionHookFunc func(item *DroppedItem) interface{}

// Replace calls f(item).
func (f ExpansionHookFunc) Replace(item *DroppedItem) interface{} {
	return f(item)
}

func replaceDropped(opts *JsonLdOptions, item *DroppedItem) interface{} {
	if opts == nil || opts.ExpansionHook == nil {
		return nil
	}
	return opts.ExpansionHook.Replace(item)
}
