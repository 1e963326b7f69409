/*
 * Copyright 2020 grant@lastweekend.com.au
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package host

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// MethodFunc implements an instance method. self is the receiving object.
type MethodFunc func(self *Object, args ...interface{}) interface{}

// StaticFunc implements a static method. class is the class the method was called on,
// which may be a subclass of the class that defines it.
type StaticFunc func(class *Class, args ...interface{}) interface{}

// ClassDef describes a class to Runtime.Define
type ClassDef struct {
	Name   string
	Parent string

	// Fields declares instance fields and their default values
	Fields map[string]interface{}

	Constructor MethodFunc
	Destructor  MethodFunc

	Methods map[string]MethodFunc
	Static  map[string]StaticFunc
}

// Class is a defined class. Its definition is immutable.
type Class struct {
	runtime     *Runtime
	name        string
	parent      *Class
	fields      map[string]interface{}
	constructor MethodFunc
	destructor  MethodFunc
	methods     map[string]MethodFunc
	static      map[string]StaticFunc
}

func newClass(r *Runtime, def ClassDef, parent *Class) *Class {
	c := &Class{
		runtime:     r,
		name:        def.Name,
		parent:      parent,
		fields:      make(map[string]interface{}, len(def.Fields)),
		constructor: def.Constructor,
		destructor:  def.Destructor,
		methods:     make(map[string]MethodFunc, len(def.Methods)),
		static:      make(map[string]StaticFunc, len(def.Static)),
	}
	for k, v := range def.Fields {
		c.fields[k] = v
	}
	for k, v := range def.Methods {
		c.methods[k] = v
	}
	for k, v := range def.Static {
		c.static[k] = v
	}
	return c
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) String() string {
	return c.name
}

// Parent returns nil for a root class
func (c *Class) Parent() *Class {
	return c.parent
}

func (c *Class) Runtime() *Runtime {
	return c.runtime
}

// Lineage is this class followed by its ancestors, nearest first.
func (c *Class) Lineage() []*Class {
	var lineage []*Class
	for current := c; current != nil; current = current.parent {
		lineage = append(lineage, current)
	}
	return lineage
}

// IsSubclassOf is true if c is other or descends from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for current := c; current != nil; current = current.parent {
		if current == other {
			return true
		}
	}
	return false
}

// HasMethod is true if c or an ancestor defines an instance or static method called name
func (c *Class) HasMethod(name string) bool {
	return c.lookupMethod(name) != nil || c.lookupStatic(name) != nil
}

// HasField is true if c or an ancestor declares the field
func (c *Class) HasField(name string) bool {
	for current := c; current != nil; current = current.parent {
		if _, found := current.fields[name]; found {
			return true
		}
	}
	return false
}

// FieldNames returns all declared fields, including inherited ones, sorted.
func (c *Class) FieldNames() []string {
	seen := make(map[string]bool)
	for current := c; current != nil; current = current.parent {
		for name := range current.fields {
			seen[name] = true
		}
	}
	return sortedKeys(seen)
}

// PublicMethods returns the exported instance and static method names of c and its ancestors, sorted.
func (c *Class) PublicMethods() []string {
	seen := make(map[string]bool)
	for current := c; current != nil; current = current.parent {
		for name := range current.methods {
			if isPublic(name) {
				seen[name] = true
			}
		}
		for name := range current.static {
			if isPublic(name) {
				seen[name] = true
			}
		}
	}
	return sortedKeys(seen)
}

func (c *Class) lookupMethod(name string) MethodFunc {
	for current := c; current != nil; current = current.parent {
		if m, found := current.methods[name]; found {
			return m
		}
	}
	return nil
}

func (c *Class) lookupStatic(name string) StaticFunc {
	for current := c; current != nil; current = current.parent {
		if m, found := current.static[name]; found {
			return m
		}
	}
	return nil
}

// New creates an instance with default field values and runs the nearest constructor.
func (c *Class) New(args ...interface{}) *Object {
	obj := newObject(c)
	lineage := c.Lineage()
	for i := len(lineage) - 1; i >= 0; i-- {
		for k, v := range lineage[i].fields {
			obj.fields[k] = v
		}
	}
	for _, class := range lineage {
		if class.constructor != nil {
			class.constructor(obj, args...)
			break
		}
	}
	return obj
}

// Instantiate creates an instance without running any constructor.
// Declared fields are present but nil.
func (c *Class) Instantiate() *Object {
	obj := newObject(c)
	for _, name := range c.FieldNames() {
		obj.fields[name] = nil
	}
	return obj
}

// CallStatic invokes a static method through the runtime's interceptor.
func (c *Class) CallStatic(method string, args ...interface{}) interface{} {
	inv := &Invocation{Class: c, Method: method, Args: args, Static: true}
	inv.real = func() interface{} {
		fn := c.lookupStatic(method)
		if fn == nil {
			panic(&UndefinedMethodError{Class: c.name, Method: method, Static: true})
		}
		return fn(c, args...)
	}
	return c.runtime.dispatch(inv)
}

func isPublic(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
