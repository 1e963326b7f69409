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
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Object is an instance of a Class. Objects are compared by identity.
type Object struct {
	id     uuid.UUID
	class  *Class
	mutex  sync.RWMutex
	fields map[string]interface{}
}

func newObject(c *Class) *Object {
	return &Object{id: uuid.New(), class: c, fields: make(map[string]interface{})}
}

func (o *Object) ID() uuid.UUID {
	return o.id
}

func (o *Object) Class() *Class {
	return o.class
}

// Call invokes an instance method through the runtime's interceptor.
func (o *Object) Call(method string, args ...interface{}) interface{} {
	inv := &Invocation{Object: o, Class: o.class, Method: method, Args: args}
	inv.real = func() interface{} {
		fn := o.class.lookupMethod(method)
		if fn == nil {
			panic(&UndefinedMethodError{Class: o.class.name, Method: method})
		}
		return fn(o, args...)
	}
	return o.class.runtime.dispatch(inv)
}

// Get returns the field value, nil if unset
func (o *Object) Get(field string) interface{} {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.fields[field]
}

// Set assigns a field. Fields need not be declared.
func (o *Object) Set(field string, value interface{}) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.fields[field] = value
}

// Has is true if the field has been assigned or declared
func (o *Object) Has(field string) bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	_, found := o.fields[field]
	return found
}

// Fields returns a copy of all field values
func (o *Object) Fields() map[string]interface{} {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	fields := make(map[string]interface{}, len(o.fields))
	for k, v := range o.fields {
		fields[k] = v
	}
	return fields
}

// Release runs the nearest destructor, if any.
func (o *Object) Release() {
	for _, class := range o.class.Lineage() {
		if class.destructor != nil {
			class.destructor(o)
			return
		}
	}
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%s", o.class.name, o.id.String()[:8])
}
